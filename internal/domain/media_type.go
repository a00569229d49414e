package domain

import (
	"fmt"
	"maps"
	"mime"
	"strings"
)

// MediaType is a parsed MIME type: type/subtype[+suffix][; params].
//
// The registry key (Key) is type/subtype[+suffix] in lower case. Parameters
// are carried along but are never part of the key.
type MediaType struct {
	Type       string
	Subtype    string
	Suffix     string
	Parameters map[string]string
}

// ParseMediaType parses a MIME string such as
// "application/vnd.lime.text+json" or "text/plain; charset=utf-8".
func ParseMediaType(s string) (MediaType, error) {
	full, params, err := mime.ParseMediaType(s)
	if err != nil {
		return MediaType{}, fmt.Errorf("%w: %q: %w", ErrMalformedMediaType, s, err)
	}

	typ, subtype, ok := strings.Cut(full, "/")
	if !ok || typ == "" || subtype == "" {
		return MediaType{}, fmt.Errorf("%w: %q is not type/subtype", ErrMalformedMediaType, s)
	}

	var suffix string
	if i := strings.LastIndex(subtype, "+"); i >= 0 {
		subtype, suffix = subtype[:i], subtype[i+1:]
		if subtype == "" || suffix == "" {
			return MediaType{}, fmt.Errorf("%w: %q has an empty subtype or suffix", ErrMalformedMediaType, s)
		}
	}

	mt := MediaType{Type: typ, Subtype: subtype, Suffix: suffix}
	if len(params) > 0 {
		mt.Parameters = params
	}
	return mt, nil
}

// MustParseMediaType is ParseMediaType for package-level constants.
// It panics on malformed input.
func MustParseMediaType(s string) MediaType {
	mt, err := ParseMediaType(s)
	if err != nil {
		panic(err)
	}
	return mt
}

// Key returns the normalized type/subtype[+suffix] string.
func (m MediaType) Key() string {
	if m.Type == "" && m.Subtype == "" {
		return ""
	}
	key := strings.ToLower(m.Type) + "/" + strings.ToLower(m.Subtype)
	if m.Suffix != "" {
		key += "+" + strings.ToLower(m.Suffix)
	}
	return key
}

// IsJSON reports whether the media type is JSON-structured.
func (m MediaType) IsJSON() bool {
	return strings.EqualFold(m.Suffix, "json") ||
		(strings.EqualFold(m.Type, "application") && strings.EqualFold(m.Subtype, "json"))
}

// String renders the media type including its parameters.
func (m MediaType) String() string {
	key := m.Key()
	if key == "" || len(m.Parameters) == 0 {
		return key
	}
	return mime.FormatMediaType(key, maps.Clone(m.Parameters))
}

// Equals compares two media types by key; parameters are ignored.
func (m MediaType) Equals(other MediaType) bool {
	return m.Key() == other.Key()
}

// MarshalText implements encoding.TextMarshaler.
func (m MediaType) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *MediaType) UnmarshalText(text []byte) error {
	parsed, err := ParseMediaType(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
