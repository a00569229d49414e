package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// identitySeparator splits the name from the domain in name@domain.
const identitySeparator = "@"

// Identity names a protocol participant: name@domain.
//
// Identities are immutable once constructed. Protocol identities are
// case-insensitive, so Equals and Key compare the case-folded canonical
// form while String keeps the original spelling.
type Identity struct {
	name   string
	domain string
}

// NewIdentity builds an Identity from already-validated components.
// No trimming or normalization is applied.
func NewIdentity(name, domain string) Identity {
	return Identity{name: name, domain: domain}
}

// ParseIdentity parses the name@domain form.
//
// Both sides are trimmed. The input is rejected with ErrMalformedIdentity
// when the separator is missing, when either side is empty, or when the
// domain itself contains another separator.
func ParseIdentity(text string) (Identity, error) {
	name, domain, ok := strings.Cut(text, identitySeparator)
	if !ok {
		return Identity{}, fmt.Errorf("%w: %q has no %q separator", ErrMalformedIdentity, text, identitySeparator)
	}

	name = strings.TrimSpace(name)
	domain = strings.TrimSpace(domain)

	if name == "" {
		return Identity{}, fmt.Errorf("%w: %q has an empty name", ErrMalformedIdentity, text)
	}
	if domain == "" {
		return Identity{}, fmt.Errorf("%w: %q has an empty domain", ErrMalformedIdentity, text)
	}
	if strings.Contains(domain, identitySeparator) {
		return Identity{}, fmt.Errorf("%w: %q has more than one %q", ErrMalformedIdentity, text, identitySeparator)
	}

	return Identity{name: name, domain: domain}, nil
}

// Name returns the name component.
func (i Identity) Name() string {
	return i.name
}

// Domain returns the domain component.
func (i Identity) Domain() string {
	return i.domain
}

// IsZero reports whether the identity has neither a name nor a domain.
func (i Identity) IsZero() bool {
	return i.name == "" && i.domain == ""
}

// IsValid reports whether both components are present, which is what
// routing requires.
func (i Identity) IsValid() bool {
	return i.name != "" && i.domain != ""
}

// String returns name@domain as constructed (original case preserved).
func (i Identity) String() string {
	if i.IsZero() {
		return ""
	}
	return i.name + identitySeparator + i.domain
}

// Key returns the case-folded canonical form. Use it for map keys and
// hashing; two identities are Equal iff their keys are equal.
func (i Identity) Key() string {
	return cases.Fold().String(i.String())
}

// Equals compares two identities over their canonical form.
func (i Identity) Equals(other Identity) bool {
	return i.Key() == other.Key()
}

// MarshalText implements encoding.TextMarshaler.
func (i Identity) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *Identity) UnmarshalText(text []byte) error {
	parsed, err := ParseIdentity(string(text))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}
