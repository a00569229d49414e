package domain

// Wire-level discriminators for the built-in document variants.
// Each variant is bound to exactly one of these.

// MediaTypePlainText is the media type of PlainText.
const MediaTypePlainText = "text/plain"

// MediaTypeText is the media type of Text.
const MediaTypeText = "application/vnd.lime.text+json"

// MediaTypePing is the media type of Ping.
const MediaTypePing = "application/vnd.lime.ping+json"

// MediaTypeReceipt is the media type of Receipt.
const MediaTypeReceipt = "application/vnd.lime.receipt+json"

// MediaTypeJSON is the media type of JSONDocument.
const MediaTypeJSON = "application/json"

// Document is a typed payload. The media type is the discriminator used to
// pick the concrete variant when decoding.
type Document interface {
	MediaType() MediaType
}

// PlainText is flat text content.
type PlainText struct {
	Text string
}

// MediaType implements Document.
func (PlainText) MediaType() MediaType { return MustParseMediaType(MediaTypePlainText) }

// MarshalText renders the raw text; plain text has no JSON envelope.
func (p PlainText) MarshalText() ([]byte, error) { return []byte(p.Text), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *PlainText) UnmarshalText(b []byte) error {
	p.Text = string(b)
	return nil
}

// Text is flat text content carried as a JSON object.
type Text struct {
	Text string `json:"text"`
}

// MediaType implements Document.
func (Text) MediaType() MediaType { return MustParseMediaType(MediaTypeText) }

// Ping is the connectivity probe document; it has no fields.
type Ping struct{}

// MediaType implements Document.
func (Ping) MediaType() MediaType { return MustParseMediaType(MediaTypePing) }

// Receipt requests delivery notifications for the listed events.
type Receipt struct {
	Events []string `json:"events,omitempty"`
}

// MediaType implements Document.
func (Receipt) MediaType() MediaType { return MustParseMediaType(MediaTypeReceipt) }

// JSONDocument is an untyped JSON object.
type JSONDocument map[string]any

// MediaType implements Document.
func (JSONDocument) MediaType() MediaType { return MustParseMediaType(MediaTypeJSON) }
