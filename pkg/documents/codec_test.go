package documents_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/lime/internal/domain"
	"github.com/sufield/lime/pkg/documents"
)

func TestDecode(t *testing.T) {
	t.Parallel()
	reg := documents.Default()

	tests := []struct {
		name      string
		mediaType string
		data      string
		want      domain.Document
	}{
		{"plain text", "text/plain", "hello there", domain.PlainText{Text: "hello there"}},
		{"text", domain.MediaTypeText, `{"text":"hi"}`, domain.Text{Text: "hi"}},
		{"ping empty", domain.MediaTypePing, "", domain.Ping{}},
		{"ping object", domain.MediaTypePing, "{}", domain.Ping{}},
		{"receipt", domain.MediaTypeReceipt, `{"events":["received","consumed"]}`, domain.Receipt{Events: []string{"received", "consumed"}}},
		{"json", domain.MediaTypeJSON, `{"a":1}`, domain.JSONDocument{"a": float64(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			doc, err := reg.Decode(tt.mediaType, []byte(tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc)
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()
	reg := documents.Default()

	_, err := reg.Decode("application/vnd.unknown+json", []byte("{}"))
	assert.ErrorIs(t, err, documents.ErrUnknownMediaType)

	_, err = reg.Decode("bogus", nil)
	assert.ErrorIs(t, err, domain.ErrMalformedMediaType)

	_, err = reg.Decode(domain.MediaTypeText, []byte("{"))
	assert.ErrorIs(t, err, documents.ErrDecode)

	_, err = reg.Decode(domain.MediaTypeJSON, []byte("null"))
	assert.ErrorIs(t, err, documents.ErrDecode)

	_, err = reg.Decode(domain.MediaTypePing, []byte("[1]"))
	assert.ErrorIs(t, err, documents.ErrDecode)
}

func TestEncode(t *testing.T) {
	t.Parallel()
	reg := documents.Default()

	data, mt, err := reg.Encode(domain.PlainText{Text: "raw"})
	require.NoError(t, err)
	assert.Equal(t, "raw", string(data))
	assert.Equal(t, domain.MediaTypePlainText, mt)

	data, mt, err = reg.Encode(domain.Text{Text: "hi"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"hi"}`, string(data))
	assert.Equal(t, domain.MediaTypeText, mt)

	_, _, err = documents.New().Encode(domain.Ping{})
	assert.ErrorIs(t, err, documents.ErrUnknownMediaType)

	_, _, err = reg.Encode(nil)
	assert.ErrorIs(t, err, documents.ErrUnknownMediaType)
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	t.Parallel()
	reg := documents.Default()

	for _, doc := range []domain.Document{
		domain.PlainText{Text: "line"},
		domain.Text{Text: "body"},
		domain.Receipt{Events: []string{"dispatched"}},
	} {
		data, mt, err := reg.Encode(doc)
		require.NoError(t, err)
		got, err := reg.Decode(mt, data)
		require.NoError(t, err)
		assert.Equal(t, doc, got)
	}
}
