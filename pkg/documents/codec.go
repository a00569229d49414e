package documents

import (
	"bytes"
	"encoding"
	"encoding/json"
	"fmt"

	"github.com/sufield/lime/internal/domain"
)

type builtin struct {
	kind      Kind
	mediaType string
	decode    DecodeFunc
}

func builtins() []builtin {
	return []builtin{
		{KindPlainText, domain.MediaTypePlainText, decodePlainText},
		{KindText, domain.MediaTypeText, JSON[domain.Text]()},
		{KindPing, domain.MediaTypePing, decodePing},
		{KindReceipt, domain.MediaTypeReceipt, JSON[domain.Receipt]()},
		{KindJSON, domain.MediaTypeJSON, decodeJSONDocument},
	}
}

// JSON returns a DecodeFunc that unmarshals a JSON object into T.
func JSON[T domain.Document]() DecodeFunc {
	return func(data []byte) (domain.Document, error) {
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

func decodePlainText(data []byte) (domain.Document, error) {
	return domain.PlainText{Text: string(data)}, nil
}

// decodePing accepts an empty payload or any JSON object.
func decodePing(data []byte) (domain.Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return domain.Ping{}, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	return domain.Ping{}, nil
}

func decodeJSONDocument(data []byte) (domain.Document, error) {
	var doc domain.JSONDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("payload is not a JSON object")
	}
	return doc, nil
}

// marshal writes text documents raw and everything else as JSON.
func marshal(doc domain.Document) ([]byte, error) {
	if !doc.MediaType().IsJSON() {
		if tm, ok := doc.(encoding.TextMarshaler); ok {
			return tm.MarshalText()
		}
	}
	return json.Marshal(doc)
}
