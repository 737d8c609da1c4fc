package metaform

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

var (
	// ErrEmptyDocument is returned when decoding an empty payload.
	ErrEmptyDocument = errors.New("metaform: document payload is empty")
	// ErrNotDocument is returned by DecodeAny for YAML mappings that carry
	// neither an id nor sections.
	ErrNotDocument = errors.New("metaform: payload is not a metaform document")
)

// Decode parses a JSON Metaform document as served by the forms API.
func Decode(data []byte) (Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Document{}, ErrEmptyDocument
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("metaform: decode json: %w", err)
	}
	return Normalize(doc), nil
}

// DecodeYAML parses a YAML Metaform document. The YAML shape mirrors the JSON
// one key for key.
func DecodeYAML(data []byte) (Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Document{}, ErrEmptyDocument
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("metaform: decode yaml: %w", err)
	}
	return Normalize(doc), nil
}

// DecodeAny tries JSON first and falls back to YAML.
func DecodeAny(data []byte, source string) (Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Document{}, fmt.Errorf("metaform: %s: %w", source, ErrEmptyDocument)
	}
	if doc, err := Decode(data); err == nil {
		return doc, nil
	}
	var probe map[string]any
	if err := yaml.Unmarshal(data, &probe); err == nil {
		_, hasID := probe["id"]
		_, hasSections := probe["sections"]
		if !hasID && !hasSections {
			return Document{}, fmt.Errorf("metaform: parse %s: %w", source, ErrNotDocument)
		}
		if doc, err := DecodeYAML(data); err == nil {
			return doc, nil
		}
	}
	return Document{}, fmt.Errorf("metaform: parse %s: invalid JSON or YAML", source)
}

// Encode serialises doc into the JSON shape accepted by the draft API.
func Encode(doc Document) ([]byte, error) {
	data, err := json.Marshal(Normalize(doc))
	if err != nil {
		return nil, fmt.Errorf("metaform: encode json: %w", err)
	}
	return data, nil
}

// EncodeIndent is Encode with two space indentation.
func EncodeIndent(doc Document) ([]byte, error) {
	data, err := json.MarshalIndent(Normalize(doc), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("metaform: encode json: %w", err)
	}
	return data, nil
}

// Normalize makes sure sections and field lists serialise as arrays rather
// than null. It copies only the slices it needs to replace.
func Normalize(doc Document) Document {
	needsCopy := doc.Sections == nil
	for _, section := range doc.Sections {
		if section.Fields == nil {
			needsCopy = true
			break
		}
	}
	if !needsCopy {
		return doc
	}
	out := doc
	out.Sections = make([]Section, len(doc.Sections))
	for i, section := range doc.Sections {
		if section.Fields == nil {
			section.Fields = []Field{}
		}
		out.Sections[i] = section
	}
	return out
}

func marshalJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}

func unmarshalJSON(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
