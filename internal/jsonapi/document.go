package jsonapi

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/unkn0wn-root/pickterm/internal/errdef"
)

// Identifier points at another resource by type and id.
type Identifier struct {
	ID   string `json:"id"`
	Type string `json:"type,omitempty"`
}

// Relationship holds a to-one linkage. To-many linkages are accepted on
// decode but left unresolved.
type Relationship struct {
	Data *Identifier `json:"data"`
}

type Resource struct {
	ID            string                  `json:"id"`
	Type          string                  `json:"type"`
	Attributes    map[string]any          `json:"attributes,omitempty"`
	Relationships map[string]Relationship `json:"relationships,omitempty"`
}

// Document is the top level payload. Primary resources live in Data, related
// resources of mixed types in Included.
type Document struct {
	Data     []Resource `json:"data"`
	Included []Resource `json:"included"`
}

type rawDocument struct {
	Data     json.RawMessage `json:"data"`
	Included json.RawMessage `json:"included"`
}

// Decode parses a response body. Bodies that are not an object, or that lack
// an array valued data or included member, are reported as malformed.
func Decode(body []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, errdef.New(errdef.CodeMalformed, "empty response body")
	}

	var raw rawDocument
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, errdef.Wrap(errdef.CodeMalformed, err, "decode document")
	}

	data, err := decodeMember(raw.Data, "data")
	if err != nil {
		return nil, err
	}
	included, err := decodeMember(raw.Included, "included")
	if err != nil {
		return nil, err
	}
	return &Document{Data: data, Included: included}, nil
}

func decodeMember(raw json.RawMessage, name string) ([]Resource, error) {
	if isAbsent(raw) {
		return nil, errdef.New(errdef.CodeMalformed, "document has no %q member", name)
	}
	if raw[0] != '[' {
		return nil, errdef.New(errdef.CodeMalformed, "document member %q is not an array", name)
	}
	out := []Resource{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errdef.Wrap(errdef.CodeMalformed, err, "decode %s", name)
	}
	return out, nil
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func (r *Resource) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID            json.RawMessage         `json:"id"`
		Type          string                  `json:"type"`
		Attributes    map[string]any          `json:"attributes"`
		Relationships map[string]Relationship `json:"relationships"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.ID = scalarText(raw.ID)
	r.Type = raw.Type
	r.Attributes = raw.Attributes
	r.Relationships = raw.Relationships
	return nil
}

func (r *Relationship) UnmarshalJSON(data []byte) error {
	var raw struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Data = nil
	if isAbsent(raw.Data) || raw.Data[0] != '{' {
		return nil
	}
	var linkage struct {
		ID   json.RawMessage `json:"id"`
		Type string          `json:"type"`
	}
	if err := json.Unmarshal(raw.Data, &linkage); err != nil {
		return err
	}
	r.Data = &Identifier{ID: scalarText(linkage.ID), Type: linkage.Type}
	return nil
}

// scalarText accepts ids sent as strings or numbers.
func scalarText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err == nil {
		return n.String()
	}
	return strings.Trim(string(trimmed), `"`)
}

// StringAttr returns the named attribute when it is a string and "" otherwise.
func (r Resource) StringAttr(name string) string {
	if r.Attributes == nil {
		return ""
	}
	if s, ok := r.Attributes[name].(string); ok {
		return s
	}
	return ""
}

// LinkedID returns the id referenced by the named relationship, or "" when
// the relationship is missing or empty.
func (r Resource) LinkedID(name string) string {
	rel, ok := r.Relationships[name]
	if !ok || rel.Data == nil {
		return ""
	}
	return rel.Data.ID
}
