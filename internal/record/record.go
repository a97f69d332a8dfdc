// Package record implements the aggregated resume record: an ordered set of
// named sections accumulated across form submissions for one identity.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Record is the full per-identity accumulation of submitted sections.
// Section names are unique within a record; a later submission for a name
// entirely supersedes the earlier payload.
type Record struct {
	ID           string    `json:"record_id"`
	Identity     string    `json:"identity"`
	Sections     []Section `json:"sections"`
	LastModified time.Time `json:"last_modified"`
}

// Section is one named, independently replaceable payload within a record.
// The name is stored in canonical upper-case form.
type Section struct {
	Name   string  `json:"name"`
	Fields Payload `json:"fields"`
}

// CanonicalName normalizes a section name to its stored form.
// Matching between submissions is case-insensitive.
func CanonicalName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// Section returns the section with the given name, or nil.
func (r *Record) Section(name string) *Section {
	canonical := CanonicalName(name)
	for i := range r.Sections {
		if r.Sections[i].Name == canonical {
			return &r.Sections[i]
		}
	}
	return nil
}

// Payload is an ordered mapping from field name to a scalar, list, or nested
// object value. Field order follows the order fields first appeared in the
// submitted JSON object, so re-encoding a payload is deterministic.
type Payload struct {
	keys   []string
	values map[string]any
}

// NewPayload returns an empty payload.
func NewPayload() Payload {
	return Payload{values: map[string]any{}}
}

// Set stores a field value, appending the key if it is new.
func (p *Payload) Set(key string, value any) {
	if p.values == nil {
		p.values = map[string]any{}
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// Get returns the value for a field and whether it exists.
func (p Payload) Get(key string) (any, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Keys returns the field names in submission order.
func (p Payload) Keys() []string {
	return p.keys
}

// Len returns the number of fields.
func (p Payload) Len() int {
	return len(p.keys)
}

// IsEmpty reports whether the payload has no fields.
func (p Payload) IsEmpty() bool {
	return len(p.keys) == 0
}

// Map returns the payload as a plain map. The map shares values with the
// payload and loses field ordering.
func (p Payload) Map() map[string]any {
	out := make(map[string]any, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}

// MarshalJSON emits the payload as a JSON object in field submission order.
func (p Payload) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		valueJSON, err := json.Marshal(p.values[key])
		if err != nil {
			return nil, fmt.Errorf("marshal field %q: %w", key, err)
		}
		buf.Write(valueJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON parses a JSON object, preserving the key order of the wire
// form. Numbers are kept as json.Number so re-encoding does not reformat
// numeric literals.
func (p *Payload) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("parse payload: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("parse payload: expected JSON object, got %v", tok)
	}

	*p = NewPayload()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("parse payload key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("parse payload: non-string key %v", keyTok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("parse payload field %q: %w", key, err)
		}
		p.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("parse payload: %w", err)
	}
	return nil
}
