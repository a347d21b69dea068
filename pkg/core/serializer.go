package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Serializer defines how the notes collection is encoded into the single
// value held by the Storage.
type Serializer interface {
	// Name identifies the format (e.g. "json").
	Name() string
	// Marshal converts the collection to bytes.
	Marshal(notes []Note) ([]byte, error)
	// Unmarshal parses bytes produced by Marshal.
	Unmarshal(data []byte) ([]Note, error)
}

// DefaultSerializers returns the standard set of serializers keyed by name.
func DefaultSerializers() map[string]Serializer {
	return map[string]Serializer{
		"json": NewJSONSerializer(),
		"yaml": NewYAMLSerializer(),
	}
}

// record is the stored shape of a note. Timestamps are Unix milliseconds.
type record struct {
	ID        string `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Content   string `json:"content" yaml:"content"`
	CreatedAt millis `json:"createdAt" yaml:"createdAt"`
	UpdatedAt millis `json:"updatedAt" yaml:"updatedAt"`
}

// millis is a Unix millisecond timestamp. When decoding JSON it also accepts
// an RFC 3339 string.
type millis int64

func (m *millis) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("invalid timestamp %q: %w", s, err)
		}
		*m = millis(t.UnixMilli())
		return nil
	}

	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid timestamp %s: %w", data, err)
	}
	*m = millis(n)
	return nil
}

func toRecords(notes []Note) []record {
	records := make([]record, 0, len(notes))
	for _, n := range notes {
		records = append(records, record{
			ID:        n.ID,
			Title:     n.Title,
			Content:   n.Content,
			CreatedAt: millis(n.CreatedAt.UnixMilli()),
			UpdatedAt: millis(n.UpdatedAt.UnixMilli()),
		})
	}
	return records
}

func fromRecords(records []record) ([]Note, error) {
	notes := make([]Note, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, r := range records {
		if r.ID == "" {
			return nil, fmt.Errorf("note at index %d has no id", i)
		}
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("duplicate note id %q", r.ID)
		}
		seen[r.ID] = struct{}{}

		notes = append(notes, Note{
			ID:        r.ID,
			Title:     r.Title,
			Content:   r.Content,
			CreatedAt: time.UnixMilli(int64(r.CreatedAt)),
			UpdatedAt: time.UnixMilli(int64(r.UpdatedAt)),
		})
	}
	return notes, nil
}

// --- JSON Serializer ---

// JSONSerializer stores the collection as a JSON array of note objects.
type JSONSerializer struct{}

// NewJSONSerializer creates a new JSON serializer.
func NewJSONSerializer() *JSONSerializer {
	return &JSONSerializer{}
}

func (s *JSONSerializer) Name() string { return "json" }

func (s *JSONSerializer) Marshal(notes []Note) ([]byte, error) {
	return json.Marshal(toRecords(notes))
}

func (s *JSONSerializer) Unmarshal(data []byte) ([]Note, error) {
	var records []record
	decoder := json.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&records); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	if decoder.More() {
		return nil, fmt.Errorf("invalid json: trailing data after collection")
	}
	return fromRecords(records)
}

// --- YAML Serializer ---

// YAMLSerializer stores the collection as a YAML sequence.
type YAMLSerializer struct{}

// NewYAMLSerializer creates a new YAML serializer.
func NewYAMLSerializer() *YAMLSerializer {
	return &YAMLSerializer{}
}

func (s *YAMLSerializer) Name() string { return "yaml" }

func (s *YAMLSerializer) Marshal(notes []Note) ([]byte, error) {
	return yaml.Marshal(toRecords(notes))
}

func (s *YAMLSerializer) Unmarshal(data []byte) ([]Note, error) {
	var records []record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	return fromRecords(records)
}
