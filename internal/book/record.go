package book

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// notSpecified is shown in place of an empty publisher.
const notSpecified = "Not specified"

// ID is the opaque book identifier. The catalog serializes it as a GraphQL ID
// (a JSON string) but numeric ids are accepted too and kept verbatim.
type ID string

// String returns the id as text.
func (id ID) String() string {
	return string(id)
}

// UnmarshalJSON accepts a JSON string, a JSON number, or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding book id: %w", err)
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decoding book id %s: %w", data, err)
	}
	*id = ID(n.String())
	return nil
}

// timestampLayouts are tried in order. The catalog emits zone-less local
// date-times; anything carrying a zone is RFC 3339.
//
//nolint:gochecknoglobals // Read-only lookup table.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp is a creation or update time reported by the catalog.
// Zone-less values are interpreted as UTC.
type Timestamp struct {
	time.Time
}

// ParseTimestamp parses s using the layouts the catalog is known to emit.
func ParseTimestamp(s string) (Timestamp, error) {
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return Timestamp{Time: t}, nil
		}
		lastErr = err
	}
	return Timestamp{}, fmt.Errorf("unrecognized timestamp %q: %w", s, lastErr)
}

// UnmarshalJSON decodes a timestamp string; null and "" decode to the zero time.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*t = Timestamp{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decoding timestamp: %w", err)
	}
	if s == "" {
		*t = Timestamp{}
		return nil
	}

	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalJSON encodes the zero time as null and everything else as RFC 3339.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

// MarshalYAML mirrors MarshalJSON for YAML output.
func (t Timestamp) MarshalYAML() (interface{}, error) {
	if t.IsZero() {
		return nil, nil //nolint:nilnil // A nil node renders as null.
	}
	return t.Format(time.RFC3339), nil
}

// Format renders the timestamp with layout, or "-" for the zero time.
func (t Timestamp) Format(layout string) string {
	if t.IsZero() {
		return "-"
	}
	return t.Time.Format(layout)
}

// Record is a book as returned by the catalog.
type Record struct {
	ID        ID        `json:"id"                  yaml:"id"`
	Title     string    `json:"title"               yaml:"title"`
	Author    string    `json:"author"              yaml:"author"`
	Publisher string    `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	CreatedAt Timestamp `json:"createdAt"           yaml:"created_at"`
	UpdatedAt Timestamp `json:"updatedAt"           yaml:"updated_at"`
}

// PublisherOrDefault returns the publisher, or a placeholder when none is set.
func (r Record) PublisherOrDefault() string {
	if r.Publisher == "" {
		return notSpecified
	}
	return r.Publisher
}

// Display returns a copy of r with every text field passed through Sanitize.
func (r Record) Display() Record {
	r.ID = ID(Sanitize(string(r.ID)))
	r.Title = Sanitize(r.Title)
	r.Author = Sanitize(r.Author)
	r.Publisher = Sanitize(r.Publisher)
	return r
}

// Input returns the editable fields of r as an Input.
func (r Record) Input() Input {
	return NewInput(r.Title, r.Author, r.Publisher)
}
