package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Clip is one record of the clip list, kept exactly as the server sent it.
// Records are normally JSON objects; any other value is carried through
// unchanged and simply has no fields.
type Clip struct {
	raw    json.RawMessage
	fields map[string]any
}

// NoResults is the body the clip list endpoint sends once there is no more data.
const NoResults = "No_results"

// NewClip builds a record from decoded fields. Numbers should be
// json.Number so the record matches one read back from disk.
func NewClip(fields map[string]any) Clip {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(fields); err != nil {
		return Clip{fields: fields}
	}
	return Clip{raw: bytes.TrimSuffix(buf.Bytes(), []byte("\n")), fields: fields}
}

// ParseClip wraps one JSON value. Insignificant whitespace is dropped; key
// order and number text are kept. Object fields are decoded with numbers as
// json.Number.
func ParseClip(raw []byte) Clip {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		buf.Reset()
		buf.Write(raw)
	}
	c := Clip{raw: buf.Bytes()}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err == nil {
		c.fields = fields
	}
	return c
}

// MarshalJSON returns the record as received.
func (c Clip) MarshalJSON() ([]byte, error) {
	if c.raw != nil {
		return c.raw, nil
	}
	return json.Marshal(c.fields)
}

// UnmarshalJSON keeps the value as-is; see ParseClip.
func (c *Clip) UnmarshalJSON(b []byte) error {
	*c = ParseClip(b)
	return nil
}

// IsObject reports whether the record is a JSON object.
func (c Clip) IsObject() bool { return c.fields != nil }

// Get returns a decoded field, or nil when absent.
func (c Clip) Get(key string) any { return c.fields[key] }

// Total returns the server-reported total clip count carried on a record.
// An absent total is 0. ok is false when a total is present but is not a
// JSON number or boolean; fractional totals round up.
func (c Clip) Total() (total int, ok bool) {
	v, present := c.fields["total"]
	if !present {
		return 0, true
	}
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		if f, err := n.Float64(); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return int(math.Ceil(f)), true
		}
	case float64:
		return int(math.Ceil(n)), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// ID returns the clip id as text.
func (c Clip) ID() string { return c.text("id") }

// Code returns the YouTube video id.
func (c Clip) Code() string { return c.text("code") }

// Title returns the clip title.
func (c Clip) Title() string { return c.text("title") }

// Thumb returns the thumbnail path or URL as sent by the server.
func (c Clip) Thumb() string { return c.text("thumb") }

// Duration returns the raw duration string, e.g. "3:45".
func (c Clip) Duration() string { return c.text("duration") }

// Category returns the clip category name.
func (c Clip) Category() string { return c.text("category") }

func (c Clip) text(key string) string {
	switch v := c.fields[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
