package cliplist

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/barmania-cli/internal/model"
)

// Kind tags the outcome of one fetch step.
type Kind int

const (
	// Continue means the step produced records and the loop may go on.
	Continue Kind = iota
	// Done means the server signalled the end of the data.
	Done
	// Failed means the step could not be completed; the loop stops.
	Failed
)

func (k Kind) String() string {
	switch k {
	case Continue:
		return "continue"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Reason says why the loop stopped.
type Reason string

const (
	ReasonNoResults    Reason = "no_results"
	ReasonEmptyBody    Reason = "empty_body"
	ReasonEmptyPage    Reason = "empty_page"
	ReasonParseError   Reason = "parse_error"
	ReasonFetchError   Reason = "fetch_error"
	ReasonCancelled    Reason = "cancelled"
	ReasonTotalReached Reason = "total_reached"
)

// Outcome is the result of one fetch step.
type Outcome struct {
	Kind   Kind
	Clips  []model.Clip // set when Kind is Continue
	Reason Reason       // set when Kind is Done or Failed
	Err    error        // set when Kind is Failed
}

// Classify turns a raw chunk body into an Outcome. Rules, in order: the
// sentinel text or a blank body ends the data; otherwise the body must be
// JSON, and an empty value or the sentinel string also ends the data; a
// non-empty value must be an array, whose elements are kept as records
// whatever their JSON type.
func Classify(body []byte) Outcome {
	text := string(body)
	if text == model.NoResults {
		return Outcome{Kind: Done, Reason: ReasonNoResults}
	}
	if strings.TrimSpace(text) == "" {
		return Outcome{Kind: Done, Reason: ReasonEmptyBody}
	}

	v, err := decode(body)
	if err != nil {
		return Outcome{Kind: Failed, Reason: ReasonParseError, Err: err}
	}
	if s, ok := v.(string); ok && s == model.NoResults {
		return Outcome{Kind: Done, Reason: ReasonNoResults}
	}
	if isEmpty(v) {
		return Outcome{Kind: Done, Reason: ReasonEmptyPage}
	}
	if _, ok := v.([]any); !ok {
		return Outcome{Kind: Failed, Reason: ReasonParseError, Err: eris.Errorf("cliplist: expected JSON array, got %T", v)}
	}

	var clips []model.Clip
	if err := json.Unmarshal(body, &clips); err != nil {
		return Outcome{Kind: Failed, Reason: ReasonParseError, Err: eris.Wrap(err, "cliplist: decode records")}
	}
	return Outcome{Kind: Continue, Clips: clips}
}

// decode parses exactly one JSON value, keeping numbers as json.Number.
func decode(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, eris.Wrap(err, "cliplist: decode body")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, eris.New("cliplist: trailing data after JSON value")
	}
	return v, nil
}

// isEmpty reports whether v is a JSON value that carries nothing: null,
// false, zero, "", [] or {}.
func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case string:
		return t == ""
	case json.Number:
		f, err := t.Float64()
		return err == nil && f == 0
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}
