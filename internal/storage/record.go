package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// separator splits the logging prefix from the JSON payload.
const separator = " - "

// prefixLayout mimics the "asctime" prefix of the analytics log.
const prefixLayout = "2006-01-02 15:04:05,000"

// record is the JSON payload of one log line. Pointers distinguish an
// absent key from a zero value.
type record struct {
	Kind       *string  `json:"evento"`
	UserID     *string  `json:"usuario"`
	Question   *string  `json:"pregunta,omitempty"`
	Succeeded  *bool    `json:"exitoso,omitempty"`
	Intent     *string  `json:"intent,omitempty"`
	Confidence *float64 `json:"confianza,omitempty"`
	Variety    *string  `json:"variedad,omitempty"`
	Timestamp  *string  `json:"timestamp"`
}

// timestampLayouts are tried in order. Layouts without an offset are read
// in the local zone, the way naive ISO timestamps were written.
var timestampLayouts = []struct {
	layout string
	local  bool
}{
	{time.RFC3339Nano, false},
	{"2006-01-02 15:04:05.999999999Z07:00", false},
	{"2006-01-02T15:04:05.999999999", true},
	{"2006-01-02 15:04:05.999999999", true},
	{"2006-01-02T15:04", true},
	{"2006-01-02", true},
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, l := range timestampLayouts {
		var (
			t   time.Time
			err error
		)
		if l.local {
			t, err = time.ParseInLocation(l.layout, s, time.Local)
		} else {
			t, err = time.Parse(l.layout, s)
		}
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func toRecord(ev Event) record {
	kind := string(ev.Kind)
	ts := ev.Timestamp.Format(time.RFC3339Nano)
	r := record{Kind: &kind, UserID: &ev.UserID, Timestamp: &ts}
	switch ev.Kind {
	case KindAIResponse:
		r.Question = &ev.Question
		r.Succeeded = &ev.Succeeded
	case KindInteraction:
		r.Intent = &ev.Intent
		r.Confidence = ev.Confidence
	case KindVarietyQuery:
		r.Variety = &ev.Variety
	}
	return r
}

func (r record) toEvent() (Event, error) {
	if r.Kind == nil || *r.Kind == "" {
		return Event{}, fmt.Errorf("missing evento")
	}
	if r.UserID == nil {
		return Event{}, fmt.Errorf("missing usuario")
	}
	if r.Timestamp == nil {
		return Event{}, fmt.Errorf("missing timestamp")
	}
	ts, err := parseTimestamp(*r.Timestamp)
	if err != nil {
		return Event{}, err
	}
	ev := Event{Kind: Kind(*r.Kind), UserID: *r.UserID, Timestamp: ts}
	switch ev.Kind {
	case KindAIResponse:
		if r.Question == nil || r.Succeeded == nil {
			return Event{}, fmt.Errorf("respuesta_ia without pregunta/exitoso")
		}
		ev.Question, ev.Succeeded = *r.Question, *r.Succeeded
	case KindInteraction:
		if r.Intent == nil {
			return Event{}, fmt.Errorf("interaccion without intent")
		}
		ev.Intent = *r.Intent
		ev.Confidence = r.Confidence
	case KindVarietyQuery:
		if r.Variety == nil {
			return Event{}, fmt.Errorf("consulta_variedad without variedad")
		}
		ev.Variety = *r.Variety
	}
	return ev, nil
}

// FormatLine renders the log line for ev, written at the given time.
func FormatLine(ev Event, at time.Time) (string, error) {
	payload, err := json.Marshal(toRecord(ev))
	if err != nil {
		return "", fmt.Errorf("encode event: %w", err)
	}
	return at.Format(prefixLayout) + separator + string(payload), nil
}

// ParseLine extracts the event from one log line. It reports false for
// lines without a separator, with a malformed payload, missing required
// keys or an unreadable timestamp.
func ParseLine(line string) (Event, bool) {
	_, payload, found := strings.Cut(line, separator)
	if !found {
		return Event{}, false
	}
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return Event{}, false
	}
	var r record
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return Event{}, false
	}
	ev, err := r.toEvent()
	if err != nil {
		return Event{}, false
	}
	return ev, true
}
