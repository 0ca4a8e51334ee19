package storage

import "time"

// Kind is the event tag written under the "evento" key.
type Kind string

const (
	KindAIResponse   Kind = "respuesta_ia"
	KindInteraction  Kind = "interaccion"
	KindVarietyQuery Kind = "consulta_variedad"
	KindRecipeSearch Kind = "busqueda_receta"
)

// UnknownIntent is recorded when the dialogue manager did not classify the turn.
const UnknownIntent = "unknown"

// Event represents a single chatbot interaction outcome.
// Events are appended once and never modified; the log file keeps them
// in write order, which is the only ordering the readers rely on.
// Kind-specific fields stay zero for other kinds.
type Event struct {
	Kind      Kind
	UserID    string
	Timestamp time.Time

	// respuesta_ia
	Question  string
	Succeeded bool

	// interaccion. Confidence is nil when the classifier did not report one.
	Intent     string
	Confidence *float64

	// consulta_variedad
	Variety string
}

// HasConfidence reports whether the classifier confidence was recorded.
func (e Event) HasConfidence() bool { return e.Confidence != nil }

// Equal compares events field by field, timestamps as instants.
func (e Event) Equal(o Event) bool {
	if e.Kind != o.Kind || e.UserID != o.UserID || !e.Timestamp.Equal(o.Timestamp) {
		return false
	}
	if e.Question != o.Question || e.Succeeded != o.Succeeded || e.Intent != o.Intent || e.Variety != o.Variety {
		return false
	}
	if (e.Confidence == nil) != (o.Confidence == nil) {
		return false
	}
	return e.Confidence == nil || *e.Confidence == *o.Confidence
}

// NewAIResponse builds the event written after every answer attempt.
func NewAIResponse(userID, question string, succeeded bool, ts time.Time) Event {
	return Event{Kind: KindAIResponse, UserID: userID, Question: question, Succeeded: succeeded, Timestamp: ts}
}

// NewInteraction builds the event written for a classified turn.
// hasConfidence=false leaves the confidence absent rather than zero.
func NewInteraction(userID, intent string, confidence float64, hasConfidence bool, ts time.Time) Event {
	if intent == "" {
		intent = UnknownIntent
	}
	ev := Event{Kind: KindInteraction, UserID: userID, Intent: intent, Timestamp: ts}
	if hasConfidence {
		c := confidence
		ev.Confidence = &c
	}
	return ev
}

// Recorder abstracts persistence of interaction events.
// Append must be safe for concurrent use; Load returns events in file order.
type Recorder interface {
	Append(event Event) error
	Load() ([]Event, error)
}
