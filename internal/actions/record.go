package actions

import (
	"context"

	"github.com/charmbracelet/log"

	"papas-chatbot/internal/storage"
)

const NameRegistrarConversacion = "action_registrar_conversacion"

// EventLog records analytics events without ever failing the caller.
// A nil *EventLog or a nil recorder drops events.
type EventLog struct {
	rec    storage.Recorder
	logger *log.Logger
}

func NewEventLog(rec storage.Recorder, logger *log.Logger) *EventLog {
	if logger == nil {
		logger = log.Default()
	}
	return &EventLog{rec: rec, logger: logger}
}

func (l *EventLog) Record(ev storage.Event) {
	if l == nil || l.rec == nil {
		return
	}
	if err := l.rec.Append(ev); err != nil {
		l.logger.Error("failed to record analytics event", "evento", ev.Kind, "usuario", ev.UserID, "error", err)
	}
}

type registrarConversacion struct {
	deps Deps
}

// NewRegistrarConversacion records the classified intent of the turn and sends nothing.
func NewRegistrarConversacion(d Deps) Action {
	return &registrarConversacion{deps: d}
}

func (a *registrarConversacion) Name() string { return NameRegistrarConversacion }

func (a *registrarConversacion) Run(_ context.Context, turn Turn) Outcome {
	confidence, ok := turn.Confidence()
	a.deps.Events.Record(storage.NewInteraction(turn.SenderID(), turn.Intent(), confidence, ok, a.deps.now()))
	return OutcomeRecorded
}
