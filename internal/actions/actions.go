// Package actions implements the bot's custom actions independently of the
// runtime that hosts them. A host adapts its per-turn state to Turn.
package actions

import (
	"context"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"papas-chatbot/internal/llm"
)

// Turn is what an action can see of and do with the current conversation turn.
type Turn interface {
	SendMessage(text string)
	LastUserText() string
	SenderID() string
	Intent() string
	// Confidence reports false when the classifier gave no score.
	Confidence() (float64, bool)
}

// Outcome summarises what an action did, for logs and metrics.
type Outcome string

const (
	OutcomeAnswered Outcome = "answered"
	OutcomeFallback Outcome = "fallback"
	OutcomeRecorded Outcome = "recorded"
)

type Action interface {
	Name() string
	Run(ctx context.Context, turn Turn) Outcome
}

// Deps are shared by all actions.
type Deps struct {
	LLM       llm.Client
	Events    *EventLog
	Knowledge string
	Now       func() time.Time
	Logger    *log.Logger
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d Deps) logger() *log.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return log.Default()
}

// Registry maps action names to actions.
type Registry struct {
	actions map[string]Action
}

func NewRegistry(actions ...Action) *Registry {
	r := &Registry{actions: make(map[string]Action, len(actions))}
	for _, a := range actions {
		r.actions[a.Name()] = a
	}
	return r
}

func (r *Registry) Get(name string) (Action, bool) {
	a, ok := r.actions[name]
	return a, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.actions))
	for n := range r.actions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Default registers the four chatbot actions.
func Default(d Deps) *Registry {
	return NewRegistry(
		NewRespuestaIA(d),
		NewConsultarVariedad(d),
		NewBuscarReceta(d),
		NewRegistrarConversacion(d),
	)
}
