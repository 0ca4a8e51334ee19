package actions

import (
	"context"
	"fmt"

	"papas-chatbot/internal/llm"
	"papas-chatbot/internal/storage"
)

const (
	NameRespuestaIA       = "action_respuesta_ia"
	NameConsultarVariedad = "action_consultar_variedad"
	NameBuscarReceta      = "action_buscar_receta"
)

const (
	fallbackGeneral = "Disculpa, tuve un problema procesando tu pregunta. ¿Podrías reformularla de otra manera? 🤔"
	fallbackVariety = "No pude obtener información sobre esa variedad ahora. ¿Intentamos de nuevo? 🥔"
	fallbackRecipe  = "No encontré la receta. ¿Quieres saber sobre otra preparación? 👨‍🍳"
)

// askAction forwards the user's text to the model and relays the answer.
type askAction struct {
	name     string
	question func(text string) string
	fallback string
	// record writes a respuesta_ia event for every attempt.
	record bool
	deps   Deps
}

func (a *askAction) Name() string { return a.name }

func (a *askAction) Run(ctx context.Context, turn Turn) Outcome {
	text := turn.LastUserText()
	prompt := BuildPrompt(a.deps.Knowledge, a.question(text))

	answer, err := a.ask(ctx, prompt)
	succeeded := err == nil
	if succeeded {
		turn.SendMessage(answer)
	} else {
		a.deps.logger().Warn("llm request failed",
			"action", a.name, "sender", turn.SenderID(), "kind", llm.KindOf(err), "error", err)
		turn.SendMessage(a.fallback)
	}

	if a.record {
		a.deps.Events.Record(storage.NewAIResponse(turn.SenderID(), text, succeeded, a.deps.now()))
	}
	if !succeeded {
		return OutcomeFallback
	}
	return OutcomeAnswered
}

func (a *askAction) ask(ctx context.Context, prompt string) (string, error) {
	if a.deps.LLM == nil {
		return "", &llm.Error{Kind: llm.KindNetwork, Provider: "none", Err: fmt.Errorf("no llm client configured")}
	}
	resp, err := a.deps.LLM.Generate(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}})
	if err != nil {
		return "", err
	}
	a.deps.logger().Debug("llm response",
		"action", a.name, "model", resp.Model, "prompt_tokens", resp.PromptTokens,
		"completion_tokens", resp.CompletionTokens, "total_tokens", resp.TotalTokens)
	return resp.Content, nil
}

func NewRespuestaIA(d Deps) Action {
	return &askAction{
		name:     NameRespuestaIA,
		question: func(text string) string { return text },
		fallback: fallbackGeneral,
		record:   true,
		deps:     d,
	}
}

func NewConsultarVariedad(d Deps) Action {
	return &askAction{
		name:     NameConsultarVariedad,
		question: varietyQuestion,
		fallback: fallbackVariety,
		deps:     d,
	}
}

func NewBuscarReceta(d Deps) Action {
	return &askAction{
		name:     NameBuscarReceta,
		question: recipeQuestion,
		fallback: fallbackRecipe,
		deps:     d,
	}
}
