package llm

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string
	Content string
}

type Response struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Client sends a conversation to a generative model. Failures are returned
// as *Error so callers can pick a fallback by Kind.
type Client interface {
	Generate(ctx context.Context, messages []Message) (Response, error)
}
