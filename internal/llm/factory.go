package llm

import (
	"fmt"
	"strings"
	"time"

	"papas-chatbot/internal/config"
)

// Factory creates LLM clients with consistent logic
type Factory struct {
	Provider string
	Timeout  time.Duration
	Gemini   GeminiConfig

	OpenaiAPIKey       string
	OpenaiBaseURL      string
	OpenaiModel        string
	OpenRouterReferrer string
	OpenRouterTitle    string

	YandexOAuthToken string
	YandexFolderID   string
}

func NewFactory(cfg *config.Config) *Factory {
	return &Factory{
		Provider: string(cfg.LLMProvider),
		Timeout:  cfg.LLMTimeout,
		Gemini: GeminiConfig{
			APIKey:          cfg.GeminiAPIKey,
			Endpoint:        cfg.GeminiEndpoint,
			Model:           cfg.GeminiModel,
			Timeout:         cfg.LLMTimeout,
			Temperature:     cfg.Temperature,
			MaxOutputTokens: cfg.MaxOutputTokens,
			TopP:            cfg.TopP,
		},
		OpenaiAPIKey:       cfg.OpenAIAPIKey,
		OpenaiBaseURL:      cfg.OpenAIBaseURL,
		OpenaiModel:        cfg.OpenAIModel,
		OpenRouterReferrer: cfg.OpenRouterReferrer,
		OpenRouterTitle:    cfg.OpenRouterTitle,
		YandexOAuthToken:   cfg.YandexOAuthToken,
		YandexFolderID:     cfg.YandexFolderID,
	}
}

func (f *Factory) CreateClient(provider string) (Client, error) {
	switch strings.ToLower(provider) {
	case ProviderGemini:
		if f.Gemini.APIKey == "" {
			return nil, fmt.Errorf("gemini provider requires GEMINI_API_KEY")
		}
		return NewGemini(f.Gemini), nil
	case ProviderOpenAI:
		return NewOpenAI(f.OpenaiAPIKey, f.OpenaiBaseURL, f.OpenaiModel, f.OpenRouterReferrer, f.OpenRouterTitle, f.Timeout), nil
	case ProviderYandex:
		return NewYandex(f.YandexOAuthToken, f.YandexFolderID, f.Timeout)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", provider)
	}
}

// CreateDefault builds the client for the configured provider.
func (f *Factory) CreateDefault() (Client, error) {
	return f.CreateClient(f.Provider)
}
