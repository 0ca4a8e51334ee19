package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

const ProviderGemini = "gemini"

const (
	DefaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel    = "gemini-2.5-flash"
)

// GeminiConfig holds everything the Gemini client needs; nothing is read
// from the environment here.
type GeminiConfig struct {
	APIKey          string
	Endpoint        string
	Model           string
	Timeout         time.Duration
	Temperature     float64
	MaxOutputTokens int
	TopP            float64
}

type GeminiClient struct {
	http *resty.Client
	cfg  GeminiConfig
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	TopP            float64 `json:"topP"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

func NewGemini(cfg GeminiConfig) *GeminiClient {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultGeminiEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	c := resty.New().
		SetBaseURL(strings.TrimRight(cfg.Endpoint, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-goog-api-key", cfg.APIKey)
	if cfg.Timeout > 0 {
		c.SetTimeout(cfg.Timeout)
	}
	return &GeminiClient{http: c, cfg: cfg}
}

func (c *GeminiClient) buildRequest(messages []Message) geminiRequest {
	req := geminiRequest{
		GenerationConfig: geminiGenerationConfig{
			Temperature:     c.cfg.Temperature,
			MaxOutputTokens: c.cfg.MaxOutputTokens,
			TopP:            c.cfg.TopP,
		},
	}
	var system []geminiPart
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			system = append(system, geminiPart{Text: m.Content})
		case RoleAssistant:
			req.Contents = append(req.Contents, geminiContent{Role: "model", Parts: []geminiPart{{Text: m.Content}}})
		default:
			req.Contents = append(req.Contents, geminiContent{Role: "user", Parts: []geminiPart{{Text: m.Content}}})
		}
	}
	if len(system) > 0 {
		req.SystemInstruction = &geminiContent{Parts: system}
	}
	return req
}

func (c *GeminiClient) Generate(ctx context.Context, messages []Message) (Response, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(c.buildRequest(messages)).
		Post("/models/" + c.cfg.Model + ":generateContent")
	if err != nil {
		return Response{}, transportError(ProviderGemini, err)
	}

	body := resp.Body()
	if resp.StatusCode() != http.StatusOK {
		msg := gjson.GetBytes(body, "error.message").String()
		if msg == "" {
			msg = strings.TrimSpace(string(body))
		}
		return Response{}, &Error{
			Kind:       KindHTTPStatus,
			Provider:   ProviderGemini,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("%s", msg),
		}
	}
	return parseGeminiResponse(body, c.cfg.Model)
}

func parseGeminiResponse(body []byte, model string) (Response, error) {
	if !gjson.ValidBytes(body) {
		return Response{}, &Error{Kind: KindUnexpectedResponse, Provider: ProviderGemini, Err: fmt.Errorf("invalid json")}
	}
	root := gjson.ParseBytes(body)
	candidates := root.Get("candidates")
	if !candidates.IsArray() || len(candidates.Array()) == 0 {
		reason := root.Get("promptFeedback.blockReason").String()
		return Response{}, &Error{Kind: KindEmptyCandidates, Provider: ProviderGemini, Err: fmt.Errorf("no candidates (block reason %q)", reason)}
	}
	text := candidates.Get("0.content.parts.0.text")
	if !text.Exists() {
		finish := candidates.Get("0.finishReason").String()
		return Response{}, &Error{Kind: KindUnexpectedResponse, Provider: ProviderGemini, Err: fmt.Errorf("candidate without text (finish reason %q)", finish)}
	}
	content := strings.TrimSpace(text.String())
	if content == "" {
		return Response{}, &Error{Kind: KindEmptyCandidates, Provider: ProviderGemini, Err: fmt.Errorf("candidate text is empty")}
	}

	out := Response{Content: content, Model: model}
	if v := root.Get("modelVersion"); v.Exists() {
		out.Model = v.String()
	}
	usage := root.Get("usageMetadata")
	out.PromptTokens = int(usage.Get("promptTokenCount").Int())
	out.CompletionTokens = int(usage.Get("candidatesTokenCount").Int())
	out.TotalTokens = int(usage.Get("totalTokenCount").Int())
	return out, nil
}
