package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/charmbracelet/log"
)

type LLMProvider string

const (
	ProviderGemini LLMProvider = "gemini"
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type Config struct {
	// LLM settings
	LLMProvider     LLMProvider   `env:"LLM_PROVIDER" envDefault:"gemini"`
	LLMTimeout      time.Duration `env:"LLM_TIMEOUT" envDefault:"15s"`
	GeminiAPIKey    string        `env:"GEMINI_API_KEY"`
	GeminiEndpoint  string        `env:"GEMINI_ENDPOINT" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
	GeminiModel     string        `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	Temperature     float64       `env:"LLM_TEMPERATURE" envDefault:"0.8"`
	MaxOutputTokens int           `env:"LLM_MAX_OUTPUT_TOKENS" envDefault:"1024"`
	TopP            float64       `env:"LLM_TOP_P" envDefault:"0.9"`

	OpenAIAPIKey     string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string `env:"OPENAI_BASE_URL"`
	OpenAIModel      string `env:"OPENAI_MODEL" envDefault:"gpt-3.5-turbo"`
	YandexOAuthToken string `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string `env:"YANDEX_FOLDER_ID"`

	// OpenRouter (optional)
	OpenRouterReferrer string `env:"OPENROUTER_REFERRER"`
	OpenRouterTitle    string `env:"OPENROUTER_TITLE"`

	// Prompts
	KnowledgePromptPath string `env:"KNOWLEDGE_PROMPT_PATH"`

	// Storage
	AnalyticsLogPath string `env:"ANALYTICS_LOG_PATH" envDefault:"chatbot_analytics.log"`

	// Action server
	ActionServerPort int `env:"ACTION_SERVER_PORT" envDefault:"5055"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// Scheduled reports, disabled when REPORT_CRON is empty
	ReportCron       string `env:"REPORT_CRON"`
	ReportOutputPath string `env:"REPORT_OUTPUT_PATH" envDefault:"reports/reporte_completo.txt"`

	// Telegram host (cmd/bot)
	TelegramBotToken string  `env:"TELEGRAM_BOT_TOKEN"`
	AllowedUsers     []int64 `env:"ALLOWED_USERS" envSeparator:":"`
	AdminUserID      int64   `env:"ADMIN_USER"`
}

// Parse reads the configuration from the environment.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	switch cfg.LLMProvider {
	case ProviderGemini, ProviderOpenAI, ProviderYandex:
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
	return cfg, nil
}

func New() *Config {
	cfg, err := Parse()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
