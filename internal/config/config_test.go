package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, ProviderGemini, cfg.LLMProvider)
	assert.Equal(t, 15*time.Second, cfg.LLMTimeout)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.InDelta(t, 0.8, cfg.Temperature, 1e-9)
	assert.Equal(t, 1024, cfg.MaxOutputTokens)
	assert.InDelta(t, 0.9, cfg.TopP, 1e-9)
	assert.Equal(t, "chatbot_analytics.log", cfg.AnalyticsLogPath)
	assert.Equal(t, 5055, cfg.ActionServerPort)
	assert.Empty(t, cfg.ReportCron)
}

func TestParse_Overrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("LLM_TIMEOUT", "3s")
	t.Setenv("ANALYTICS_LOG_PATH", "/tmp/a.log")
	t.Setenv("ALLOWED_USERS", "1:2:3")
	t.Setenv("ACTION_SERVER_PORT", "6000")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, cfg.LLMProvider)
	assert.Equal(t, 3*time.Second, cfg.LLMTimeout)
	assert.Equal(t, "/tmp/a.log", cfg.AnalyticsLogPath)
	assert.Equal(t, []int64{1, 2, 3}, cfg.AllowedUsers)
	assert.Equal(t, 6000, cfg.ActionServerPort)
}

func TestParse_Errors(t *testing.T) {
	t.Run("unknown provider", func(t *testing.T) {
		t.Setenv("LLM_PROVIDER", "watson")
		_, err := Parse()
		assert.Error(t, err)
	})
	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("LLM_TIMEOUT", "soon")
		_, err := Parse()
		assert.Error(t, err)
	})
}
