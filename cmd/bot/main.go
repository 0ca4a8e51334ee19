package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"papas-chatbot/internal/actions"
	"papas-chatbot/internal/auth"
	"papas-chatbot/internal/config"
	"papas-chatbot/internal/llm"
	"papas-chatbot/internal/logger"
	"papas-chatbot/internal/storage"
	"papas-chatbot/internal/telegram"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Warn("Warning: .env file not found", "error", err)
	}

	cfg := config.New()
	lg := logger.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	if cfg.TelegramBotToken == "" {
		lg.Fatal("TELEGRAM_BOT_TOKEN is required")
	}

	client, err := llm.NewFactory(cfg).CreateDefault()
	if err != nil {
		lg.Error("llm client unavailable, answering with fallbacks", "provider", cfg.LLMProvider, "error", err)
	}

	var rec storage.Recorder
	if fr, err := storage.NewFileRecorder(cfg.AnalyticsLogPath); err != nil {
		lg.Warn("analytics log disabled", "path", cfg.AnalyticsLogPath, "error", err)
	} else {
		rec = fr
	}

	registry := actions.Default(actions.Deps{
		LLM:       client,
		Events:    actions.NewEventLog(rec, lg),
		Knowledge: actions.LoadKnowledge(cfg.KnowledgePromptPath),
		Logger:    lg,
	})

	bot, err := telegram.New(cfg.TelegramBotToken, auth.New(cfg.AllowedUsers, cfg.AdminUserID), registry, cfg.AnalyticsLogPath, lg)
	if err != nil {
		lg.Fatal("failed to create bot", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	bot.Start(ctx)
}
