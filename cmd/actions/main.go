package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"papas-chatbot/internal/actions"
	"papas-chatbot/internal/config"
	"papas-chatbot/internal/llm"
	"papas-chatbot/internal/logger"
	"papas-chatbot/internal/scheduler"
	"papas-chatbot/internal/server"
	"papas-chatbot/internal/storage"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Warn("Warning: .env file not found", "error", err)
	}

	cfg := config.New()
	lg := logger.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	metrics := server.NewMetrics()

	// Without a client every action answers with its apology.
	client, err := llm.NewFactory(cfg).CreateDefault()
	if err != nil {
		lg.Error("llm client unavailable, answering with fallbacks", "provider", cfg.LLMProvider, "error", err)
	}
	client = metrics.InstrumentLLM(client)

	var rec storage.Recorder
	fr, err := storage.NewFileRecorder(cfg.AnalyticsLogPath)
	if err != nil {
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

	var sched *scheduler.Scheduler
	if cfg.ReportCron != "" {
		sched = scheduler.New(cfg.ReportCron)
		sched.SetReportFunction(scheduler.FileReport(cfg.AnalyticsLogPath, cfg.ReportOutputPath, time.Now))
		if err := sched.Start(); err != nil {
			lg.Fatal("failed to start report scheduler", "error", err)
		}
	}

	srv := server.NewServer(cfg.ActionServerPort, registry, metrics, lg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			lg.Fatal("action server failed", "error", err)
		}
	case <-ctx.Done():
		lg.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("graceful shutdown failed", "error", err)
	}
	if sched != nil {
		sched.Stop()
	}
}
