package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"

	"papas-chatbot/internal/analytics"
)

// Scheduler управляет запланированными задачами
type Scheduler struct {
	cron       *cron.Cron
	schedule   string
	ctx        context.Context
	cancel     context.CancelFunc
	reportFunc func(ctx context.Context) error
}

// New создает новый планировщик с cron-расписанием в UTC
func New(schedule string) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		schedule: schedule,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// SetReportFunction устанавливает функцию для генерации отчетов
func (s *Scheduler) SetReportFunction(f func(ctx context.Context) error) {
	s.reportFunc = f
}

// Start запускает планировщик
func (s *Scheduler) Start() error {
	if s.reportFunc == nil {
		log.Warn("report function not set, scheduler will not generate reports")
		return nil
	}

	_, err := s.cron.AddFunc(s.schedule, s.run)
	if err != nil {
		return fmt.Errorf("invalid report schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	log.Info("📅 scheduler started", "schedule", s.schedule)
	return nil
}

func (s *Scheduler) run() {
	log.Info("🕘 triggered scheduled report generation")
	if err := s.reportFunc(s.ctx); err != nil {
		log.Error("❌ scheduled report generation failed", "error", err)
	}
}

// Stop останавливает планировщик
func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	if s.cancel != nil {
		s.cancel()
	}
	log.Info("📅 scheduler stopped")
}

// IsRunning проверяет, запущен ли планировщик
func (s *Scheduler) IsRunning() bool {
	return s.cron != nil && len(s.cron.Entries()) > 0
}

// FileReport возвращает задачу, которая пишет полный отчёт по логу logPath
// в файл outPath. Файл заменяется атомарно.
func FileReport(logPath, outPath string, now func() time.Time) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return fmt.Errorf("ensure report dir: %w", err)
		}
		tmp, err := os.CreateTemp(filepath.Dir(outPath), ".report-*")
		if err != nil {
			return fmt.Errorf("create temp report: %w", err)
		}
		defer func() { _ = os.Remove(tmp.Name()) }()

		if err := analytics.Generate(tmp, analytics.ModeFull, logPath, now()); err != nil {
			_ = tmp.Close()
			return err
		}
		if err := tmp.Close(); err != nil {
			return fmt.Errorf("close temp report: %w", err)
		}
		if err := os.Rename(tmp.Name(), outPath); err != nil {
			return fmt.Errorf("replace report: %w", err)
		}
		log.Info("report written", "path", outPath)
		return nil
	}
}
