package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"papas-chatbot/internal/analytics"
	"papas-chatbot/internal/config"
)

const usage = `Uso:
  analytics completo    - Genera reporte completo
  analytics real-time   - Estadísticas últimas 24h
`

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Debug(".env file not found", "error", err)
	}
	cfg := config.New()

	cmd := newRootCommand(cfg.AnalyticsLogPath, time.Now)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand(logPath string, now func() time.Time) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "analytics [completo|real-time]",
		Short:         "Usage reports over the chatbot analytics log",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), args, logPath, now())
		},
	}
	return cmd
}

// run prints the requested report. An unknown mode prints usage and is not an error.
func run(w io.Writer, args []string, logPath string, now time.Time) error {
	mode := analytics.ModeFull
	if len(args) == 1 {
		m, ok := analytics.ParseMode(args[0])
		if !ok {
			_, err := io.WriteString(w, usage)
			return err
		}
		mode = m
	}
	return analytics.Generate(w, mode, logPath, now)
}
