package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"papas-chatbot/internal/analytics"
	"papas-chatbot/internal/config"
	"papas-chatbot/internal/logger"
	"papas-chatbot/internal/storage"
)

// ReportParams параметры для текстового отчёта
type ReportParams struct {
	Mode string `json:"mode,omitempty" mcp:"Report mode: completo (default) or real-time"`
}

// SummaryParams параметры для JSON-сводки
type SummaryParams struct {
	TopIntents int  `json:"top_intents,omitempty" mcp:"Number of top intents to include (default 10)"`
	Recent     bool `json:"recent,omitempty" mcp:"Only include events from the last 24 hours"`
}

// AnalyticsMCPServer отдаёт отчёты по логу аналитики через MCP
type AnalyticsMCPServer struct {
	logPath string
	now     func() time.Time
}

func NewAnalyticsMCPServer(logPath string) *AnalyticsMCPServer {
	return &AnalyticsMCPServer{logPath: logPath, now: time.Now}
}

func textResult(text string, isError bool) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		IsError: isError,
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

// Report рендерит отчёт в том же виде, что и CLI
func (s *AnalyticsMCPServer) Report(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[ReportParams]) (*mcp.CallToolResultFor[any], error) {
	mode := analytics.ModeFull
	if params.Arguments.Mode != "" {
		m, ok := analytics.ParseMode(params.Arguments.Mode)
		if !ok {
			return textResult(fmt.Sprintf("❌ unknown mode %q, use completo or real-time", params.Arguments.Mode), true), nil
		}
		mode = m
	}

	var buf bytes.Buffer
	if err := analytics.Generate(&buf, mode, s.logPath, s.now()); err != nil {
		return textResult(fmt.Sprintf("❌ Failed to render report: %v", err), true), nil
	}
	return textResult(buf.String(), false), nil
}

// Summary возвращает агрегаты в JSON
func (s *AnalyticsMCPServer) Summary(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[SummaryParams]) (*mcp.CallToolResultFor[any], error) {
	events, err := storage.ReadEvents(s.logPath)
	if err != nil && !errors.Is(err, storage.ErrLogNotFound) {
		return textResult(fmt.Sprintf("❌ Failed to read analytics log: %v", err), true), nil
	}

	now := s.now()
	if params.Arguments.Recent {
		events = analytics.RecentWindow(events, now, analytics.RecentHours)
	}
	top := params.Arguments.TopIntents
	if top <= 0 {
		top = analytics.TopIntentsFull
	}

	out, err := analytics.Summarize(events, now, top).ToJSON()
	if err != nil {
		return textResult(fmt.Sprintf("❌ Failed to encode summary: %v", err), true), nil
	}
	return textResult(out, false), nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Warn("Warning: .env file not found", "error", err)
	}

	cfg := config.New()
	// stdout carries the protocol, logs go to stderr
	lg := logger.Setup(nil, cfg.LogLevel, cfg.LogFormat)

	analyticsServer := NewAnalyticsMCPServer(cfg.AnalyticsLogPath)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "papas-chatbot-analytics-mcp",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "analytics_report",
		Description: "Renders the chatbot usage report (completo or real-time) as text",
	}, analyticsServer.Report)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "analytics_summary",
		Description: "Returns aggregated chatbot usage statistics as JSON",
	}, analyticsServer.Summary)

	lg.Info("📋 registered analytics MCP tools", "tools", "analytics_report, analytics_summary", "log", cfg.AnalyticsLogPath)

	if err := server.Run(context.Background(), mcp.NewStdioTransport()); err != nil {
		lg.Fatal("❌ analytics MCP server failed", "error", err)
	}
}
