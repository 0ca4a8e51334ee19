package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"papas-chatbot/internal/llm"
)

type Metrics struct {
	registry    *prometheus.Registry
	actions     *prometheus.CounterVec
	llmDuration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "papas_actions_total",
			Help: "Custom actions executed, by action and outcome.",
		}, []string{"action", "outcome"}),
		llmDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "papas_llm_request_duration_seconds",
			Help:    "Latency of generative model requests, by result.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30},
		}, []string{"result"}),
	}
	m.registry.MustRegister(m.actions, m.llmDuration)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observeAction(name, outcome string) {
	m.actions.WithLabelValues(name, outcome).Inc()
}

// InstrumentLLM wraps c so that every request is timed.
func (m *Metrics) InstrumentLLM(c llm.Client) llm.Client {
	if c == nil {
		return nil
	}
	return &instrumentedClient{next: c, hist: m.llmDuration}
}

type instrumentedClient struct {
	next llm.Client
	hist *prometheus.HistogramVec
}

func (c *instrumentedClient) Generate(ctx context.Context, messages []llm.Message) (llm.Response, error) {
	start := time.Now()
	resp, err := c.next.Generate(ctx, messages)
	result := "ok"
	if err != nil {
		result = string(llm.KindOf(err))
		if result == "" {
			result = "error"
		}
	}
	c.hist.WithLabelValues(result).Observe(time.Since(start).Seconds())
	return resp, err
}
