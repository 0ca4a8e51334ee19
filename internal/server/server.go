package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"papas-chatbot/internal/actions"
)

// Server exposes the registered actions over the Rasa action server protocol.
type Server struct {
	router   *chi.Mux
	registry *actions.Registry
	metrics  *Metrics
	logger   *log.Logger
	http     *http.Server
}

func NewServer(port int, registry *actions.Registry, metrics *Metrics, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(requestLogger(logger))
	router.Use(middleware.Recoverer)

	s := &Server{
		router:   router,
		registry: registry,
		metrics:  metrics,
		logger:   logger,
	}

	router.Get("/health", s.health)
	router.Get("/actions", s.listActions)
	router.Post("/webhook", s.webhook)
	router.Method(http.MethodGet, "/metrics", metrics.Handler())

	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

// Start blocks until the server stops. It returns nil after Shutdown.
func (s *Server) Start() error {
	s.logger.Info("action server starting", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listActions(w http.ResponseWriter, r *http.Request) {
	names := s.registry.Names()
	out := make([]actionName, 0, len(names))
	for _, n := range names {
		out = append(out, actionName{Name: n})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) webhook(w http.ResponseWriter, r *http.Request) {
	var req webhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if req.NextAction == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing next_action"})
		return
	}
	action, ok := s.registry.Get(req.NextAction)
	if !ok {
		s.logger.Warn("unknown action requested", "action", req.NextAction)
		writeJSON(w, http.StatusNotFound, errorResponse{
			Error:      fmt.Sprintf("No registered action found for name '%s'.", req.NextAction),
			ActionName: req.NextAction,
		})
		return
	}

	turn := &rasaTurn{req: &req}
	outcome := action.Run(r.Context(), turn)
	s.metrics.observeAction(req.NextAction, string(outcome))
	s.logger.Info("action executed", "action", req.NextAction, "sender", turn.SenderID(), "outcome", outcome)

	resp := webhookResponse{Events: []any{}, Responses: turn.responses}
	if resp.Responses == nil {
		resp.Responses = []botResponse{}
	}
	writeJSON(w, http.StatusOK, resp)
}

func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method, "path", r.URL.Path, "status", ww.Status(),
				"duration", time.Since(start), "request_id", middleware.GetReqID(r.Context()))
		})
	}
}
