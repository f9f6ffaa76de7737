package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/observability"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes machines, runs and debug sessions over HTTP.
type Server struct {
	Loader   ports.MachineLoader
	Runs     ports.RunStore
	Sessions *session.Manager
	Streams  *StreamManager

	engineOpts []turing.Option
	metrics    http.Handler
	logger     *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithRunStore persists every run started through the API and enables the
// /runs endpoints.
func WithRunStore(store ports.RunStore) Option {
	return func(s *Server) {
		s.Runs = store
	}
}

// WithSessions enables the /sessions endpoints.
func WithSessions(mgr *session.Manager) Option {
	return func(s *Server) {
		s.Sessions = mgr
	}
}

// WithEngineOptions passes options to every engine the server builds.
func WithEngineOptions(opts ...turing.Option) Option {
	return func(s *Server) {
		s.engineOpts = append(s.engineOpts, opts...)
	}
}

// WithMetrics records run metrics into reg and serves them on /metrics.
// The session manager records its own runs; give it the same hooks via
// session.WithEngineOptions to count them too.
func WithMetrics(reg *prometheus.Registry) Option {
	return func(s *Server) {
		m := observability.NewMetrics(reg)
		s.engineOpts = append(s.engineOpts, turing.WithLifecycleHooks(m.Hooks()))
		s.metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	}
}

// WithLogger configures the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a Server backed by loader.
func NewServer(loader ports.MachineLoader, opts ...Option) *Server {
	s := &Server{
		Loader:  loader,
		Streams: NewStreamManager(),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewHandler creates a new HTTP handler for the machines served by loader.
func NewHandler(loader ports.MachineLoader, opts ...Option) http.Handler {
	return NewServer(loader, opts...).Routes()
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)

	r.Route("/machines", func(r chi.Router) {
		r.Get("/", s.ListMachines)
		r.Get("/{name}", s.GetMachine)
		r.Get("/{name}/graph", s.GetGraph)
		r.Post("/{name}/runs", s.CreateRun)
	})

	r.Get("/runs", s.ListRuns)
	r.Get("/runs/{id}", s.GetRun)

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Post("/", s.CreateSession)
		r.Get("/{id}", s.GetSession)
		r.Delete("/{id}", s.DeleteSession)
		r.Post("/{id}/step", s.StepSession)
		r.Get("/{id}/events", s.SubscribeEvents)
	})

	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "turing-http",
		"version": strings.TrimSpace(turing.Version),
	})
}

// writeJSON encodes v with the given status code.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

// errorResponse is the body of every non-2xx JSON response.
type errorResponse struct {
	Error string      `json:"error"`
	Run   *domain.Run `json:"run,omitempty"`
}

// writeError maps domain errors to status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrMachineNotFound), errors.Is(err, domain.ErrRunNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidRunID):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrSessionExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrMissingTransition),
		errors.Is(err, domain.ErrNonTerminating),
		errors.Is(err, domain.ErrInvalidDefinition),
		errors.Is(err, domain.ErrDuplicateTransition):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// badRequest rejects a malformed request body.
func (s *Server) badRequest(w http.ResponseWriter, err error) {
	s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
}
