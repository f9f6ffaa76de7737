package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/internal/presentation/markdown"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// RunRequest is the body of POST /machines/{name}/runs.
type RunRequest struct {
	Tape     Tape `json:"tape,omitempty"`
	MaxSteps int  `json:"max_steps,omitempty"`
}

// ListMachines handles the GET /machines request.
func (s *Server) ListMachines(w http.ResponseWriter, r *http.Request) {
	names, err := s.Loader.ListMachines(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	s.writeJSON(w, http.StatusOK, names)
}

// GetMachine handles the GET /machines/{name} request.
func (s *Server) GetMachine(w http.ResponseWriter, r *http.Request) {
	def, err := s.Loader.GetMachine(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, def)
}

// GetGraph handles the GET /machines/{name}/graph request. The format query
// parameter selects "mermaid" (default) or "markdown".
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	def, err := s.Loader.GetMachine(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	switch r.URL.Query().Get("format") {
	case "", "mermaid":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, graph.GenerateMermaid(def, nil))
	case "markdown", "md":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		io.WriteString(w, markdown.Describe(def))
	default:
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown format: " + r.URL.Query().Get("format")})
	}
}

// CreateRun handles the POST /machines/{name}/runs request. The machine runs
// to completion within the request; failures answer 422 with the failed run.
func (s *Server) CreateRun(w http.ResponseWriter, r *http.Request) {
	var body RunRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		s.badRequest(w, err)
		return
	}
	if body.MaxSteps < 0 {
		s.badRequest(w, errors.New("max_steps must not be negative"))
		return
	}

	opts := append([]turing.Option{turing.WithLogger(s.logger)}, s.engineOpts...)
	if body.MaxSteps > 0 {
		opts = append(opts, turing.WithStepLimit(body.MaxSteps))
	}
	eng, err := turing.Load(r.Context(), s.Loader, chi.URLParam(r, "name"), opts...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	started := time.Now()
	m := eng.Start(body.Tape)
	_, runErr := m.Run(r.Context())
	if ctxErr := r.Context().Err(); ctxErr != nil {
		s.logger.Debug("run abandoned by client", "machine", eng.Name, "err", ctxErr)
		return
	}

	run := m.Record(uuid.NewString())
	run.CreatedAt = started
	run.UpdatedAt = time.Now()

	if s.Runs != nil {
		if err := s.Runs.Save(r.Context(), run); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	if runErr != nil {
		s.writeJSON(w, statusFor(runErr), errorResponse{Error: runErr.Error(), Run: run})
		return
	}
	s.writeJSON(w, http.StatusCreated, run)
}
