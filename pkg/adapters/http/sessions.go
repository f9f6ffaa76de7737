package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/go-chi/chi/v5"
)

// SessionRequest is the body of POST /sessions.
type SessionRequest struct {
	ID      string `json:"id,omitempty"`
	Machine string `json:"machine"`
	Tape    Tape   `json:"tape,omitempty"`
}

// StepRequest is the body of POST /sessions/{id}/step. Steps defaults to one;
// zero or less runs to completion.
type StepRequest struct {
	Steps *int `json:"steps,omitempty"`
}

// sessionsEnabled answers 404 when no session manager is configured.
func (s *Server) sessionsEnabled(w http.ResponseWriter, r *http.Request) bool {
	if s.Sessions == nil {
		http.NotFound(w, r)
		return false
	}
	return true
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	if !s.sessionsEnabled(w, r) {
		return
	}
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// CreateSession handles the POST /sessions request.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	if !s.sessionsEnabled(w, r) {
		return
	}
	var body SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.badRequest(w, err)
		return
	}
	if body.Machine == "" {
		s.badRequest(w, errors.New("machine is required"))
		return
	}

	run, err := s.Sessions.Start(r.Context(), body.ID, body.Machine, body.Tape)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, run)
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	if !s.sessionsEnabled(w, r) {
		return
	}
	run, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, run)
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if !s.sessionsEnabled(w, r) {
		return
	}
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StepSession handles the POST /sessions/{id}/step request and broadcasts
// the updated run to event subscribers.
func (s *Server) StepSession(w http.ResponseWriter, r *http.Request) {
	if !s.sessionsEnabled(w, r) {
		return
	}
	var body StepRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		s.badRequest(w, err)
		return
	}
	n := 1
	if body.Steps != nil {
		n = *body.Steps
	}

	id := chi.URLParam(r, "id")
	run, err := s.Sessions.Step(r.Context(), id, n)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.broadcast(run)
	s.writeJSON(w, http.StatusOK, run)
}

func (s *Server) broadcast(run *domain.Run) {
	payload, err := json.Marshal(run)
	if err != nil {
		s.logger.Warn("SSE: failed to encode run", "session_id", run.ID, "err", err)
		return
	}
	if dropped := s.Streams.Broadcast(run.ID, string(payload)); dropped > 0 {
		s.logger.Warn("SSE: client buffer full, dropping message", "session_id", run.ID, "dropped", dropped)
	}
}
