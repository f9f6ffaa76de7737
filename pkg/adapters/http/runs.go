package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ListRuns handles the GET /runs request.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	if s.Runs == nil {
		s.writeJSON(w, http.StatusOK, []string{})
		return
	}
	ids, err := s.Runs.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, ids)
}

// GetRun handles the GET /runs/{id} request.
func (s *Server) GetRun(w http.ResponseWriter, r *http.Request) {
	if s.Runs == nil {
		http.NotFound(w, r)
		return
	}
	run, err := s.Runs.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, run)
}
