package server

import (
	"net/http"
	"time"

	"github.com/kernel-tuning/tunedb/pkg/serializer"
)

// handleHealth is the liveness probe. It answers as long as the process serves.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.probe(w, r, http.StatusOK, "healthy", "")
}

// handleReady is the readiness probe. It fails until SetReady(true).
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	ready := s.ready
	s.mu.RUnlock()

	if !ready {
		s.probe(w, r, http.StatusServiceUnavailable, "not_ready", "tuning database is loading")
		return
	}
	s.probe(w, r, http.StatusOK, "ready", "")
}

func (s *Server) probe(w http.ResponseWriter, r *http.Request, status int, state, reason string) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	serializer.RespondJSON(w, status, HealthResponse{
		Status:    state,
		Name:      s.name,
		Version:   s.version,
		Timestamp: time.Now().UTC(),
		Reason:    reason,
	})
}
