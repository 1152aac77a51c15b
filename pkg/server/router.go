package server

import (
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kernel-tuning/tunedb/pkg/serializer"
)

// setupRoutes configures all HTTP routes and middleware
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleDefault)

	// System endpoints (no rate limiting)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.Handle("/metrics", promhttp.Handler())

	for path, h := range s.handlers {
		mux.HandleFunc(path, s.withMiddleware(h))
	}

	return mux
}

func (s *Server) routes() []string {
	routes := make([]string, 0, len(s.handlers)+3)
	for path := range s.handlers {
		routes = append(routes, "GET "+path)
	}
	sort.Strings(routes)
	return append(routes, "GET /health", "GET /ready", "GET /metrics")
}

func (s *Server) handleDefault(w http.ResponseWriter, r *http.Request) {
	slog.Debug("handling default route",
		"path", r.URL.Path,
		"method", r.Method,
		"remote_addr", r.RemoteAddr,
		"user_agent", r.UserAgent(),
	)

	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	resp := struct {
		Name      string   `json:"name" yaml:"name"`
		Version   string   `json:"version" yaml:"version"`
		Ready     bool     `json:"ready" yaml:"ready"`
		Timestamp string   `json:"timestamp" yaml:"timestamp"`
		Routes    []string `json:"routes" yaml:"routes"`
	}{
		Name:      s.name,
		Version:   s.version,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Routes:    s.routes(),
	}

	s.mu.RLock()
	resp.Ready = s.ready
	s.mu.RUnlock()

	serializer.RespondJSON(w, http.StatusOK, resp)
}
