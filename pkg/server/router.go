package server

import (
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/erptools/preflight/pkg/serializer"
)

// setupRoutes configures all HTTP routes and middleware
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	// Default handler
	mux.HandleFunc("/", s.handleDefault)

	// System endpoints (no rate limiting)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)
	mux.Handle("/metrics", promhttp.Handler())

	// API endpoints with middleware
	for path, handler := range s.handlers {
		mux.HandleFunc(path, s.withMiddleware(handler))
	}

	return mux
}

func (s *Server) handleDefault(w http.ResponseWriter, r *http.Request) {
	slog.Debug("handling default route",
		"path", r.URL.Path,
		"method", r.Method,
		"remote_addr", r.RemoteAddr,
		"user_agent", r.UserAgent(),
	)

	routes := []string{
		"GET /health",
		"GET /ready",
		"GET /metrics",
	}
	for path := range s.handlers {
		routes = append(routes, "POST "+path)
	}
	sort.Strings(routes)

	resp := struct {
		Name       string   `json:"name" yaml:"name"`
		Version    string   `json:"version" yaml:"version"`
		APIVersion string   `json:"apiVersion" yaml:"apiVersion"`
		Ready      bool     `json:"ready" yaml:"ready"`
		Timestamp  string   `json:"timestamp" yaml:"timestamp"`
		Routes     []string `json:"routes" yaml:"routes"`
	}{
		Name:       s.name,
		Version:    s.version,
		APIVersion: negotiateAPIVersion(r),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Routes:     routes,
	}

	s.mu.RLock()
	resp.Ready = s.ready
	s.mu.RUnlock()

	serializer.RespondJSON(w, http.StatusOK, resp)
}
