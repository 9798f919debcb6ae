package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marcusziade/compiledthoughts/internal/presence/render"
)

// Server provides HTTP endpoints for health monitoring and the latest
// presence snapshot.
type Server struct {
	monitor  *Monitor
	snapshot *render.Snapshot
	server   *http.Server
}

// NewServer creates a new status server.
func NewServer(monitor *Monitor, snapshot *render.Snapshot, port int) *Server {
	mux := http.NewServeMux()
	s := &Server{
		monitor:  monitor,
		snapshot: snapshot,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
	}

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/health/detailed", s.handleDetailed)
	mux.HandleFunc("/status", s.handleStatus)
	mux.Handle("/metrics", promhttp.Handler())

	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	err := s.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.monitor.CheckHealth(r.Context())

	response := map[string]string{"status": string(report.Status)}
	w.Header().Set("Content-Type", "application/json")

	if report.Status == StatusCritical {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	_ = json.NewEncoder(w).Encode(response)
}

func (s *Server) handleDetailed(w http.ResponseWriter, r *http.Request) {
	report := s.monitor.CheckHealth(r.Context())
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(report)
}

// handleStatus serves the latest snapshot in the same shape the widget
// expects from the proxy: a loading sentinel until the first success, the
// presence JSON afterwards.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	latest, _ := s.snapshot.Latest()
	if latest == nil {
		_ = json.NewEncoder(w).Encode(map[string]any{"loading": true})
		return
	}
	_ = json.NewEncoder(w).Encode(latest)
}
