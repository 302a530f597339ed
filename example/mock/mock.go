// Package mock serves a fake target for trying out healthcheck locally.
//
// Every /healthz request advances the server to its next scenario, so
// consecutive checks walk through each kind of status line.
package mock

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Scenario is one behaviour of the fake target.
type Scenario struct {
	Name         string
	HealthStatus int
	NowStatus    int
	Path         string
}

// DefaultScenarios covers every outcome the checker can print.
var DefaultScenarios = []Scenario{
	{Name: "healthy", HealthStatus: http.StatusOK, NowStatus: http.StatusOK, Path: "/now"},
	{Name: "internal", HealthStatus: http.StatusOK, NowStatus: http.StatusOK, Path: "/internal/admin"},
	{Name: "down", HealthStatus: http.StatusServiceUnavailable},
	{Name: "now failing", HealthStatus: http.StatusOK, NowStatus: http.StatusInternalServerError},
}

// Server cycles through scenarios. The zero value is not usable; call [New].
type Server struct {
	mu        sync.Mutex
	scenarios []Scenario
	idx       int
	current   Scenario
	logger    *slog.Logger
}

// New creates a Server. If scenarios is empty, [DefaultScenarios] is used.
func New(logger *slog.Logger, scenarios ...Scenario) *Server {
	if len(scenarios) == 0 {
		scenarios = DefaultScenarios
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{scenarios: scenarios, idx: -1, current: scenarios[0], logger: logger}
}

// Handler returns the HTTP handler for /healthz and /now.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/now", s.handleNow)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.idx = (s.idx + 1) % len(s.scenarios)
	s.current = s.scenarios[s.idx]
	sc := s.current
	s.mu.Unlock()

	s.logger.Info("scenario", "name", sc.Name)

	w.WriteHeader(sc.HealthStatus)
	_, _ = w.Write([]byte(http.StatusText(sc.HealthStatus)))
}

func (s *Server) handleNow(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	sc := s.current
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if sc.NowStatus != 0 && sc.NowStatus != http.StatusOK {
		w.WriteHeader(sc.NowStatus)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": http.StatusText(sc.NowStatus)})
		return
	}

	resp := map[string]string{
		"path":         sc.Path,
		"current_time": time.Now().UTC().Format(time.RFC3339),
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("failed to write response", "error", err)
	}
}
