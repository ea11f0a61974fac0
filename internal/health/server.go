// Package health serves liveness and readiness endpoints on a side port.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultPort         = "8081"
	defaultCheckTimeout = 3 * time.Second
)

// Pinger is a dependency that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse is the body of /health and /live.
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp,omitempty"`
	Version   string `json:"version,omitempty"`
	Commit    string `json:"commit,omitempty"`
}

// ReadyResponse is the body of /ready. Checks maps each dependency name to "ok" or its error.
type ReadyResponse struct {
	Status   string            `json:"status"`
	Service  string            `json:"service"`
	Checks   map[string]string `json:"checks,omitempty"`
	Duration string            `json:"duration,omitempty"`
}

// Config holds the configuration for the health server.
type Config struct {
	ServiceName string
	Version     string
	Commit      string
	Port        string
	Logger      *logrus.Logger
	// Dependencies are pinged by /ready, keyed by the name reported in the checks map
	Dependencies map[string]Pinger
	// CheckTTL reuses a dependency's last result for this long; zero pings on every probe
	CheckTTL time.Duration
	// CheckTimeout bounds a single ping
	CheckTimeout time.Duration
}

// dependency remembers the outcome of its most recent ping
type dependency struct {
	name   string
	pinger Pinger

	mu        sync.Mutex
	checkedAt time.Time
	lastErr   error
}

// Server exposes /health, /live and /ready for the recommendation service.
type Server struct {
	serviceName  string
	version      string
	commit       string
	port         string
	logger       *logrus.Entry
	deps         []*dependency
	checkTTL     time.Duration
	checkTimeout time.Duration
	now          func() time.Time

	server *http.Server
	ready  atomic.Bool
}

// NewServer creates a health server. The port falls back to HEALTH_PORT, then 8081.
func NewServer(cfg Config) *Server {
	port := cfg.Port
	if port == "" || port == "0" {
		port = os.Getenv("HEALTH_PORT")
	}
	if port == "" {
		port = defaultPort
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.New()
	}
	timeout := cfg.CheckTimeout
	if timeout <= 0 {
		timeout = defaultCheckTimeout
	}

	names := make([]string, 0, len(cfg.Dependencies))
	for name, p := range cfg.Dependencies {
		if p != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	deps := make([]*dependency, 0, len(names))
	for _, name := range names {
		deps = append(deps, &dependency{name: name, pinger: cfg.Dependencies[name]})
	}

	return &Server{
		serviceName:  cfg.ServiceName,
		version:      cfg.Version,
		commit:       cfg.Commit,
		port:         port,
		logger:       logger.WithField("component", "health"),
		deps:         deps,
		checkTTL:     cfg.CheckTTL,
		checkTimeout: timeout,
		now:          time.Now,
	}
}

// SetReady flips the readiness gate; /ready fails while it is false.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

// IsReady reports the readiness gate.
func (s *Server) IsReady() bool {
	return s.ready.Load()
}

// Handler returns the health routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/live", s.handleLive)
	mux.HandleFunc("/ready", s.handleReady)
	return mux
}

// Start serves in the background until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         ":" + s.port,
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.WithFields(logrus.Fields{
			"port":         s.port,
			"dependencies": len(s.deps),
		}).Info("Health server listening")

		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.WithError(err).Error("Health server stopped")
		}
	}()

	go func() {
		<-ctx.Done()
		if err := s.Shutdown(); err != nil {
			s.logger.WithError(err).Warn("Health server shutdown failed")
		}
	}()

	return nil
}

// Shutdown stops the listener, waiting up to five seconds for in-flight probes.
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Service:   s.serviceName,
		Timestamp: s.now().UTC().Format(time.RFC3339),
		Version:   s.version,
		Commit:    s.commit,
	})
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Service: s.serviceName})
}

// handleReady reports 503 until SetReady(true) and while any dependency check fails.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	checks := map[string]string{"service": "ok"}
	healthy := s.IsReady()
	if !healthy {
		checks["service"] = "not_ready"
	}

	for _, dep := range s.deps {
		if err := s.check(r.Context(), dep); err != nil {
			healthy = false
			checks[dep.name] = "error: " + err.Error()
			continue
		}
		checks[dep.name] = "ok"
	}

	response := ReadyResponse{
		Status:   "ok",
		Service:  s.serviceName,
		Checks:   checks,
		Duration: time.Since(start).String(),
	}
	status := http.StatusOK
	if !healthy {
		response.Status = "not_ready"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, response)
}

// check returns the dependency's cached result while it is younger than checkTTL, otherwise pings it.
// Concurrent probes of one dependency share a single ping.
func (s *Server) check(ctx context.Context, dep *dependency) error {
	dep.mu.Lock()
	defer dep.mu.Unlock()

	if s.checkTTL > 0 && !dep.checkedAt.IsZero() && s.now().Sub(dep.checkedAt) < s.checkTTL {
		return dep.lastErr
	}

	ctx, cancel := context.WithTimeout(ctx, s.checkTimeout)
	defer cancel()

	err := dep.pinger.Ping(ctx)
	if err != nil && dep.lastErr == nil {
		s.logger.WithError(err).WithField("dependency", dep.name).Warn("Dependency check failed")
	}
	dep.lastErr = err
	dep.checkedAt = s.now()
	return err
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
