// Package api exposes the parlay recommendations over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/parlay-advisor/internal/metrics"
	"github.com/yourusername/parlay-advisor/internal/models"
)

// RecommendationService produces recommendations for a date
type RecommendationService interface {
	GetRecommendations(ctx context.Context, date string) (*models.ParlayRecommendation, error)
}

// Config holds the configuration for the API server.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// MetricsPath mounts the Prometheus handler when non-empty
	MetricsPath string
	// TraceName enables the X-Ray segment middleware under this segment name
	TraceName string
	Debug     bool
}

// Server serves GET /parlays
type Server struct {
	engine  *gin.Engine
	server  *http.Server
	service RecommendationService
	logger  *logrus.Logger
}

// NewServer creates a new API server
func NewServer(cfg Config, service RecommendationService, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.New()
	}
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		engine:  gin.New(),
		service: service,
		logger:  logger,
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(RequestID())
	s.engine.Use(RequestLogger(logger))
	if cfg.TraceName != "" {
		s.engine.Use(Tracing(cfg.TraceName))
	}

	s.engine.GET("/parlays", s.getParlays)
	if cfg.MetricsPath != "" {
		s.engine.GET(cfg.MetricsPath, gin.WrapH(metrics.Handler()))
	}

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the underlying HTTP handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe blocks serving requests until Shutdown is called
func (s *Server) ListenAndServe() error {
	s.logger.WithField("addr", s.server.Addr).Info("API server starting")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the API server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("API server shutting down")
	return s.server.Shutdown(ctx)
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) getParlays(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "query parameter 'date' is required"})
		return
	}

	rec, err := s.service.GetRecommendations(c.Request.Context(), date)
	if err != nil {
		status := errorStatus(err)
		entry := s.logger.WithError(err).WithFields(logrus.Fields{
			"date":       date,
			"request_id": c.GetString(requestIDKey),
		})
		if status >= http.StatusInternalServerError {
			entry.Error("Recommendation failed")
		} else {
			entry.Warn("Recommendation rejected")
		}
		_ = c.Error(err)
		c.JSON(status, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, rec)
}

// errorStatus maps service errors to HTTP status codes
func errorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidDate):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUpstreamUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
