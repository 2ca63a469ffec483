// Package server exposes the decision service over HTTP.
//
// It is a thin reference surface: adapters with their own protocols
// translate into the same decision contract this server speaks.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"aegis-hq/aegis/pkg/config"
	"aegis-hq/aegis/pkg/governor"
	"aegis-hq/aegis/pkg/telemetry/health"
	"aegis-hq/aegis/pkg/telemetry/metrics"
)

// Server serves the decision API, health probes, and metrics.
type Server struct {
	config  *config.ServerConfig
	service *governor.Service
	checker *health.Checker

	httpServer   *http.Server
	metricsHTTP  http.Handler
	shutdownOnce sync.Once
	logger       *slog.Logger
}

// NewServer creates the HTTP surface over a wired decision service.
func NewServer(cfg *config.ServerConfig, service *governor.Service, collector *metrics.Collector) *Server {
	checker := health.New(0)
	checker.RegisterCheck("governor", func(ctx context.Context) error {
		h := service.Health()
		if !h.Initialized {
			return fmt.Errorf("decision service not ready (state: %s)", h.State)
		}
		return nil
	})
	checker.RegisterCheck("ledger", func(ctx context.Context) error {
		_, err := service.LedgerEntryCount(ctx)
		return err
	})

	return &Server{
		config:      cfg,
		service:     service,
		checker:     checker,
		metricsHTTP: collector.Handler(),
		logger:      slog.Default().With("component", "server"),
	}
}

// Start starts the HTTP server and blocks until the listener fails or
// Shutdown is called.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         s.config.ListenAddress,
		Handler:      s.routes(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("decision surface listening", "address", s.config.ListenAddress)

	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		if s.httpServer == nil {
			return
		}
		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()
		err = s.httpServer.Shutdown(shutdownCtx)
	})
	return err
}

// routes builds the chi router.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/evaluate", s.handleEvaluate)
		r.Get("/decisions/recent", s.handleRecentDecisions)
		r.Get("/health", s.handleHealth)
	})

	r.Get("/healthz", s.checker.LivenessHandler())
	r.Get("/readyz", s.checker.ReadinessHandler())
	r.Method(http.MethodGet, "/metrics", s.metricsHTTP)

	return r
}
