// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the review service over HTTP:
//
//	GET    /diff      untriaged papers
//	GET    /progress  current decisions
//	POST   /papers    accept the paper in the body
//	DELETE /papers    reject the paper in the body
//
// plus /health and /metrics. There is no authentication and no pagination.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pdiddy/literature-helper/internal/review"
	"github.com/pdiddy/literature-helper/pkg/types"
)

// Server wires the review service to a chi router.
type Server struct {
	svc      *review.Service
	logger   *zap.Logger
	validate *validator.Validate
	metrics  *metrics
	registry *prometheus.Registry
	cfg      types.ServerConfig
}

// New returns a server for svc. Metrics are registered on a private
// registry served at /metrics.
func New(svc *review.Service, cfg types.ServerConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	reg := prometheus.NewRegistry()
	return &Server{
		svc:      svc,
		logger:   logger,
		validate: validator.New(),
		metrics:  newMetrics(reg),
		registry: reg,
		cfg:      cfg,
	}
}

// Handler returns the configured router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.StripSlashes)
	r.Use(requestLogger(s.logger))
	r.Use(s.metrics.middleware)

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Get("/diff", s.getDiff)
	r.Get("/progress", s.getProgress)
	r.Post("/papers", s.addPaper)
	r.Delete("/papers", s.deletePaper)

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down within
// the configured timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := s.cfg.Addr
	if addr == "" {
		addr = "0.0.0.0:8080"
	}
	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	s.logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
