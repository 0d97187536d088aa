// Package server exposes farmstat reports over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/huangsam/farmstat/internal/contract"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Server is the farmstat HTTP API.
type Server struct {
	router  *chi.Mux
	logger  *zerolog.Logger
	server  *http.Server
	timeout time.Duration
}

// New wires the routes. The base config supplies defaults that each request may override.
func New(logger zerolog.Logger, baseCfg *contract.Config, store contract.RecordStore, clock contract.Clock) *Server {
	registry := prometheus.NewRegistry()
	m := newMetrics(registry)
	h := &handler{
		baseCfg: baseCfg,
		store:   store,
		clock:   clock,
		metrics: m,
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(Logger(&logger))
	router.Use(middleware.Recoverer)
	router.Use(m.instrument)

	router.Get("/healthz", h.healthz)
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/presets", h.listPresets)
		r.Get("/reports", h.getReport)
		r.Get("/runs", h.listRuns)
		r.Get("/status", h.getStatus)
		r.Post("/records", h.postRecords)
	})

	return &Server{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:              baseCfg.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		timeout: baseCfg.ShutdownTimeout,
	}
}

// Handler returns the router, used by tests and embedding callers.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then drains outstanding requests within the shutdown timeout.
func (s *Server) Start(ctx context.Context) error {
	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info().Str("addr", s.server.Addr).Msg("starting server")
		serverErrors <- s.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info().Msg("shutdown initiated")

		timeout := s.timeout
		if timeout <= 0 {
			timeout = contract.DefaultShutdownTimeout
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		err := s.server.Shutdown(shutdownCtx)
		if err != nil {
			s.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = s.server.Close()
		}
		return err
	}
}
