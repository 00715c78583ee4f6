// Package server hosts the completion relay and the session API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/helmcode/actionplan/pkg/config"
	"github.com/helmcode/actionplan/pkg/metrics"
	"github.com/helmcode/actionplan/pkg/store"
)

// Routes.
const (
	RelayRoute    = "/api/claude"
	SessionsRoute = "/api/sessions"
	HealthRoute   = "/healthz"
	MetricsRoute  = "/metrics"
)

// Server relays completion requests to the Anthropic Messages API and serves
// CRUD access to saved sessions.
type Server struct {
	cfg     config.ServerConfig
	apiKey  string
	store   store.SessionStore
	logger  *zap.Logger
	metrics *metrics.Metrics
	limiter *rate.Limiter
	client  *http.Client
}

// New builds a Server. m may be nil, in which case /metrics serves an empty
// registry.
func New(cfg *config.Config, st store.SessionStore, logger *zap.Logger, m *metrics.Metrics) *Server {
	return &Server{
		cfg:     cfg.Server,
		apiKey:  cfg.Anthropic.APIKey,
		store:   st,
		logger:  logger.Named("server"),
		metrics: m,
		limiter: rate.NewLimiter(rate.Limit(cfg.Server.RelayRPS), cfg.Server.RelayBurst),
		client:  &http.Client{Timeout: cfg.Server.UpstreamTimeout},
	}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware(s.cfg.CORSOrigins))

	r.Post(RelayRoute, s.handleRelay)

	r.Route(SessionsRoute, func(r chi.Router) {
		r.Get("/", s.handleListSessions)
		r.Post("/", s.handleSaveSession)
		r.Get("/{id}", s.handleGetSession)
		r.Delete("/{id}", s.handleDeleteSession)
	})

	r.Get(HealthRoute, s.handleHealth)
	r.Handle(MetricsRoute, s.metricsHandler())

	return r
}

func (s *Server) metricsHandler() http.Handler {
	if s.metrics == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{})
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully
// within the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("Relay server listening", zap.String("addr", ln.Addr().String()))
		if s.apiKey == "" {
			s.logger.Warn("ANTHROPIC_API_KEY is not set; relay requests will fail")
		}
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		s.logger.Info("Shutting down relay server")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
