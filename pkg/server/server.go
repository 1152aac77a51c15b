// Package server is the HTTP shell shared by tunedb services: routing,
// middleware, health probes, metrics and graceful shutdown. Services plug
// their API handlers in with WithHandler.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Server serves the registered API handlers plus the system endpoints.
type Server struct {
	name     string
	version  string
	config   *Config
	handlers map[string]http.HandlerFunc

	limiter *rate.Limiter

	mu    sync.RWMutex
	ready bool
}

// Option configures a Server.
type Option func(*Server)

// WithName sets the service name reported by the root route and in logs.
func WithName(name string) Option {
	return func(s *Server) {
		s.name = name
	}
}

// WithVersion sets the service version.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// WithHandler registers API handlers by path. They run behind the
// request ID, rate limiting and logging middleware.
func WithHandler(handlers map[string]http.HandlerFunc) Option {
	return func(s *Server) {
		for path, h := range handlers {
			s.handlers[path] = h
		}
	}
}

// WithConfig replaces the configuration from DefaultConfig.
func WithConfig(cfg *Config) Option {
	return func(s *Server) {
		s.config = cfg
	}
}

// New creates a Server.
func New(opts ...Option) *Server {
	s := &Server{
		name:     "tunedb",
		version:  "dev",
		handlers: make(map[string]http.HandlerFunc),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.config == nil {
		s.config = DefaultConfig()
	}
	s.limiter = rate.NewLimiter(s.config.RateLimit, s.config.RateLimitBurst)
	return s
}

// Handler returns the fully wired HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// SetReady flips the readiness probe.
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	s.ready = ready
	s.mu.Unlock()
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts
// down gracefully within the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := net.JoinHostPort(s.config.Address, fmt.Sprintf("%d", s.config.Port))
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.setupRoutes(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server listening", "name", s.name, "address", ln.Addr().String())
		s.SetReady(true)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.SetReady(false)
		slog.Info("shutting down", "name", s.name)

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}
