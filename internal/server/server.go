package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/user/shopchat/internal/agents"
	"github.com/user/shopchat/internal/config"
	"github.com/user/shopchat/internal/logging"
	"github.com/user/shopchat/internal/observability"
	"github.com/user/shopchat/internal/tools"
)

// ServiceName identifies the service in health responses
const ServiceName = "shopchat"

// Version is reported by the health endpoints
var Version = "dev"

// Deps are the collaborators a Server is built from. Converter and Searcher
// are bound into a fresh tool registry on every request.
type Deps struct {
	Caller    *agents.FunctionCaller
	Converter tools.CurrencyConverter
	Searcher  tools.ProductSearcher
	Logger    *logging.Logger
	Recorder  *observability.Recorder                  // nil disables /metrics
	Checks    map[string]observability.HealthCheckFunc // readiness probes
}

// Server is the chatbot HTTP surface
type Server struct {
	cfg  config.ServerConfig
	deps Deps
	http *http.Server
}

// New creates a server listening on cfg.Addr
func New(cfg config.ServerConfig, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = logging.NewNopLogger()
	}
	s := &Server{cfg: cfg, deps: deps}
	s.http = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.GetReadTimeout(),
		WriteTimeout: cfg.GetWriteTimeout(),
	}
	return s
}

// Handler returns the routed handler wrapped in the middleware chain
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST /chatbot", s.instrument("/chatbot", http.HandlerFunc(s.handleChatbot)))
	mux.Handle("GET /api", s.instrument("/api", http.HandlerFunc(handleOpenAPIJSON)))
	mux.Handle("GET /api/openapi.yaml", s.instrument("/api/openapi.yaml", http.HandlerFunc(handleOpenAPIYAML)))
	mux.Handle("GET /health", observability.HealthCheckHandler(ServiceName, Version))
	mux.Handle("GET /ready", observability.ReadinessHandler(ServiceName, Version, s.deps.Checks))

	if s.deps.Recorder != nil {
		mux.Handle("GET /metrics", s.deps.Recorder.Handler())
	}

	return requestID(accessLog(s.deps.Logger, recoverPanics(s.deps.Logger, mux)))
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts
// down gracefully within the configured window
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.deps.Logger.Info("Server listening", logging.String("addr", s.cfg.Addr))
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.deps.Logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.GetShutdownTimeout())
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.deps.Logger.Info("Server stopped")
	return nil
}

// instrument records request counts and latency under a fixed route label.
// Panics are recovered inside the measured handler.
func (s *Server) instrument(route string, next http.Handler) http.Handler {
	next = recoverPanics(s.deps.Logger, next)
	if s.deps.Recorder == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.deps.Recorder.ObserveHTTPRequest(route, sw.status, time.Since(start))
	})
}
