package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/SKuytov/SVP/pkg/config"
	"github.com/SKuytov/SVP/pkg/logger"
)

// Server wraps http.Server with context-driven lifecycle
// ⭐ SSOT: API 서버 설정은 이 파일에서만
type Server struct {
	http  *http.Server
	log   *logger.Logger
	env   string
	grace time.Duration
}

// New creates the API server; nothing listens until Run
func New(cfg *config.Config, log *logger.Logger, router http.Handler) *Server {
	grace := cfg.HTTP.ShutdownGrace
	if grace <= 0 {
		grace = 30 * time.Second
	}
	return &Server{
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadTimeout:       cfg.HTTP.ReadTimeout,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      cfg.HTTP.WriteTimeout,
			IdleTimeout:       60 * time.Second,
		},
		log:   log.Component("api.server"),
		env:   cfg.Env,
		grace: grace,
	}
}

// OnShutdown registers fn to run when shutdown begins. Hijacked connections
// (websockets) are not tracked by http.Server and must be closed this way.
func (s *Server) OnShutdown(fn func()) {
	s.http.RegisterOnShutdown(fn)
}

// Run listens on the configured address and serves until ctx is done
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.http.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln. When ctx ends, in-flight requests get the
// shutdown grace period to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.log.WithFields(logger.Fields{
		"addr": ln.Addr().String(),
		"env":  s.env,
	}).Info("API server listening")

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.log.WithField("grace", s.grace.String()).Info("Shutting down API server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.grace)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		_ = s.http.Close()
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	<-errCh
	s.log.Info("API server stopped")
	return nil
}
