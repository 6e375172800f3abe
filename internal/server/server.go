// AngelaMos | 2026
// server.go

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/partnerdesk/agreements-api/internal/config"
)

type Readiness interface {
	SetShutdown(shutdown bool)
}

type Config struct {
	ServerConfig config.ServerConfig
	Readiness    Readiness
	Logger       *slog.Logger
}

type Server struct {
	httpServer *http.Server
	router     chi.Router
	readiness  Readiness
	logger     *slog.Logger
	timeout    time.Duration
}

func New(cfg Config) *Server {
	router := chi.NewRouter()

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.ServerConfig.Address(),
			Handler:      router,
			ReadTimeout:  cfg.ServerConfig.ReadTimeout,
			WriteTimeout: cfg.ServerConfig.WriteTimeout,
			IdleTimeout:  cfg.ServerConfig.IdleTimeout,
		},
		router:    router,
		readiness: cfg.Readiness,
		logger:    cfg.Logger,
		timeout:   cfg.ServerConfig.ShutdownTimeout,
	}
}

func (s *Server) Router() chi.Router {
	return s.router
}

func (s *Server) Start() error {
	s.logger.Info("server listening", "addr", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil &&
		!errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen and serve: %w", err)
	}

	return nil
}

// Shutdown flips readiness so load balancers stop routing, drains for the
// given delay, then closes the listener.
func (s *Server) Shutdown(ctx context.Context, drain time.Duration) error {
	if s.readiness != nil {
		s.readiness.SetShutdown(true)
	}

	s.logger.Info("draining connections", "delay", drain)
	select {
	case <-time.After(drain):
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}

	return nil
}
