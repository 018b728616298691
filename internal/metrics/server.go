package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/goran-ethernal/DealIndexor/internal/logger"
	"github.com/goran-ethernal/DealIndexor/pkg/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const systemMetricsInterval = 15 * time.Second

// HealthFunc returns nil while the indexer is healthy.
type HealthFunc func(ctx context.Context) error

// Server serves Prometheus metrics and a plain-text /health check on its own listener,
// separate from the read API.
type Server struct {
	config *config.MetricsConfig
	health HealthFunc
	log    *logger.Logger

	server *http.Server
	addr   string
	cancel context.CancelFunc
}

// NewServer builds the server. A nil health func always reports healthy.
func NewServer(cfg *config.MetricsConfig, health HealthFunc, log *logger.Logger) *Server {
	return &Server{config: cfg, health: health, log: log}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET "+s.config.Path, promhttp.Handler())
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if s.health != nil {
		if err := s.health(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = fmt.Fprint(w, err.Error())
			return
		}
	}

	_, _ = fmt.Fprint(w, "OK")
}

// Start binds the listener and serves in the background until Stop or ctx is done.
// It returns once the listener is bound, so Addr is valid afterwards.
func (s *Server) Start(ctx context.Context) error {
	if !s.config.Enabled {
		return nil
	}

	listener, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddress, err)
	}
	s.addr = listener.Addr().String()

	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       time.Minute,
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	go s.refreshSystemMetrics(runCtx)

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Errorw("Metrics server stopped", "error", err)
		}
	}()

	s.log.Infow("Metrics server listening", "addr", s.addr, "path", s.config.Path)
	return nil
}

func (s *Server) Addr() string {
	return s.addr
}

// Stop shuts the listener down, waiting for in-flight scrapes until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	s.cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown metrics server: %w", err)
	}
	return nil
}

func (s *Server) refreshSystemMetrics(ctx context.Context) {
	UpdateSystemMetrics()

	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			UpdateSystemMetrics()
		}
	}
}
