// ============================================================================
// kthxbye - LOLCODE Interpreter
// ============================================================================
//
// Package:     server
// Description: HTTP and WebSocket front end for running programs remotely
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	mdwlog "github.com/msto63/kthxbye/foundation/core/log"
	"github.com/msto63/kthxbye/internal/engine"
	"github.com/msto63/kthxbye/internal/history"
	"github.com/msto63/kthxbye/pkg/core/config"
	"github.com/msto63/kthxbye/pkg/core/health"
	"github.com/msto63/kthxbye/pkg/core/logging"
	"github.com/msto63/kthxbye/pkg/core/version"
)

// Server serves the run API
type Server struct {
	httpServer *http.Server
	handler    *Handler
	health     *health.Registry
	logger     *logging.Logger
	config     Config
}

// Config holds server configuration
type Config struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxProgramBytes int64
	Version         string
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Host:            "127.0.0.1",
		Port:            8420,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    60 * time.Second,
		MaxProgramBytes: 64 * 1024,
		Version:         version.Server,
	}
}

// ConfigFromCore derives server settings from the [server] section
func ConfigFromCore(cfg *config.Config) Config {
	c := DefaultConfig()
	c.Host = cfg.Server.Host
	c.Port = cfg.Server.Port
	c.ReadTimeout = cfg.Server.ReadTimeout.Duration
	c.MaxProgramBytes = cfg.Server.MaxProgramBytes
	return c
}

// New creates a server. store may be nil when history is disabled.
func New(cfg Config, eng *engine.Engine, store history.Store, base *mdwlog.Logger) *Server {
	logger := logging.Wrap("server", base)

	registry := health.NewRegistry("kthxbye", cfg.Version)
	registry.Register(health.ProbeCheck("interpreter", health.StatusUnhealthy, eng.SelfTest))
	if store != nil {
		registry.Register(health.ProbeCheck("history", health.StatusDegraded, func(ctx context.Context) error {
			_, err := store.List(ctx, history.Filter{Limit: 1})
			return err
		}))
	}
	if _, ok := eng.CacheStats(); ok {
		registry.RegisterFunc("token_cache", func(context.Context) health.CheckResult {
			stats, _ := eng.CacheStats()
			return health.CheckResult{
				Status: health.StatusHealthy,
				Details: map[string]interface{}{
					"size":     stats.Size,
					"hits":     stats.Hits,
					"misses":   stats.Misses,
					"hit_rate": stats.HitRate,
				},
			}
		})
	}

	h := NewHandler(eng, registry, cfg.MaxProgramBytes, logger)

	mux := http.NewServeMux()
	mux.Handle("/ws", NewWebSocketHandler(eng, cfg.MaxProgramBytes, logger))
	mux.Handle("/", h)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      loggingMiddleware(logger, mux),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		handler: h,
		health:  registry,
		logger:  logger,
		config:  cfg,
	}
}

// loggingMiddleware adds request logging
func loggingMiddleware(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		logger.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapper.statusCode,
			"duration", time.Since(start),
		)
	})
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWrapper) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack implements http.Hijacker for websocket upgrades
func (w *responseWrapper) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	w.statusCode = http.StatusSwitchingProtocols
	return hj.Hijack()
}

func (w *responseWrapper) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Handler returns the root HTTP handler including middleware
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Serve accepts connections on l until Stop is called
func (s *Server) Serve(l net.Listener) error {
	s.logger.Info("Starting kthxbye server", "address", l.Addr().String())
	if err := s.httpServer.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Start listens on the configured address and serves until Stop is called
func (s *Server) Start() error {
	l, err := net.Listen("tcp", s.Address())
	if err != nil {
		return err
	}
	return s.Serve(l)
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping kthxbye server")
	return s.httpServer.Shutdown(ctx)
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

// HealthRegistry returns the health check registry
func (s *Server) HealthRegistry() *health.Registry {
	return s.health
}
