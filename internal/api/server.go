// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package api serves the reporting and management surface over HTTP/JSON.
package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"grimm.is/sinkhole/internal/clock"
	"grimm.is/sinkhole/internal/gravity"
	"grimm.is/sinkhole/internal/logging"
	"grimm.is/sinkhole/internal/metrics"
	"grimm.is/sinkhole/internal/querylog"
	"grimm.is/sinkhole/internal/settings"
	"grimm.is/sinkhole/internal/stats"
)

// ServerConfig holds HTTP server security configuration.
// Mitigation: OWASP A05:2021-Security Misconfiguration
type ServerConfig struct {
	ReadHeaderTimeout time.Duration // Slowloris prevention
	ReadTimeout       time.Duration // Body read limit
	WriteTimeout      time.Duration // Response timeout
	IdleTimeout       time.Duration // Keep-alive timeout
	MaxHeaderBytes    int           // Header size limit
	MaxBodyBytes      int64         // Request body size limit
}

// DefaultServerConfig returns secure default server configuration.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64KB
		MaxBodyBytes:      1 << 20, // 1MB, list entries are small
	}
}

// Server handles API requests.
type Server struct {
	engine   *stats.Engine
	settings *settings.Store
	lists    *gravity.Store
	queryDB  *querylog.Store

	serverConfig *ServerConfig
	startTime    time.Time

	// re-enable timer for timed blocking disable
	timerMu sync.Mutex
	timer   *time.Timer

	httpServer *http.Server
	mux        *http.ServeMux
}

// ServerOptions holds dependencies for the API server.
type ServerOptions struct {
	Engine   *stats.Engine
	Settings *settings.Store
	Lists    *gravity.Store
	QueryDB  *querylog.Store // optional
	Config   *ServerConfig   // nil takes the defaults
}

// NewServer creates a new API server with the provided options.
func NewServer(opts ServerOptions) *Server {
	cfg := opts.Config
	if cfg == nil {
		cfg = DefaultServerConfig()
	}
	s := &Server{
		engine:       opts.Engine,
		settings:     opts.Settings,
		lists:        opts.Lists,
		queryDB:      opts.QueryDB,
		serverConfig: cfg,
		startTime:    clock.Now(),
		mux:          http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	mux := s.mux

	mux.HandleFunc("GET /api/stats/summary", s.handleSummary)
	mux.HandleFunc("GET /api/stats/top_domains", s.handleTopDomains)
	mux.HandleFunc("GET /api/stats/top_clients", s.handleTopClients)
	mux.HandleFunc("GET /api/stats/upstreams", s.handleForwardDestinations)
	mux.HandleFunc("GET /api/stats/overtime", s.handleOverTime)
	mux.HandleFunc("GET /api/stats/overtime/clients", s.handleOverTimeClients)
	mux.HandleFunc("GET /api/stats/query_types", s.handleQueryTypes)

	mux.HandleFunc("GET /api/queries", s.handleQueries)
	mux.HandleFunc("GET /api/queries/recent_blocked", s.handleRecentBlocked)
	mux.HandleFunc("GET /api/db", s.handleDBInfo)

	mux.HandleFunc("GET /api/dns/blocking", s.handleBlockingStatus)
	mux.HandleFunc("POST /api/dns/blocking", s.handleBlockingSet)

	mux.HandleFunc("GET /api/lists/{list}", s.handleListGet)
	mux.HandleFunc("POST /api/lists/{list}", s.handleListAdd)
	mux.HandleFunc("DELETE /api/lists/{list}", s.handleListRemove)

	mux.HandleFunc("GET /api/version", s.handleVersion)
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.Handle("GET /metrics", promhttp.HandlerFor(
		metrics.NewRegistry(s.engine), promhttp.HandlerOpts{}))
}

// Handler returns the route tree, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return http.MaxBytesHandler(s.mux, s.serverConfig.MaxBodyBytes)
}

// Start begins serving on addr. Blocks until the listener fails or Shutdown
// is called.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.serverConfig.ReadHeaderTimeout,
		ReadTimeout:       s.serverConfig.ReadTimeout,
		WriteTimeout:      s.serverConfig.WriteTimeout,
		IdleTimeout:       s.serverConfig.IdleTimeout,
		MaxHeaderBytes:    s.serverConfig.MaxHeaderBytes,
	}
	logging.Info("[API] listening", "addr", addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.timerMu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.timerMu.Unlock()

	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
