// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Command sinkholed runs the statistics and reporting daemon: it keeps the
// in-memory query statistics, persists finished queries, and serves the
// HTTP/JSON reporting and list management API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"grimm.is/sinkhole/internal/api"
	"grimm.is/sinkhole/internal/config"
	"grimm.is/sinkhole/internal/gravity"
	"grimm.is/sinkhole/internal/logging"
	"grimm.is/sinkhole/internal/querylog"
	"grimm.is/sinkhole/internal/settings"
	"grimm.is/sinkhole/internal/stats"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "sinkholed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "/etc/sinkhole/sinkhole.hcl", "path to the daemon configuration")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	applyLogging(cfg)

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	store, err := settings.Open(cfg.SettingsPath)
	if err != nil {
		return err
	}

	lists, err := gravity.Open(cfg.GravityDBPath())
	if err != nil {
		return err
	}
	defer lists.Close()

	engine := stats.New(store, lists)
	if size, err := lists.Size(); err == nil {
		engine.SetGravitySize(size)
	} else {
		logging.Warn("[GRAVITY] cannot read blocklist size: %v", err)
	}

	queryDB, err := querylog.Open(cfg.QueryLogDBPath())
	if err != nil {
		return err
	}
	defer queryDB.Close()

	writer := querylog.NewService(querylog.ServiceConfig{
		Store:     queryDB,
		Retention: time.Duration(cfg.RetentionDays) * 24 * time.Hour,
	})
	writer.Start()
	defer writer.Stop()

	engine.SetFinishHook(func(q stats.FinishedQuery) {
		writer.Emit(querylog.Entry{
			Timestamp:     q.Timestamp,
			Type:          q.Type.String(),
			Domain:        q.Domain,
			Client:        q.Client,
			Status:        q.Status,
			Reply:         q.Reply,
			Upstream:      q.Upstream,
			LatencyMicros: q.LatencyMicros,
		})
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go store.Watch(ctx)

	server := api.NewServer(api.ServerOptions{
		Engine:   engine,
		Settings: store,
		Lists:    lists,
		QueryDB:  queryDB,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start(cfg.Listen) }()

	select {
	case <-ctx.Done():
		logging.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	return server.Shutdown(shutdownCtx)
}

func applyLogging(cfg *config.Config) {
	switch cfg.LogLevel {
	case "debug":
		logging.SetLevel(logging.LevelDebug)
	case "warn":
		logging.SetLevel(logging.LevelWarn)
	case "error":
		logging.SetLevel(logging.LevelError)
	default:
		logging.SetLevel(logging.LevelInfo)
	}

	if cfg.Syslog != nil && cfg.Syslog.Enabled {
		w, err := logging.NewSyslogWriter(*cfg.Syslog)
		if err != nil {
			logging.Warn("syslog unavailable: %v", err)
			return
		}
		logging.SetSyslog(w)
	}
}
