// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package api

import (
	"net/http"
	"runtime"

	"grimm.is/sinkhole/internal/clock"
)

// Build metadata, set via -ldflags at release time.
var (
	Version = "dev"
	Commit  = "unknown"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"version":        Version,
		"commit":         Commit,
		"go":             runtime.Version(),
		"uptime_seconds": int64(clock.Now().Sub(s.startTime).Seconds()),
	})
}
