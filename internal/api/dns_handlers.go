// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"grimm.is/sinkhole/internal/gravity"
	"grimm.is/sinkhole/internal/logging"
)

func (s *Server) blockingStatus() map[string]string {
	status := "disabled"
	if s.engine.Blocking() {
		status = "enabled"
	}
	return map[string]string{"blocking": status}
}

func (s *Server) handleBlockingStatus(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, s.blockingStatus())
}

type blockingRequest struct {
	Enabled bool `json:"enabled"`
	// DurationSeconds re-enables blocking automatically after a timed
	// disable. Ignored when Enabled is true.
	DurationSeconds int `json:"duration_seconds,omitempty"`
}

func (s *Server) handleBlockingSet(w http.ResponseWriter, r *http.Request) {
	var req blockingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, ErrInvalidBody)
		return
	}

	// A new request supersedes any pending re-enable timer.
	s.timerMu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if !req.Enabled && req.DurationSeconds > 0 {
		s.timer = time.AfterFunc(time.Duration(req.DurationSeconds)*time.Second, func() {
			s.engine.SetBlocking(true)
			logging.Info("[DNS] blocking re-enabled after timed disable")
		})
	}
	s.timerMu.Unlock()

	s.engine.SetBlocking(req.Enabled)
	if req.Enabled {
		logging.Info("[DNS] blocking enabled")
	} else {
		logging.Info("[DNS] blocking disabled", "duration_s", req.DurationSeconds)
	}
	WriteJSON(w, http.StatusOK, s.blockingStatus())
}

// listFromPath maps the {list} path segment to a store list.
func listFromPath(r *http.Request) (gravity.ListType, bool) {
	t := gravity.ListType(r.PathValue("list"))
	return t, t.Valid()
}

func (s *Server) handleListGet(w http.ResponseWriter, r *http.Request) {
	t, ok := listFromPath(r)
	if !ok {
		WriteError(w, http.StatusNotFound, "unknown list")
		return
	}
	entries, err := s.lists.Entries(t)
	if err != nil {
		logging.Error("Failed to read list", "list", t, "error", err)
		writeKindError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, entries)
}

type listEntryRequest struct {
	Entry string `json:"entry"`
}

func (s *Server) handleListAdd(w http.ResponseWriter, r *http.Request) {
	t, ok := listFromPath(r)
	if !ok {
		WriteError(w, http.StatusNotFound, "unknown list")
		return
	}
	var req listEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, ErrInvalidBody)
		return
	}
	if err := s.lists.Add(t, req.Entry); err != nil {
		writeKindError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]string{"added": req.Entry})
}

func (s *Server) handleListRemove(w http.ResponseWriter, r *http.Request) {
	t, ok := listFromPath(r)
	if !ok {
		WriteError(w, http.StatusNotFound, "unknown list")
		return
	}
	var req listEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, ErrInvalidBody)
		return
	}
	if err := s.lists.Remove(t, req.Entry); err != nil {
		writeKindError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"removed": req.Entry})
}
