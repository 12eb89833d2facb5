// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package api

import (
	"net/http"
	"strconv"

	"grimm.is/sinkhole/internal/logging"
	"grimm.is/sinkhole/internal/stats"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, s.engine.Summarize())
}

// queryInt parses an integer query parameter, falling back to def on
// absence or junk.
func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func queryBool(r *http.Request, key string) bool {
	switch r.URL.Query().Get(key) {
	case "1", "true", "yes":
		return true
	}
	return false
}

func rankRequest(r *http.Request) stats.TopRequest {
	req := stats.TopRequest{
		Limit: queryInt(r, "limit", 0),
	}
	if queryBool(r, "asc") {
		req.Order = stats.Ascending
	}
	return req
}

func (s *Server) handleTopDomains(w http.ResponseWriter, r *http.Request) {
	req := rankRequest(r)
	req.Metric = stats.MetricPermitted
	if queryBool(r, "blocked") {
		req.Metric = stats.MetricBlocked
	}
	req.Audit = queryBool(r, "audit")

	WriteJSON(w, http.StatusOK, s.engine.TopDomains(req))
}

func (s *Server) handleTopClients(w http.ResponseWriter, r *http.Request) {
	req := rankRequest(r)
	req.Metric = stats.MetricTotal
	if queryBool(r, "blocked") {
		req.Metric = stats.MetricBlocked
	}
	req.IncludeZero = queryBool(r, "withzero")

	WriteJSON(w, http.StatusOK, s.engine.TopClients(req))
}

func (s *Server) handleForwardDestinations(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, s.engine.ForwardDestinations())
}

func (s *Server) handleOverTime(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, s.engine.OverTimeHistory())
}

func (s *Server) handleOverTimeClients(w http.ResponseWriter, r *http.Request) {
	points, clients := s.engine.OverTimeClients()
	WriteJSON(w, http.StatusOK, map[string]any{
		"over_time": points,
		"clients":   clients,
	})
}

func (s *Server) handleQueryTypes(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, s.engine.QueryTypeCounts())
}

func (s *Server) handleQueries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := stats.ScanFilter{
		From:     int64(queryInt(r, "from", 0)),
		Until:    int64(queryInt(r, "until", 0)),
		Domain:   q.Get("domain"),
		Client:   q.Get("client"),
		Upstream: q.Get("upstream"),
		Type:     stats.TypeFromString(q.Get("type")),
		Limit:    queryInt(r, "limit", 0),
	}
	WriteJSON(w, http.StatusOK, s.engine.Scan(filter))
}

func (s *Server) handleRecentBlocked(w http.ResponseWriter, r *http.Request) {
	n := queryInt(r, "count", 1)
	WriteJSON(w, http.StatusOK, s.engine.RecentBlocked(n))
}

func (s *Server) handleDBInfo(w http.ResponseWriter, r *http.Request) {
	if s.queryDB == nil {
		WriteError(w, http.StatusServiceUnavailable, "query database not configured")
		return
	}
	info, err := s.queryDB.Stat()
	if err != nil {
		logging.Error("Failed to stat query database", "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to stat query database")
		return
	}
	WriteJSON(w, http.StatusOK, info)
}
