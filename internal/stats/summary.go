// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package stats

// Summary is the headline statistics view.
type Summary struct {
	GravitySize      int     `json:"gravity_size"`
	TotalQueries     int     `json:"total_queries"`
	BlockedQueries   int     `json:"blocked_queries"`
	PercentBlocked   float64 `json:"percent_blocked"`
	UniqueDomains    int     `json:"unique_domains"`
	ForwardedQueries int     `json:"forwarded_queries"`
	CachedQueries    int     `json:"cached_queries"`
	PrivacyLevel     int     `json:"privacy_level"`
	TotalClients     int     `json:"total_clients"`
	ActiveClients    int     `json:"active_clients"`
	Status           string  `json:"status"`

	QueryTypes map[string]int `json:"query_types"`
	ReplyTypes map[string]int `json:"reply_types"`
}

// Summarize computes the headline view over the current snapshot.
func (e *Engine) Summarize() Summary {
	g := e.gate()
	e.mu.RLock()
	defer e.mu.RUnlock()
	s := e.view()

	percent := 0.0
	if s.counters.Queries > 0 {
		percent = 100 * float64(s.counters.Blocked) / float64(s.counters.Queries)
	}

	active := 0
	for _, c := range s.clients {
		if c.Count > 0 {
			active++
		}
	}

	status := "disabled"
	if e.Blocking() {
		status = "enabled"
	}

	types := make(map[string]int, typeMax-1)
	for t := TypeA; t < typeMax; t++ {
		types[t.String()] = s.counters.QueryType[t]
	}

	return Summary{
		GravitySize:      s.counters.Gravity,
		TotalQueries:     s.counters.Queries,
		BlockedQueries:   s.counters.Blocked,
		PercentBlocked:   percent,
		UniqueDomains:    len(s.domains),
		ForwardedQueries: s.counters.Forwarded,
		CachedQueries:    s.counters.Cached,
		PrivacyLevel:     int(g.Privacy),
		TotalClients:     len(s.clients),
		ActiveClients:    active,
		Status:           status,
		QueryTypes:       types,
		ReplyTypes: map[string]int{
			"NODATA":   s.counters.ReplyNODATA,
			"NXDOMAIN": s.counters.ReplyNXDOMAIN,
			"CNAME":    s.counters.ReplyCNAME,
			"IP":       s.counters.ReplyIP,
		},
	}
}

// TypeCount is one row of the per-type breakdown.
type TypeCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// QueryTypeCounts returns the per-type totals in enum order, the unknown
// bucket included.
func (e *Engine) QueryTypeCounts() []TypeCount {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s := e.view()
	out := make([]TypeCount, 0, typeMax)
	for t := QueryType(0); t < typeMax; t++ {
		out = append(out, TypeCount{Name: t.String(), Count: s.counters.QueryType[t]})
	}
	return out
}

// maxForwardDestinations caps the number of real upstreams in the forward
// destination view.
const maxForwardDestinations = 8

// ForwardDestinations returns the answer-source breakdown: the two pseudo
// destinations (blocking lists, local cache) always lead, followed by the
// top real upstreams with at least one query.
func (e *Engine) ForwardDestinations() []TopEntry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s := e.view()

	out := []TopEntry{
		{ID: -2, Name: UpstreamBlocklist, IP: UpstreamBlocklist, Count: s.counters.Blocked},
		{ID: -1, Name: UpstreamCache, IP: UpstreamCache, Count: s.counters.Cached},
	}

	pairs := make([]rankPair, len(s.upstreams))
	for id, u := range s.upstreams {
		pairs[id] = rankPair{id: id, count: u.Count}
	}
	sortPairs(pairs, Descending)

	for i, p := range pairs {
		if i == maxForwardDestinations || p.count <= 0 {
			break
		}
		u := s.upstream(p.id)
		out = append(out, TopEntry{ID: p.id, Name: u.Display(), IP: u.IP, Count: p.count})
	}
	return out
}
