// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package stats

import "sort"

// RankOrder selects the sort direction of a top-N request.
type RankOrder int

const (
	Descending RankOrder = iota
	Ascending
)

// RankMetric selects the counter a top-N request ranks by.
type RankMetric int

const (
	// MetricTotal ranks by the full query count.
	MetricTotal RankMetric = iota
	// MetricBlocked ranks by the blocked query count.
	MetricBlocked
	// MetricPermitted ranks by total minus blocked.
	MetricPermitted
)

// TopRequest parameterizes a ranking call.
type TopRequest struct {
	Metric RankMetric
	Order  RankOrder
	// Limit caps the number of emitted entries; 10 when unset.
	Limit int
	// IncludeZero also emits entities with a zero metric value.
	IncludeZero bool
	// Audit restricts a domain ranking to not-yet-audited domains and
	// bypasses the operator exclusion list.
	Audit bool
}

func (r TopRequest) limit() int {
	if r.Limit <= 0 {
		return 10
	}
	return r.Limit
}

// TopEntry is one emitted ranking row. IP is set for clients and upstreams.
type TopEntry struct {
	ID    int    `json:"-"`
	Name  string `json:"name"`
	IP    string `json:"ip,omitempty"`
	Count int    `json:"count"`
}

type rankPair struct {
	id    int
	count int
}

// sortPairs orders by metric value in the requested direction. Ties break
// toward the lower identifier in both directions, which makes the output a
// deterministic total order across equal counts.
func sortPairs(pairs []rankPair, order RankOrder) {
	sort.Slice(pairs, func(i, j int) bool {
		a, b := pairs[i], pairs[j]
		if a.count != b.count {
			if order == Ascending {
				return a.count < b.count
			}
			return a.count > b.count
		}
		return a.id < b.id
	})
}

// TopDomains returns the ranked domains view. Under a privacy level that
// hides domains it returns an empty list, indistinguishable from "no data".
func (e *Engine) TopDomains(req TopRequest) []TopEntry {
	g := e.gate()
	if !g.DisclosesDomains() {
		return nil
	}
	var audited map[string]struct{}
	if req.Audit {
		audited = e.auditSet()
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	s := e.view()

	pairs := make([]rankPair, len(s.domains))
	for id, d := range s.domains {
		count := d.Count
		switch req.Metric {
		case MetricBlocked:
			count = d.BlockedCount
		case MetricPermitted:
			count = d.Count - d.BlockedCount
		}
		pairs[id] = rankPair{id: id, count: count}
	}
	sortPairs(pairs, req.Order)

	out := []TopEntry{}
	for _, p := range pairs {
		d := s.domain(p.id)
		if !req.Audit && g.ExcludesDomain(d.Name) {
			continue
		}
		if req.Audit {
			if _, ok := audited[d.Name]; ok {
				continue
			}
		}
		// Anonymized at record time; never surfaces in a top list.
		if d.Name == HiddenDomain {
			continue
		}
		switch req.Metric {
		case MetricBlocked:
			if !g.ShowBlocked || p.count <= 0 {
				continue
			}
		case MetricPermitted:
			if !g.ShowPermitted || (p.count <= 0 && !req.IncludeZero) {
				continue
			}
		default:
			if p.count <= 0 && !req.IncludeZero {
				continue
			}
		}
		out = append(out, TopEntry{ID: p.id, Name: d.Name, Count: p.count})
		if len(out) == req.limit() {
			break
		}
	}
	return out
}

// TopClients returns the ranked clients view. Under a privacy level that
// hides clients it returns an empty list.
func (e *Engine) TopClients(req TopRequest) []TopEntry {
	g := e.gate()
	if !g.DisclosesClients() {
		return nil
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	s := e.view()

	pairs := make([]rankPair, len(s.clients))
	for id, c := range s.clients {
		count := c.Count
		if req.Metric == MetricBlocked {
			count = c.BlockedCount
		}
		pairs[id] = rankPair{id: id, count: count}
	}
	sortPairs(pairs, req.Order)

	out := []TopEntry{}
	for _, p := range pairs {
		c := s.client(p.id)
		if g.ExcludesClient(c.IP, c.Name) {
			continue
		}
		if c.IP == HiddenClient {
			continue
		}
		if p.count <= 0 && !req.IncludeZero {
			continue
		}
		out = append(out, TopEntry{ID: p.id, Name: c.Name, IP: c.IP, Count: p.count})
		if len(out) == req.limit() {
			break
		}
	}
	return out
}

// TopUpstreams returns the ranked real forward destinations. The pseudo
// destinations (blocklist, cache) are part of ForwardDestinations, not of
// this ranking.
func (e *Engine) TopUpstreams(req TopRequest) []TopEntry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s := e.view()

	pairs := make([]rankPair, len(s.upstreams))
	for id, u := range s.upstreams {
		pairs[id] = rankPair{id: id, count: u.Count}
	}
	sortPairs(pairs, req.Order)

	out := []TopEntry{}
	for _, p := range pairs {
		if p.count <= 0 && !req.IncludeZero {
			continue
		}
		u := s.upstream(p.id)
		out = append(out, TopEntry{ID: p.id, Name: u.Name, IP: u.IP, Count: p.count})
		if len(out) == req.limit() {
			break
		}
	}
	return out
}
