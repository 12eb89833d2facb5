// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package stats

// Upstream filter pseudo-targets: queries answered from the blocking lists
// or the local cache instead of a real forward destination.
const (
	UpstreamBlocklist = "blocklist"
	UpstreamCache     = "cache"
)

// ScanFilter is the predicate set of a query log scan. Zero values mean
// "no constraint". Domain, Client and Upstream are display strings and are
// resolved to identifiers before the scan starts; a string that resolves to
// nothing makes the whole scan yield zero rows (caller input, not a fault).
type ScanFilter struct {
	// From and Until bound the record timestamp inclusively; 0 means
	// unbounded on that side.
	From  int64
	Until int64

	Domain string
	Client string
	// Upstream is an upstream IP or name, or one of the pseudo-targets
	// UpstreamBlocklist / UpstreamCache.
	Upstream string

	// Type restricts to one query type; TypeUnknown means any.
	Type QueryType

	// Limit bounds the scan range, not the result count: only the newest
	// Limit records are scanned, so the filter applies from the oldest
	// end of that range. 0 scans the whole log.
	Limit int
}

// ScanRow is one emitted query log row. Domain and Client carry the privacy
// placeholder when the record was anonymized at creation time.
type ScanRow struct {
	Timestamp int64        `json:"timestamp"`
	Type      string       `json:"type"`
	Domain    string       `json:"domain"`
	Client    string       `json:"client"`
	Status    QueryStatus  `json:"status"`
	DNSSEC    DNSSECStatus `json:"dnssec"`
	Reply     ReplyType    `json:"reply"`
	// LatencyMicros is zero when the response had not arrived by the
	// time the record was read.
	LatencyMicros int64 `json:"latency_us"`
}

// Scan walks the event log in insertion order and emits every record
// passing the filter and the privacy/display gates. Repeated calls with the
// same filter over an unchanged log return identical output.
func (e *Engine) Scan(f ScanFilter) []ScanRow {
	g := e.gate()
	if g.Privacy >= PrivacyMaximum {
		return nil
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	s := e.view()

	// Resolve display-string filters against the snapshot. Any lookup
	// failure means there is nothing to return.
	domainID, clientID := -1, -1
	upstreamID := 0
	filterUpstream := f.Upstream != ""
	if f.Domain != "" {
		if domainID = s.findDomain(f.Domain); domainID < 0 {
			return nil
		}
	}
	if f.Client != "" {
		if clientID = s.findClient(f.Client); clientID < 0 {
			return nil
		}
	}
	if filterUpstream {
		switch f.Upstream {
		case UpstreamBlocklist:
			upstreamID = -2
		case UpstreamCache:
			upstreamID = -1
		default:
			if upstreamID = s.findUpstream(f.Upstream); upstreamID < 0 {
				return nil
			}
		}
	}

	begin := 0
	if f.Limit > 0 && len(s.queries) > f.Limit {
		begin = len(s.queries) - f.Limit
	}

	rows := []ScanRow{}
	for id := begin; id < len(s.queries); id++ {
		q := s.queries[id]

		// Recorded under maximum privacy: no per-query detail exists
		// for display, ever.
		if q.Privacy >= PrivacyMaximum {
			continue
		}
		if !q.Type.Valid() {
			continue
		}
		if q.Status.Blocked() && !g.ShowBlocked {
			continue
		}
		if q.Status.Permitted() && !g.ShowPermitted {
			continue
		}
		if (f.From != 0 && q.Timestamp < f.From) || (f.Until != 0 && q.Timestamp > f.Until) {
			continue
		}
		if f.Domain != "" && q.DomainID != domainID {
			continue
		}
		if f.Client != "" && q.ClientID != clientID {
			continue
		}
		if f.Type != TypeUnknown && q.Type != f.Type {
			continue
		}
		if filterUpstream {
			switch {
			case upstreamID == -2:
				if !q.Status.Blocked() {
					continue
				}
			case upstreamID == -1:
				if q.Status != StatusCache {
					continue
				}
			default:
				if q.Status != StatusForwarded || q.UpstreamID != upstreamID {
					continue
				}
			}
		}

		latency := q.LatencyMicros
		if latency > maxLatencyMicros {
			// A delta computed before the response arrived; report
			// it as not measured rather than as half a lifetime.
			latency = 0
		}

		rows = append(rows, ScanRow{
			Timestamp:     q.Timestamp,
			Type:          q.Type.String(),
			Domain:        domainDisplay(q.Privacy, s.domain(q.DomainID)),
			Client:        clientDisplay(q.Privacy, s.client(q.ClientID)),
			Status:        q.Status,
			DNSSEC:        q.DNSSEC,
			Reply:         q.Reply,
			LatencyMicros: latency,
		})
	}
	return rows
}

// RecentBlocked returns the domains of the most recently blocked queries,
// newest first, up to n (1 when n <= 0). Domains anonymized at record time
// come back as the placeholder.
func (e *Engine) RecentBlocked(n int) []string {
	if n <= 0 {
		n = 1
	}
	g := e.gate()
	if g.Privacy >= PrivacyMaximum {
		return nil
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	s := e.view()

	out := []string{}
	for id := len(s.queries) - 1; id >= 0; id-- {
		q := s.queries[id]
		if !q.Status.Blocked() {
			continue
		}
		out = append(out, domainDisplay(q.Privacy, s.domain(q.DomainID)))
		if len(out) == n {
			break
		}
	}
	return out
}

// findDomain resolves a domain display string to its identifier, -1 when
// unknown.
func (s snapshot) findDomain(name string) int {
	for id, d := range s.domains {
		if d.Name == name {
			return id
		}
	}
	return -1
}

// findClient resolves a client display string against both IP and name.
func (s snapshot) findClient(name string) int {
	for id, c := range s.clients {
		if c.IP == name || (c.Name != "" && c.Name == name) {
			return id
		}
	}
	return -1
}

// findUpstream resolves an upstream display string against both IP and name.
func (s snapshot) findUpstream(name string) int {
	for id, u := range s.upstreams {
		if u.IP == name || (u.Name != "" && u.Name == name) {
			return id
		}
	}
	return -1
}
