// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package stats

import "time"

// Writer surface. The resolver pipeline is the single caller of AddQuery
// and FinishQuery; the engine does not serialize multiple writers beyond
// the arena lock.

// AddQuery appends a new query record and updates the per-entity and
// per-slot aggregates. The record is anonymized at append time according to
// the privacy level in force right now; later level changes never reveal
// it. Returns the record's identifier for the matching FinishQuery call.
func (e *Engine) AddQuery(ts time.Time, qtype QueryType, domain, clientIP, clientName string) int {
	privacy := PrivacyShowAll
	if e.policy != nil {
		privacy = e.policy.PrivacyLevel()
	}
	if privacy >= PrivacyHideDomains {
		domain = HiddenDomain
	}
	if privacy >= PrivacyHideDomainsClients {
		clientIP, clientName = HiddenClient, ""
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	domainID := e.domainID(domain, true)
	clientID := e.clientID(clientIP, clientName, true)

	id := len(e.queries)
	e.queries = append(e.queries, &Query{
		Timestamp:  ts.Unix(),
		Type:       qtype,
		Status:     StatusUnknown,
		DomainID:   domainID,
		ClientID:   clientID,
		UpstreamID: -1,
		Privacy:    privacy,
	})

	e.counters.Queries++
	if qtype.Valid() {
		e.counters.QueryType[qtype]++
	}
	e.domains[domainID].Count++
	e.clients[clientID].Count++

	if slot := e.slotIndex(ts.Unix()); slot >= 0 {
		e.overTime[slot].Total++
		e.clients[clientID].overTime[slot]++
	}
	return id
}

// FinishedQuery is the denormalized view of one completed record, handed to
// the finish hook for long-term persistence. Domain and Client carry the
// privacy placeholder when the record was anonymized at creation time;
// Upstream is the forward destination, or a pseudo-target for answers from
// the blocking lists or the cache.
type FinishedQuery struct {
	Timestamp     int64
	Type          QueryType
	Domain        string
	Client        string
	Status        QueryStatus
	Reply         ReplyType
	Upstream      string
	LatencyMicros int64
}

// FinishQuery records the terminal outcome of query id: its status, the
// upstream it was forwarded to (empty for cache or blocklist answers), the
// reply class, the validation state and the resolution latency.
func (e *Engine) FinishQuery(id int, status QueryStatus, upstreamIP, upstreamName string, reply ReplyType, dnssec DNSSECStatus, latency time.Duration) {
	fq := e.finishQuery(id, status, upstreamIP, upstreamName, reply, dnssec, latency)
	if e.onFinish != nil {
		e.onFinish(fq)
	}
}

func (e *Engine) finishQuery(id int, status QueryStatus, upstreamIP, upstreamName string, reply ReplyType, dnssec DNSSECStatus, latency time.Duration) FinishedQuery {
	e.mu.Lock()
	defer e.mu.Unlock()

	if id < 0 || id >= len(e.queries) {
		panic("stats: FinishQuery id outside event log bound")
	}
	q := e.queries[id]
	q.Status = status
	q.Reply = reply
	q.DNSSEC = dnssec
	q.LatencyMicros = latency.Microseconds()
	e.counters.countReply(reply)

	domain := e.domains[q.DomainID]
	client := e.clients[q.ClientID]

	target := ""
	switch {
	case status.Blocked():
		e.counters.Blocked++
		domain.BlockedCount++
		client.BlockedCount++
		if slot := e.slotIndex(q.Timestamp); slot >= 0 {
			e.overTime[slot].Blocked++
		}
		target = UpstreamBlocklist
	case status == StatusForwarded:
		e.counters.Forwarded++
		if upstreamIP != "" {
			uid := e.upstreamID(upstreamIP, upstreamName, true)
			q.UpstreamID = uid
			e.upstreams[uid].Count++
			target = e.upstreams[uid].Display()
		}
	case status == StatusCache:
		e.counters.Cached++
		target = UpstreamCache
	}

	return FinishedQuery{
		Timestamp:     q.Timestamp,
		Type:          q.Type,
		Domain:        domain.Name,
		Client:        client.Display(),
		Status:        status,
		Reply:         reply,
		Upstream:      target,
		LatencyMicros: q.LatencyMicros,
	}
}
