// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package stats is the in-memory statistics engine behind the reporting
// surface: a growing event log of DNS queries plus per-domain, per-client
// and per-upstream counters and a fixed-width time series, with ranked,
// filtered, privacy-gated read views over all of it.
//
// Concurrency model: a single writer (the resolver pipeline) appends and
// mutates under the write lock; any number of readers run in parallel,
// each holding the read lock for the duration of its call. A read view
// never observes a half-applied write, and an identifier obtained inside a
// view is valid for exactly that view.
package stats

import (
	"sync"
	"sync/atomic"
	"time"

	"grimm.is/sinkhole/internal/clock"
)

// PolicySource supplies the externally mutable disclosure policy. It is
// consulted once per serving call, never cached across calls.
type PolicySource interface {
	PrivacyLevel() PrivacyLevel
	ExcludedDomains() []string
	ExcludedClients() []string
	// QueryDisplay reports which status classes may be surfaced.
	QueryDisplay() (showPermitted, showBlocked bool)
}

// AuditSource supplies the set of domains already reviewed by the operator.
// Used only to filter domain rankings in audit mode.
type AuditSource interface {
	AuditDomains() []string
}

// Engine owns the event log, the entity tables and the time series. It is
// created once at process start and lives for the lifetime of the process.
type Engine struct {
	mu sync.RWMutex

	domains     []*Domain
	domainIDs   map[string]int
	clients     []*Client
	clientIDs   map[string]int // keyed by client IP
	upstreams   []*Upstream
	upstreamIDs map[string]int // keyed by upstream IP

	queries []*Query

	overTime [OverTimeSlots]TimeSlot

	counters Counters

	blocking atomic.Bool

	policy PolicySource
	audit  AuditSource

	// onFinish, when set, receives every completed record. Wired once at
	// startup, before any query flows.
	onFinish func(FinishedQuery)
}

// New creates an engine with the time series anchored around clock.Now().
// audit may be nil when no audit database is attached.
func New(policy PolicySource, audit AuditSource) *Engine {
	e := &Engine{
		domainIDs:   make(map[string]int),
		clientIDs:   make(map[string]int),
		upstreamIDs: make(map[string]int),
		policy:      policy,
		audit:       audit,
	}
	e.initOverTime(clock.Now())
	e.blocking.Store(true)
	return e
}

// snapshot is the read view of the engine state for one serving call. It
// borrows the live arenas, so it is only valid while the caller holds the
// read lock.
type snapshot struct {
	domains   []*Domain
	clients   []*Client
	upstreams []*Upstream
	queries   []*Query
	overTime  [OverTimeSlots]TimeSlot
	counters  Counters
	now       time.Time
}

// view builds the read view. Callers hold at least the read lock.
func (e *Engine) view() snapshot {
	return snapshot{
		domains:   e.domains,
		clients:   e.clients,
		upstreams: e.upstreams,
		queries:   e.queries,
		overTime:  e.overTime,
		counters:  e.counters,
		now:       clock.Now(),
	}
}

// SetFinishHook registers fn to receive every completed record, typically
// for long-term persistence. Not synchronized with the writer surface; call
// it before the first AddQuery.
func (e *Engine) SetFinishHook(fn func(FinishedQuery)) {
	e.onFinish = fn
}

// Blocking reports whether blocking is currently enabled.
func (e *Engine) Blocking() bool { return e.blocking.Load() }

// SetBlocking toggles the blocking status flag.
func (e *Engine) SetBlocking(enabled bool) { e.blocking.Store(enabled) }

// SetGravitySize records the current size of the gravity list. Called by
// the list store after each (re)load.
func (e *Engine) SetGravitySize(n int) {
	e.mu.Lock()
	e.counters.Gravity = n
	e.mu.Unlock()
}
