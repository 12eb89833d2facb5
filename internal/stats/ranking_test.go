// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/sinkhole/internal/clock"
)

// seedRanking builds the three-domain fixture with blocked counts 5, 0, 9.
func seedRanking(t *testing.T, p *stubPolicy) *Engine {
	t.Helper()
	t.Cleanup(clock.Reset)
	e := newTestEngine(p)

	for i := 0; i < 5; i++ {
		seed(e, "ads.example.com", "192.168.0.1", true)
	}
	for i := 0; i < 3; i++ {
		seed(e, "clean.example.net", "192.168.0.1", false)
	}
	for i := 0; i < 9; i++ {
		seed(e, "tracker.example.org", "192.168.0.2", true)
	}
	return e
}

func TestTopDomains_BlockedDesc(t *testing.T) {
	e := seedRanking(t, nil)

	top := e.TopDomains(TopRequest{Metric: MetricBlocked, Limit: 2})
	require.Len(t, top, 2)
	assert.Equal(t, "tracker.example.org", top[0].Name)
	assert.Equal(t, 9, top[0].Count)
	assert.Equal(t, "ads.example.com", top[1].Name)
	assert.Equal(t, 5, top[1].Count)
}

func TestTopDomains_ZeroCountExcluded(t *testing.T) {
	e := seedRanking(t, nil)

	top := e.TopDomains(TopRequest{Metric: MetricBlocked, Limit: 10})
	require.Len(t, top, 2)
	for _, entry := range top {
		assert.Greater(t, entry.Count, 0)
		assert.NotEqual(t, "clean.example.net", entry.Name)
	}
}

func TestTopDomains_Exclusion(t *testing.T) {
	e := seedRanking(t, &stubPolicy{exclDomains: []string{"tracker.example.org"}})

	top := e.TopDomains(TopRequest{Metric: MetricBlocked, Limit: 2})
	require.Len(t, top, 1)
	assert.Equal(t, "ads.example.com", top[0].Name)
	assert.Equal(t, 5, top[0].Count)
}

func TestTopDomains_TieBreakIsStable(t *testing.T) {
	t.Cleanup(clock.Reset)
	e := newTestEngine(nil)
	// Three domains with identical counts; insertion order fixes the ids.
	for _, d := range []string{"a.example", "b.example", "c.example"} {
		seed(e, d, "10.0.0.1", true)
	}

	desc := e.TopDomains(TopRequest{Metric: MetricBlocked, Order: Descending})
	asc := e.TopDomains(TopRequest{Metric: MetricBlocked, Order: Ascending})
	require.Len(t, desc, 3)
	require.Len(t, asc, 3)
	for i := range desc {
		// Lower identifier first on equal counts, in both directions.
		assert.Equal(t, desc[i].Name, asc[i].Name)
	}
	assert.Equal(t, "a.example", desc[0].Name)
	assert.Equal(t, "c.example", desc[2].Name)
}

func TestTopDomains_PrivacyDeniedIsEmptyNotError(t *testing.T) {
	e := seedRanking(t, &stubPolicy{level: PrivacyHideDomains})

	top := e.TopDomains(TopRequest{Metric: MetricBlocked})
	assert.Empty(t, top)
}

func TestTopDomains_HiddenPlaceholderNeverSurfaces(t *testing.T) {
	t.Cleanup(clock.Reset)
	p := &stubPolicy{level: PrivacyHideDomains}
	e := newTestEngine(p)
	seed(e, "secret.example.com", "10.0.0.9", true)

	// Lower the level again: the anonymized record must stay anonymous.
	p.level = PrivacyShowAll
	top := e.TopDomains(TopRequest{Metric: MetricBlocked})
	assert.Empty(t, top)
}

func TestTopDomains_AuditModeSkipsAudited(t *testing.T) {
	e := seedRanking(t, &stubPolicy{auditDomains: []string{"tracker.example.org"}})

	top := e.TopDomains(TopRequest{Metric: MetricBlocked, Audit: true})
	require.Len(t, top, 1)
	assert.Equal(t, "ads.example.com", top[0].Name)
}

func TestTopDomains_ShowFilterBlockedOnly(t *testing.T) {
	e := seedRanking(t, &stubPolicy{hidePermit: true})

	permitted := e.TopDomains(TopRequest{Metric: MetricPermitted})
	assert.Empty(t, permitted)

	blocked := e.TopDomains(TopRequest{Metric: MetricBlocked})
	assert.Len(t, blocked, 2)
}

func TestTopClients(t *testing.T) {
	e := seedRanking(t, nil)

	top := e.TopClients(TopRequest{Metric: MetricTotal})
	require.Len(t, top, 2)
	assert.Equal(t, "192.168.0.2", top[0].IP)
	assert.Equal(t, 9, top[0].Count)
	assert.Equal(t, "192.168.0.1", top[1].IP)
	assert.Equal(t, 8, top[1].Count)
}

func TestTopClients_PrivacyGate(t *testing.T) {
	e := seedRanking(t, &stubPolicy{level: PrivacyHideDomainsClients})
	assert.Empty(t, e.TopClients(TopRequest{Metric: MetricTotal}))

	// Hiding only domains still discloses clients.
	e2 := seedRanking(t, &stubPolicy{level: PrivacyHideDomains})
	assert.NotEmpty(t, e2.TopClients(TopRequest{Metric: MetricTotal}))
}

func TestTopClients_IncludeZero(t *testing.T) {
	t.Cleanup(clock.Reset)
	e := newTestEngine(nil)
	seed(e, "x.example", "10.0.0.1", false)

	// A client that resolved nothing yet.
	e.mu.Lock()
	e.clientID("10.0.0.2", "idle-host", true)
	e.mu.Unlock()

	require.Len(t, e.TopClients(TopRequest{Metric: MetricTotal}), 1)

	withZero := e.TopClients(TopRequest{Metric: MetricTotal, IncludeZero: true})
	require.Len(t, withZero, 2)
	assert.Equal(t, "idle-host", withZero[1].Name)
	assert.Equal(t, 0, withZero[1].Count)
}

func TestTopUpstreams(t *testing.T) {
	t.Cleanup(clock.Reset)
	e := newTestEngine(nil)
	forward := func(upstreamIP, upstreamName string) {
		id := e.AddQuery(testNow.Add(-30*time.Minute), TypeA, "a.example", "10.0.0.1", "")
		e.FinishQuery(id, StatusForwarded, upstreamIP, upstreamName, ReplyIP, DNSSECUnspecified, time.Millisecond)
	}
	forward("1.1.1.1", "")
	forward("9.9.9.9", "dns.quad9.net")
	forward("9.9.9.9", "dns.quad9.net")

	top := e.TopUpstreams(TopRequest{Metric: MetricTotal})
	require.Len(t, top, 2)
	assert.Equal(t, "9.9.9.9", top[0].IP)
	assert.Equal(t, 2, top[0].Count)
	assert.Equal(t, "1.1.1.1", top[1].IP)
}
