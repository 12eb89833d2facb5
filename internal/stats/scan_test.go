// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/sinkhole/internal/clock"
)

func TestScan_AllRows(t *testing.T) {
	t.Cleanup(clock.Reset)
	e := newTestEngine(nil)
	seed(e, "a.example", "10.0.0.1", false)
	seed(e, "b.example", "10.0.0.2", true)

	rows := e.Scan(ScanFilter{})
	require.Len(t, rows, 2)
	assert.Equal(t, "a.example", rows[0].Domain)
	assert.Equal(t, "10.0.0.1", rows[0].Client)
	assert.Equal(t, StatusForwarded, rows[0].Status)
	assert.Equal(t, "b.example", rows[1].Domain)
	assert.Equal(t, StatusGravity, rows[1].Status)
}

func TestScan_Idempotent(t *testing.T) {
	t.Cleanup(clock.Reset)
	e := newTestEngine(nil)
	for i := 0; i < 5; i++ {
		seed(e, "a.example", "10.0.0.1", i%2 == 0)
	}

	f := ScanFilter{Domain: "a.example"}
	first := e.Scan(f)
	second := e.Scan(f)
	assert.Equal(t, first, second)
}

func TestScan_TimeRange(t *testing.T) {
	t.Cleanup(clock.Reset)
	e := newTestEngine(nil)
	old := testNow.Add(-5 * time.Hour)
	mid := testNow.Add(-3 * time.Hour)
	recent := testNow.Add(-time.Hour)
	seedAt(e, old, "a.example", "10.0.0.1", false)
	seedAt(e, mid, "b.example", "10.0.0.1", false)
	seedAt(e, recent, "c.example", "10.0.0.1", false)

	rows := e.Scan(ScanFilter{From: mid.Unix(), Until: mid.Unix()})
	require.Len(t, rows, 1, "bounds are inclusive")
	assert.Equal(t, "b.example", rows[0].Domain)

	rows = e.Scan(ScanFilter{From: mid.Unix()})
	assert.Len(t, rows, 2, "zero Until means unbounded")
}

func TestScan_UnknownFilterTarget(t *testing.T) {
	t.Cleanup(clock.Reset)
	e := newTestEngine(nil)
	seed(e, "a.example", "10.0.0.1", false)

	assert.Empty(t, e.Scan(ScanFilter{Domain: "nope.example"}))
	assert.Empty(t, e.Scan(ScanFilter{Client: "192.0.2.99"}))
	assert.Empty(t, e.Scan(ScanFilter{Upstream: "192.0.2.99"}))
}

func TestScan_ClientFilterByName(t *testing.T) {
	t.Cleanup(clock.Reset)
	e := newTestEngine(nil)
	id := e.AddQuery(testNow.Add(-time.Hour), TypeA, "a.example", "10.0.0.1", "laptop.lan")
	e.FinishQuery(id, StatusCache, "", "", ReplyIP, DNSSECUnspecified, time.Millisecond)
	seed(e, "b.example", "10.0.0.2", false)

	rows := e.Scan(ScanFilter{Client: "laptop.lan"})
	require.Len(t, rows, 1)
	assert.Equal(t, "a.example", rows[0].Domain)
}

func TestScan_TypeFilter(t *testing.T) {
	t.Cleanup(clock.Reset)
	e := newTestEngine(nil)
	seed(e, "a.example", "10.0.0.1", false)
	id := e.AddQuery(testNow.Add(-time.Hour), TypeAAAA, "b.example", "10.0.0.1", "")
	e.FinishQuery(id, StatusForwarded, "9.9.9.9", "", ReplyIP, DNSSECUnspecified, time.Millisecond)

	rows := e.Scan(ScanFilter{Type: TypeAAAA})
	require.Len(t, rows, 1)
	assert.Equal(t, "AAAA", rows[0].Type)
}

func TestScan_LimitBoundsScanRange(t *testing.T) {
	t.Cleanup(clock.Reset)
	e := newTestEngine(nil)
	seedAt(e, testNow.Add(-4*time.Hour), "old.example", "10.0.0.1", true)
	seedAt(e, testNow.Add(-3*time.Hour), "mid.example", "10.0.0.1", false)
	seedAt(e, testNow.Add(-2*time.Hour), "new.example", "10.0.0.1", false)

	// Limit restricts the scan to the newest records before the filter
	// runs, so the blocked query falls out of range entirely.
	rows := e.Scan(ScanFilter{Limit: 2, Domain: "old.example"})
	assert.Empty(t, rows)

	rows = e.Scan(ScanFilter{Limit: 2})
	require.Len(t, rows, 2)
	assert.Equal(t, "mid.example", rows[0].Domain)
}

func TestScan_UpstreamPseudoTargets(t *testing.T) {
	t.Cleanup(clock.Reset)
	e := newTestEngine(nil)
	seed(e, "blocked.example", "10.0.0.1", true)
	seed(e, "forwarded.example", "10.0.0.1", false)
	id := e.AddQuery(testNow.Add(-time.Minute), TypeA, "cached.example", "10.0.0.1", "")
	e.FinishQuery(id, StatusCache, "", "", ReplyIP, DNSSECUnspecified, 40*time.Microsecond)

	rows := e.Scan(ScanFilter{Upstream: UpstreamBlocklist})
	require.Len(t, rows, 1)
	assert.Equal(t, "blocked.example", rows[0].Domain)

	rows = e.Scan(ScanFilter{Upstream: UpstreamCache})
	require.Len(t, rows, 1)
	assert.Equal(t, "cached.example", rows[0].Domain)

	rows = e.Scan(ScanFilter{Upstream: "9.9.9.9"})
	require.Len(t, rows, 1)
	assert.Equal(t, "forwarded.example", rows[0].Domain)

	rows = e.Scan(ScanFilter{Upstream: "dns.quad9.net"})
	require.Len(t, rows, 1, "upstream filter resolves names too")
}

func TestScan_LatencyCeiling(t *testing.T) {
	t.Cleanup(clock.Reset)
	e := newTestEngine(nil)
	id := e.AddQuery(testNow.Add(-time.Minute), TypeA, "slow.example", "10.0.0.1", "")
	e.FinishQuery(id, StatusForwarded, "9.9.9.9", "", ReplyIP, DNSSECUnspecified, 20*time.Second)

	rows := e.Scan(ScanFilter{})
	require.Len(t, rows, 1)
	assert.Zero(t, rows[0].LatencyMicros, "implausible latency reads as not measured")
}

func TestScan_ShowFilters(t *testing.T) {
	t.Cleanup(clock.Reset)
	p := &stubPolicy{}
	e := newTestEngine(p)
	seed(e, "blocked.example", "10.0.0.1", true)
	seed(e, "permitted.example", "10.0.0.1", false)

	p.hideBlocked = true
	rows := e.Scan(ScanFilter{})
	require.Len(t, rows, 1)
	assert.Equal(t, "permitted.example", rows[0].Domain)

	p.hideBlocked = false
	p.hidePermit = true
	rows = e.Scan(ScanFilter{})
	require.Len(t, rows, 1)
	assert.Equal(t, "blocked.example", rows[0].Domain)

	p.hideBlocked = true
	assert.Empty(t, e.Scan(ScanFilter{}))
}

func TestScan_PrivacyPlaceholders(t *testing.T) {
	t.Cleanup(clock.Reset)
	p := &stubPolicy{level: PrivacyHideDomainsClients}
	e := newTestEngine(p)
	seed(e, "secret.example", "10.0.0.1", true)

	rows := e.Scan(ScanFilter{})
	require.Len(t, rows, 1)
	assert.Equal(t, HiddenDomain, rows[0].Domain)
	assert.Equal(t, HiddenClient, rows[0].Client)
}

func TestScan_MaximumPrivacy(t *testing.T) {
	t.Cleanup(clock.Reset)
	p := &stubPolicy{}
	e := newTestEngine(p)
	seed(e, "a.example", "10.0.0.1", false)

	p.level = PrivacyMaximum
	assert.Nil(t, e.Scan(ScanFilter{}))

	// Records written under maximum privacy stay dark after the level
	// drops again.
	seed(e, "b.example", "10.0.0.2", false)
	p.level = PrivacyShowAll
	rows := e.Scan(ScanFilter{})
	require.Len(t, rows, 1)
	assert.Equal(t, "a.example", rows[0].Domain)
}

func TestRecentBlocked(t *testing.T) {
	t.Cleanup(clock.Reset)
	e := newTestEngine(nil)
	seedAt(e, testNow.Add(-3*time.Hour), "first.example", "10.0.0.1", true)
	seedAt(e, testNow.Add(-2*time.Hour), "ok.example", "10.0.0.1", false)
	seedAt(e, testNow.Add(-time.Hour), "second.example", "10.0.0.1", true)

	assert.Equal(t, []string{"second.example"}, e.RecentBlocked(0))
	assert.Equal(t, []string{"second.example", "first.example"}, e.RecentBlocked(5))
}
