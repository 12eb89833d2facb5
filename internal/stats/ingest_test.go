// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/sinkhole/internal/clock"
)

func TestFinishHook_ForwardedQuery(t *testing.T) {
	t.Cleanup(clock.Reset)
	e := newTestEngine(nil)

	var got []FinishedQuery
	e.SetFinishHook(func(q FinishedQuery) { got = append(got, q) })

	id := e.AddQuery(testNow.Add(-time.Minute), TypeAAAA, "ok.example", "192.0.2.10", "laptop.lan")
	e.FinishQuery(id, StatusForwarded, "9.9.9.9", "dns.quad9.net", ReplyIP, DNSSECSecure, 8*time.Millisecond)

	require.Len(t, got, 1)
	q := got[0]
	assert.Equal(t, testNow.Add(-time.Minute).Unix(), q.Timestamp)
	assert.Equal(t, TypeAAAA, q.Type)
	assert.Equal(t, "ok.example", q.Domain)
	assert.Equal(t, "laptop.lan", q.Client)
	assert.Equal(t, StatusForwarded, q.Status)
	assert.Equal(t, ReplyIP, q.Reply)
	assert.Equal(t, "dns.quad9.net", q.Upstream)
	assert.Equal(t, int64(8000), q.LatencyMicros)
}

func TestFinishHook_PseudoTargets(t *testing.T) {
	t.Cleanup(clock.Reset)
	e := newTestEngine(nil)

	var got []FinishedQuery
	e.SetFinishHook(func(q FinishedQuery) { got = append(got, q) })

	id := e.AddQuery(testNow.Add(-time.Minute), TypeA, "ads.example", "192.0.2.10", "")
	e.FinishQuery(id, StatusGravity, "", "", ReplyNXDOMAIN, DNSSECUnspecified, time.Microsecond)

	id = e.AddQuery(testNow.Add(-time.Minute), TypeA, "ok.example", "192.0.2.10", "")
	e.FinishQuery(id, StatusCache, "", "", ReplyIP, DNSSECUnspecified, time.Microsecond)

	require.Len(t, got, 2)
	assert.Equal(t, UpstreamBlocklist, got[0].Upstream)
	assert.Equal(t, UpstreamCache, got[1].Upstream)
}

// A record created under an anonymizing level hands the placeholder to the
// hook, never the real identity.
func TestFinishHook_HonorsRecordPrivacy(t *testing.T) {
	t.Cleanup(clock.Reset)
	e := newTestEngine(&stubPolicy{level: PrivacyHideDomainsClients})

	var got []FinishedQuery
	e.SetFinishHook(func(q FinishedQuery) { got = append(got, q) })

	seed(e, "secret.example", "192.0.2.77", false)

	require.Len(t, got, 1)
	assert.Equal(t, HiddenDomain, got[0].Domain)
	assert.Equal(t, HiddenClient, got[0].Client)
}
