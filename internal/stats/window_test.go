// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/sinkhole/internal/clock"
)

func TestActiveWindow_AllZero(t *testing.T) {
	t.Cleanup(clock.Reset)
	e := newTestEngine(nil)

	w := e.ActiveWindow()
	assert.True(t, w.Empty())
	assert.Equal(t, Window{}, w)
	assert.Empty(t, e.OverTimeHistory())
}

func TestActiveWindow_SingleSlot(t *testing.T) {
	t.Cleanup(clock.Reset)
	e := newTestEngine(nil)

	// One query three hours back lands in exactly one slot k.
	ts := testNow.Add(-3 * time.Hour)
	seedAt(e, ts, "a.example", "10.0.0.1", false)

	w := e.ActiveWindow()
	require.False(t, w.Empty())

	// The window opens at the query's slot and runs through now.
	hist := e.OverTimeHistory()
	require.NotEmpty(t, hist)
	left := hist[0].Timestamp
	assert.LessOrEqual(t, left, ts.Unix())
	assert.Greater(t, left+int64(OverTimeInterval/time.Second), ts.Unix())
	assert.Equal(t, 1, hist[0].Total)
	assert.Equal(t, 0, hist[0].Blocked)
	for _, p := range hist[1:] {
		assert.Zero(t, p.Total)
	}
}

func TestActiveWindow_EndsAtNow(t *testing.T) {
	t.Cleanup(clock.Reset)
	e := newTestEngine(nil)

	seedAt(e, testNow.Add(-2*time.Hour), "a.example", "10.0.0.1", true)
	seedAt(e, testNow.Add(-30*time.Minute), "b.example", "10.0.0.1", false)

	w := e.ActiveWindow()
	require.False(t, w.Empty())
	for i := w.From; i < w.Until; i++ {
		// No emitted slot may start at or after the current time.
		assert.Less(t, e.view().overTime[i].Timestamp, testNow.Unix())
	}

	hist := e.OverTimeHistory()
	total, blocked := 0, 0
	for _, p := range hist {
		total += p.Total
		blocked += p.Blocked
	}
	assert.Equal(t, 2, total)
	assert.Equal(t, 1, blocked)
}

func TestOverTimeClients(t *testing.T) {
	t.Cleanup(clock.Reset)
	e := newTestEngine(nil)
	seedAt(e, testNow.Add(-time.Hour), "a.example", "10.0.0.1", false)
	seedAt(e, testNow.Add(-time.Hour), "b.example", "10.0.0.2", true)

	points, refs := e.OverTimeClients()
	require.Len(t, refs, 2)
	require.NotEmpty(t, points)
	for _, p := range points {
		assert.Len(t, p.Counts, 2, "one column per disclosed client")
	}

	// Column sums mirror per-client activity.
	sums := make([]int, 2)
	for _, p := range points {
		for i, c := range p.Counts {
			sums[i] += c
		}
	}
	assert.Equal(t, []int{1, 1}, sums)
}

func TestOverTimeClients_PrivacyShortCircuit(t *testing.T) {
	t.Cleanup(clock.Reset)
	e := newTestEngine(&stubPolicy{level: PrivacyHideDomainsClients})
	seedAt(e, testNow.Add(-time.Hour), "a.example", "10.0.0.1", false)

	points, refs := e.OverTimeClients()
	assert.Nil(t, points)
	assert.Nil(t, refs)
}

func TestOverTimeClients_ExcludedColumnOmitted(t *testing.T) {
	t.Cleanup(clock.Reset)
	e := newTestEngine(&stubPolicy{exclClients: []string{"10.0.0.2"}})
	seedAt(e, testNow.Add(-time.Hour), "a.example", "10.0.0.1", false)
	seedAt(e, testNow.Add(-time.Hour), "b.example", "10.0.0.2", false)

	points, refs := e.OverTimeClients()
	require.Len(t, refs, 1)
	assert.Equal(t, "10.0.0.1", refs[0].IP)
	for _, p := range points {
		assert.Len(t, p.Counts, 1)
	}
}
