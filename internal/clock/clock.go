// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package clock provides the process clock. All time reads in the engine go
// through Now so tests can pin the clock to a fixed instant.
package clock

import (
	"sync/atomic"
	"time"
)

// nowFunc is swapped atomically so concurrent readers never see a torn value.
var nowFunc atomic.Pointer[func() time.Time]

func init() {
	real := time.Now
	nowFunc.Store(&real)
}

// Now returns the current time according to the active clock source.
func Now() time.Time {
	return (*nowFunc.Load())()
}

// SetFixed pins the clock to t until Reset is called. Test use only.
func SetFixed(t time.Time) {
	fixed := func() time.Time { return t }
	nowFunc.Store(&fixed)
}

// Set replaces the clock source entirely. Test use only.
func Set(f func() time.Time) {
	nowFunc.Store(&f)
}

// Reset restores the real system clock.
func Reset() {
	real := time.Now
	nowFunc.Store(&real)
}
