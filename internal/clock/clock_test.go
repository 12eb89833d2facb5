// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package clock

import (
	"testing"
	"time"
)

func TestSetFixed(t *testing.T) {
	defer Reset()

	pinned := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	SetFixed(pinned)

	if got := Now(); !got.Equal(pinned) {
		t.Errorf("Now() = %v, want %v", got, pinned)
	}
	// Stays pinned across calls
	time.Sleep(5 * time.Millisecond)
	if got := Now(); !got.Equal(pinned) {
		t.Errorf("Now() after sleep = %v, want %v", got, pinned)
	}
}

func TestReset(t *testing.T) {
	SetFixed(time.Unix(0, 0))
	Reset()

	if Now().Before(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("Reset should restore the real clock")
	}
}
