// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package stats

import "time"

// The time series covers the 24 h reporting window in 10 minute slots, with
// an extra hour of slack so the writer does not have to rotate on every
// boundary crossing.
const (
	// OverTimeSlots is the fixed length of the time series.
	OverTimeSlots = 150
	// OverTimeInterval is the width of one slot.
	OverTimeInterval = 600 * time.Second
)

// TimeSlot is one fixed-width aggregation bucket. Timestamp is the left
// edge. Slots are stored in strictly ascending timestamp order.
type TimeSlot struct {
	Timestamp int64 // unix seconds, left edge
	Total     int
	Blocked   int
}

// initOverTime anchors the series so that "now" falls 24 h in, leaving the
// last hour of slots for the near future.
func (e *Engine) initOverTime(now time.Time) {
	interval := int64(OverTimeInterval / time.Second)
	base := now.Unix() - now.Unix()%interval - (OverTimeSlots-6)*interval
	for i := range e.overTime {
		e.overTime[i] = TimeSlot{Timestamp: base + int64(i)*interval}
	}
}

// slotIndex maps a unix timestamp to its slot, rotating the series forward
// when ts has outrun the array. Returns -1 for timestamps older than the
// window. Writer side only; callers hold the write lock.
func (e *Engine) slotIndex(ts int64) int {
	interval := int64(OverTimeInterval / time.Second)
	idx := int((ts - e.overTime[0].Timestamp) / interval)
	if ts < e.overTime[0].Timestamp {
		return -1
	}
	for idx >= OverTimeSlots {
		e.rotateOverTime()
		idx = int((ts - e.overTime[0].Timestamp) / interval)
	}
	return idx
}

// rotateOverTime drops the oldest sixth of the series and appends fresh
// zeroed slots, shifting every per-client history in step so client vectors
// keep mirroring the slot array.
func (e *Engine) rotateOverTime() {
	const shift = OverTimeSlots / 6 // 25 slots
	interval := int64(OverTimeInterval / time.Second)

	copy(e.overTime[:], e.overTime[shift:])
	last := e.overTime[OverTimeSlots-shift-1].Timestamp
	for i := OverTimeSlots - shift; i < OverTimeSlots; i++ {
		last += interval
		e.overTime[i] = TimeSlot{Timestamp: last}
	}

	for _, c := range e.clients {
		copy(c.overTime[:], c.overTime[shift:])
		for i := OverTimeSlots - shift; i < OverTimeSlots; i++ {
			c.overTime[i] = 0
		}
	}
}
