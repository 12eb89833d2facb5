// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package stats

// Window is the inclusive-exclusive slot range holding live data.
type Window struct {
	From  int
	Until int
}

// Empty reports whether the window holds no slots.
func (w Window) Empty() bool { return w.From >= w.Until }

// activeWindow locates the data range inside the slot array: the first slot
// with any counts (whose timestamp is not before slot 0, guarding against a
// series that is still initializing) through the first slot at or past
// "now". An all-zero series yields the empty window (0,0); callers emit an
// empty sequence, not an error.
func (s snapshot) activeWindow() Window {
	from, found := 0, false
	for i := range s.overTime {
		slot := &s.overTime[i]
		if (slot.Total > 0 || slot.Blocked > 0) && slot.Timestamp >= s.overTime[0].Timestamp {
			from = i
			found = true
			break
		}
	}
	if !found {
		return Window{}
	}
	until := OverTimeSlots
	for i := range s.overTime {
		if s.overTime[i].Timestamp >= s.now.Unix() {
			until = i
			break
		}
	}
	return Window{From: from, Until: until}
}

// ActiveWindow reports the live slot range of the current series.
func (e *Engine) ActiveWindow() Window {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.view().activeWindow()
}

// SlotPoint is one emitted time-series bucket.
type SlotPoint struct {
	Timestamp int64 `json:"timestamp"`
	Total     int   `json:"total_queries"`
	Blocked   int   `json:"blocked_queries"`
}

// OverTimeHistory emits the aggregate series over the active window.
func (e *Engine) OverTimeHistory() []SlotPoint {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s := e.view()
	w := s.activeWindow()
	out := []SlotPoint{}
	for i := w.From; i < w.Until; i++ {
		slot := &s.overTime[i]
		out = append(out, SlotPoint{Timestamp: slot.Timestamp, Total: slot.Total, Blocked: slot.Blocked})
	}
	return out
}

// ClientRef identifies one column of the per-client series.
type ClientRef struct {
	Name string `json:"name"`
	IP   string `json:"ip"`
}

// ClientSlotPoint is one emitted per-client time-series bucket; Counts is
// ordered like the accompanying ClientRef list.
type ClientSlotPoint struct {
	Timestamp int64 `json:"timestamp"`
	Counts    []int `json:"data"`
}

// OverTimeClients emits the per-client breakdown of the active window. The
// policy gate is consulted once per call: when client disclosure is off the
// result is empty before any slot is scanned. Excluded clients are omitted
// from both the columns and the counts.
func (e *Engine) OverTimeClients() ([]ClientSlotPoint, []ClientRef) {
	g := e.gate()
	if !g.DisclosesClients() {
		return nil, nil
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	s := e.view()
	w := s.activeWindow()

	skip := make([]bool, len(s.clients))
	for id, c := range s.clients {
		skip[id] = g.ExcludesClient(c.IP, c.Name) || c.IP == HiddenClient
	}

	points := []ClientSlotPoint{}
	for i := w.From; i < w.Until; i++ {
		counts := make([]int, 0, len(s.clients))
		for id, c := range s.clients {
			if skip[id] {
				continue
			}
			counts = append(counts, c.overTime[i])
		}
		points = append(points, ClientSlotPoint{Timestamp: s.overTime[i].Timestamp, Counts: counts})
	}

	refs := []ClientRef{}
	for id, c := range s.clients {
		if skip[id] {
			continue
		}
		refs = append(refs, ClientRef{Name: c.Name, IP: c.IP})
	}
	return points, refs
}
