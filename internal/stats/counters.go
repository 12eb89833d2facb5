// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package stats

// Counters is the process-wide aggregate state. One instance lives inside
// the engine; it is initialized at process start and never reset mid-run.
type Counters struct {
	Queries   int
	Blocked   int
	Forwarded int
	Cached    int

	// Gravity is the size of the external blocking list, reported by the
	// list store. Not derived from the event log.
	Gravity int

	QueryType [typeMax]int

	ReplyNODATA   int
	ReplyNXDOMAIN int
	ReplyCNAME    int
	ReplyIP       int
}

func (c *Counters) countReply(r ReplyType) {
	switch r {
	case ReplyNODATA:
		c.ReplyNODATA++
	case ReplyNXDOMAIN:
		c.ReplyNXDOMAIN++
	case ReplyCNAME:
		c.ReplyCNAME++
	case ReplyIP:
		c.ReplyIP++
	}
}
