// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package stats

// Query is one record of the append-only event log. The identifying fields
// are fixed at append time; the terminal fields (Status, Reply, DNSSEC,
// LatencyMicros, UpstreamID) arrive later from the resolver pipeline, so a
// reader may observe them in either state within one call.
type Query struct {
	Timestamp int64 // unix seconds
	Type      QueryType
	Status    QueryStatus
	DomainID  int
	ClientID  int
	// UpstreamID is -1 while unset and for queries answered from cache or
	// a blocklist.
	UpstreamID int

	// Privacy is the disclosure level in force when the query was
	// recorded. Readers honor it even if the live level has since been
	// lowered; anonymity is never retroactively undone.
	Privacy PrivacyLevel

	DNSSEC DNSSECStatus
	Reply  ReplyType

	LatencyMicros int64
}
