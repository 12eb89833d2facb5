// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package stats

// QueryType is the compact resolved-type tag stored per query. Only the
// small set the reporting surface cares about is distinguished; everything
// else collapses to TypeUnknown.
type QueryType uint8

const (
	TypeUnknown QueryType = iota
	TypeA
	TypeAAAA
	TypeANY
	TypeSRV
	TypeSOA
	TypePTR
	TypeTXT
	typeMax
)

var queryTypeNames = [typeMax]string{"UNKN", "A", "AAAA", "ANY", "SRV", "SOA", "PTR", "TXT"}

func (t QueryType) String() string {
	if t >= typeMax {
		return "INVALID"
	}
	return queryTypeNames[t]
}

// Valid reports whether t is a recognized type tag. Scans skip records
// carrying an unrecognized tag.
func (t QueryType) Valid() bool { return t < typeMax }

// QueryStatus describes how a query was answered.
type QueryStatus uint8

const (
	StatusUnknown   QueryStatus = iota
	StatusGravity               // blocked by the gravity list
	StatusForwarded             // sent to an upstream resolver
	StatusCache                 // answered from the local cache
	StatusRegex                 // blocked by a regex/wildcard rule
	StatusDenylist              // blocked by the exact denylist
	StatusExternal              // blocked upstream (external sinkhole)
)

// Blocked reports whether the status is one of the four blocking outcomes.
func (s QueryStatus) Blocked() bool {
	switch s {
	case StatusGravity, StatusRegex, StatusDenylist, StatusExternal:
		return true
	}
	return false
}

// Permitted reports whether the status is one of the two answering outcomes.
func (s QueryStatus) Permitted() bool {
	return s == StatusForwarded || s == StatusCache
}

func (s QueryStatus) String() string {
	switch s {
	case StatusGravity:
		return "gravity"
	case StatusForwarded:
		return "forwarded"
	case StatusCache:
		return "cached"
	case StatusRegex:
		return "regex"
	case StatusDenylist:
		return "denylist"
	case StatusExternal:
		return "external"
	default:
		return "unknown"
	}
}

// ReplyType describes the terminal answer class of a query.
type ReplyType uint8

const (
	ReplyUnknown ReplyType = iota
	ReplyNODATA
	ReplyNXDOMAIN
	ReplyCNAME
	ReplyIP
)

func (r ReplyType) String() string {
	switch r {
	case ReplyNODATA:
		return "NODATA"
	case ReplyNXDOMAIN:
		return "NXDOMAIN"
	case ReplyCNAME:
		return "CNAME"
	case ReplyIP:
		return "IP"
	default:
		return "UNKNOWN"
	}
}

// DNSSECStatus is the validation state reported per query.
type DNSSECStatus uint8

const (
	DNSSECUnspecified DNSSECStatus = iota
	DNSSECSecure
	DNSSECInsecure
	DNSSECBogus
)

// PrivacyLevel is the ordered disclosure policy. Higher levels hide more.
type PrivacyLevel int

const (
	// PrivacyShowAll discloses everything.
	PrivacyShowAll PrivacyLevel = iota
	// PrivacyHideDomains anonymizes domains in recorded queries and views.
	PrivacyHideDomains
	// PrivacyHideDomainsClients additionally anonymizes clients.
	PrivacyHideDomainsClients
	// PrivacyMaximum suppresses per-query detail entirely.
	PrivacyMaximum
)

// Placeholder strings substituted for anonymized entities. The ranking
// engine treats entities carrying these display values as non-disclosable.
const (
	HiddenDomain = "hidden"
	HiddenClient = "0.0.0.0"
)

// maxLatencyMicros is the sanity ceiling for reported resolution latency
// (18 s). A value above it means the response never arrived before the
// reader observed the record; such values are reported as zero.
const maxLatencyMicros = 18_000_000
