// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package stats

import "github.com/miekg/dns"

// TypeFromWire maps a DNS wire query type to the engine's compact tag.
// Everything outside the tracked set collapses to TypeUnknown; those
// queries still count toward the totals but carry the UNKN label.
func TypeFromWire(qtype uint16) QueryType {
	switch qtype {
	case dns.TypeA:
		return TypeA
	case dns.TypeAAAA:
		return TypeAAAA
	case dns.TypeANY:
		return TypeANY
	case dns.TypeSRV:
		return TypeSRV
	case dns.TypeSOA:
		return TypeSOA
	case dns.TypePTR:
		return TypePTR
	case dns.TypeTXT:
		return TypeTXT
	default:
		return TypeUnknown
	}
}

// TypeFromString parses the display form ("A", "AAAA", ...) back to the
// compact tag, for the scan filter surface. Unrecognized strings map to
// TypeUnknown, which the filter treats as "any".
func TypeFromString(s string) QueryType {
	for t := TypeA; t < typeMax; t++ {
		if queryTypeNames[t] == s {
			return t
		}
	}
	return TypeUnknown
}
