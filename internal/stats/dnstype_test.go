// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package stats

import (
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
)

func TestTypeFromWire(t *testing.T) {
	assert.Equal(t, TypeA, TypeFromWire(dns.TypeA))
	assert.Equal(t, TypeAAAA, TypeFromWire(dns.TypeAAAA))
	assert.Equal(t, TypePTR, TypeFromWire(dns.TypePTR))
	assert.Equal(t, TypeUnknown, TypeFromWire(dns.TypeMX), "untracked types collapse to UNKN")
	assert.Equal(t, TypeUnknown, TypeFromWire(dns.TypeHTTPS))
}

func TestTypeFromString(t *testing.T) {
	assert.Equal(t, TypeAAAA, TypeFromString("AAAA"))
	assert.Equal(t, TypeTXT, TypeFromString("TXT"))
	assert.Equal(t, TypeUnknown, TypeFromString("MX"))
	assert.Equal(t, TypeUnknown, TypeFromString(""))
	assert.Equal(t, TypeUnknown, TypeFromString("a"), "matching is case sensitive")
}

func TestTypeRoundTrip(t *testing.T) {
	for qt := TypeA; qt < typeMax; qt++ {
		assert.Equal(t, qt, TypeFromString(qt.String()))
	}
}
