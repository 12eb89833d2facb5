// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package stats

import (
	"time"

	"grimm.is/sinkhole/internal/clock"
)

// stubPolicy is a PolicySource with fixed answers.
type stubPolicy struct {
	level        PrivacyLevel
	exclDomains  []string
	exclClients  []string
	hidePermit   bool
	hideBlocked  bool
	auditDomains []string
}

func (p *stubPolicy) PrivacyLevel() PrivacyLevel    { return p.level }
func (p *stubPolicy) ExcludedDomains() []string     { return p.exclDomains }
func (p *stubPolicy) ExcludedClients() []string     { return p.exclClients }
func (p *stubPolicy) QueryDisplay() (bool, bool)    { return !p.hidePermit, !p.hideBlocked }
func (p *stubPolicy) AuditDomains() []string        { return p.auditDomains }

// testNow is the pinned instant all engine tests run at.
var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine(p *stubPolicy) *Engine {
	clock.SetFixed(testNow)
	if p == nil {
		p = &stubPolicy{}
	}
	return New(p, p)
}

// seed appends one finished query. blocked selects gravity vs forwarded.
func seed(e *Engine, domain, clientIP string, blocked bool) int {
	return seedAt(e, testNow.Add(-time.Hour), domain, clientIP, blocked)
}

func seedAt(e *Engine, ts time.Time, domain, clientIP string, blocked bool) int {
	id := e.AddQuery(ts, TypeA, domain, clientIP, "")
	if blocked {
		e.FinishQuery(id, StatusGravity, "", "", ReplyNXDOMAIN, DNSSECUnspecified, 120*time.Microsecond)
	} else {
		e.FinishQuery(id, StatusForwarded, "9.9.9.9", "dns.quad9.net", ReplyIP, DNSSECSecure, 12*time.Millisecond)
	}
	return id
}
