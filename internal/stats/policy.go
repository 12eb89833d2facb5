// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package stats

// Gate is the disclosure policy snapshot taken at the start of one serving
// call. The privacy level and exclusion lists are externally mutable at any
// time, so a gate is built fresh per call and never cached across calls.
type Gate struct {
	Privacy PrivacyLevel

	excludedDomains map[string]struct{}
	excludedClients map[string]struct{}

	ShowPermitted bool
	ShowBlocked   bool
}

// gate snapshots the current policy.
func (e *Engine) gate() *Gate {
	g := &Gate{Privacy: PrivacyShowAll, ShowPermitted: true, ShowBlocked: true}
	if e.policy == nil {
		return g
	}
	g.Privacy = e.policy.PrivacyLevel()
	g.ShowPermitted, g.ShowBlocked = e.policy.QueryDisplay()
	g.excludedDomains = toSet(e.policy.ExcludedDomains())
	g.excludedClients = toSet(e.policy.ExcludedClients())
	return g
}

// auditSet snapshots the audit allow-list. Only domain rankings in audit
// mode consult it.
func (e *Engine) auditSet() map[string]struct{} {
	if e.audit == nil {
		return nil
	}
	return toSet(e.audit.AuditDomains())
}

func toSet(items []string) map[string]struct{} {
	if len(items) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return set
}

// DisclosesDomains reports whether domain identities may leave the process.
func (g *Gate) DisclosesDomains() bool { return g.Privacy < PrivacyHideDomains }

// DisclosesClients reports whether client identities may leave the process.
func (g *Gate) DisclosesClients() bool { return g.Privacy < PrivacyHideDomainsClients }

// ExcludesDomain reports whether the operator has excluded this domain from
// all views. Membership is an exact match on the display string.
func (g *Gate) ExcludesDomain(name string) bool {
	_, ok := g.excludedDomains[name]
	return ok
}

// ExcludesClient reports whether the operator has excluded this client,
// matching either its IP or its host name.
func (g *Gate) ExcludesClient(ip, name string) bool {
	if _, ok := g.excludedClients[ip]; ok {
		return true
	}
	if name == "" {
		return false
	}
	_, ok := g.excludedClients[name]
	return ok
}

// Substitution of the privacy placeholders happens in exactly one place for
// each entity kind so the disclosure invariant holds by construction: every
// emitted row passes through these two functions between entity lookup and
// result emission.

// domainDisplay returns the domain name to emit for a query recorded at
// level p.
func domainDisplay(p PrivacyLevel, d *Domain) string {
	if p >= PrivacyHideDomains {
		return HiddenDomain
	}
	return d.Name
}

// clientDisplay returns the client identity to emit for a query recorded at
// level p.
func clientDisplay(p PrivacyLevel, c *Client) string {
	if p >= PrivacyHideDomainsClients {
		return HiddenClient
	}
	return c.Display()
}
