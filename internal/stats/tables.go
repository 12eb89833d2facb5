// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package stats

import "fmt"

// Domain is the aggregate counter row for one distinct queried name.
// Invariant: BlockedCount <= Count.
type Domain struct {
	Name         string
	Count        int
	BlockedCount int
}

// Client is the aggregate counter row for one distinct client. The overTime
// vector mirrors the engine's time series slot for slot.
type Client struct {
	IP           string
	Name         string
	Count        int
	BlockedCount int

	overTime [OverTimeSlots]int
}

// Display returns the client's host name when known, its IP otherwise.
func (c *Client) Display() string {
	if c.Name != "" {
		return c.Name
	}
	return c.IP
}

// Upstream is the aggregate counter row for one forward destination.
type Upstream struct {
	IP    string
	Name  string
	Count int
}

// Display returns the upstream's host name when known, its IP otherwise.
func (u *Upstream) Display() string {
	if u.Name != "" {
		return u.Name
	}
	return u.IP
}

// Identifiers are dense, assigned at first sight and never reused, so index
// i names the same logical entity for the lifetime of the process. An index
// outside the snapshot bound is a programming fault (a stale index carried
// across a call boundary), not caller input, and is never clamped.

func (s snapshot) domain(id int) *Domain {
	if id < 0 || id >= len(s.domains) {
		panic(fmt.Sprintf("stats: domain id %d outside snapshot bound %d", id, len(s.domains)))
	}
	return s.domains[id]
}

func (s snapshot) client(id int) *Client {
	if id < 0 || id >= len(s.clients) {
		panic(fmt.Sprintf("stats: client id %d outside snapshot bound %d", id, len(s.clients)))
	}
	return s.clients[id]
}

func (s snapshot) upstream(id int) *Upstream {
	if id < 0 || id >= len(s.upstreams) {
		panic(fmt.Sprintf("stats: upstream id %d outside snapshot bound %d", id, len(s.upstreams)))
	}
	return s.upstreams[id]
}

// domainID returns the identifier for name, creating the row when create is
// set. Writer side only; callers hold the write lock.
func (e *Engine) domainID(name string, create bool) int {
	if id, ok := e.domainIDs[name]; ok {
		return id
	}
	if !create {
		return -1
	}
	id := len(e.domains)
	e.domains = append(e.domains, &Domain{Name: name})
	e.domainIDs[name] = id
	return id
}

func (e *Engine) clientID(ip, name string, create bool) int {
	if id, ok := e.clientIDs[ip]; ok {
		c := e.clients[id]
		if c.Name == "" && name != "" {
			c.Name = name
		}
		return id
	}
	if !create {
		return -1
	}
	id := len(e.clients)
	e.clients = append(e.clients, &Client{IP: ip, Name: name})
	e.clientIDs[ip] = id
	return id
}

func (e *Engine) upstreamID(ip, name string, create bool) int {
	if id, ok := e.upstreamIDs[ip]; ok {
		u := e.upstreams[id]
		if u.Name == "" && name != "" {
			u.Name = name
		}
		return id
	}
	if !create {
		return -1
	}
	id := len(e.upstreams)
	e.upstreams = append(e.upstreams, &Upstream{IP: ip, Name: name})
	e.upstreamIDs[ip] = id
	return id
}
