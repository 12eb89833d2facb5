// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package metrics exposes the engine's aggregate counters to Prometheus.
// The engine already maintains its own counters, so this is a read-on-scrape
// collector rather than a second set of instrumented counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"grimm.is/sinkhole/internal/stats"
)

// EngineCollector adapts the statistics engine to the Prometheus scrape
// model.
type EngineCollector struct {
	engine *stats.Engine

	queries     *prometheus.Desc
	blocked     *prometheus.Desc
	forwarded   *prometheus.Desc
	cached      *prometheus.Desc
	domains     *prometheus.Desc
	clients     *prometheus.Desc
	activeCli   *prometheus.Desc
	gravity     *prometheus.Desc
	blocking    *prometheus.Desc
	queriesType *prometheus.Desc
}

// NewEngineCollector creates a collector reading from e on every scrape.
func NewEngineCollector(e *stats.Engine) *EngineCollector {
	return &EngineCollector{
		engine: e,
		queries: prometheus.NewDesc("sinkhole_queries_total",
			"Total number of DNS queries recorded", nil, nil),
		blocked: prometheus.NewDesc("sinkhole_queries_blocked_total",
			"Total number of blocked queries", nil, nil),
		forwarded: prometheus.NewDesc("sinkhole_queries_forwarded_total",
			"Total number of queries forwarded upstream", nil, nil),
		cached: prometheus.NewDesc("sinkhole_queries_cached_total",
			"Total number of queries answered from cache", nil, nil),
		domains: prometheus.NewDesc("sinkhole_unique_domains",
			"Number of distinct domains seen", nil, nil),
		clients: prometheus.NewDesc("sinkhole_clients_total",
			"Number of distinct clients seen", nil, nil),
		activeCli: prometheus.NewDesc("sinkhole_clients_active",
			"Number of clients with at least one query", nil, nil),
		gravity: prometheus.NewDesc("sinkhole_gravity_domains",
			"Number of domains on the bulk blocklist", nil, nil),
		blocking: prometheus.NewDesc("sinkhole_blocking_enabled",
			"Whether blocking is currently enabled (1/0)", nil, nil),
		queriesType: prometheus.NewDesc("sinkhole_queries_by_type_total",
			"Total number of queries by DNS query type", []string{"type"}, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *EngineCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.queries
	ch <- c.blocked
	ch <- c.forwarded
	ch <- c.cached
	ch <- c.domains
	ch <- c.clients
	ch <- c.activeCli
	ch <- c.gravity
	ch <- c.blocking
	ch <- c.queriesType
}

// Collect implements prometheus.Collector.
func (c *EngineCollector) Collect(ch chan<- prometheus.Metric) {
	sum := c.engine.Summarize()

	ch <- prometheus.MustNewConstMetric(c.queries, prometheus.CounterValue, float64(sum.TotalQueries))
	ch <- prometheus.MustNewConstMetric(c.blocked, prometheus.CounterValue, float64(sum.BlockedQueries))
	ch <- prometheus.MustNewConstMetric(c.forwarded, prometheus.CounterValue, float64(sum.ForwardedQueries))
	ch <- prometheus.MustNewConstMetric(c.cached, prometheus.CounterValue, float64(sum.CachedQueries))
	ch <- prometheus.MustNewConstMetric(c.domains, prometheus.GaugeValue, float64(sum.UniqueDomains))
	ch <- prometheus.MustNewConstMetric(c.clients, prometheus.GaugeValue, float64(sum.TotalClients))
	ch <- prometheus.MustNewConstMetric(c.activeCli, prometheus.GaugeValue, float64(sum.ActiveClients))
	ch <- prometheus.MustNewConstMetric(c.gravity, prometheus.GaugeValue, float64(sum.GravitySize))

	enabled := 0.0
	if c.engine.Blocking() {
		enabled = 1.0
	}
	ch <- prometheus.MustNewConstMetric(c.blocking, prometheus.GaugeValue, enabled)

	for _, tc := range c.engine.QueryTypeCounts() {
		ch <- prometheus.MustNewConstMetric(c.queriesType, prometheus.CounterValue, float64(tc.Count), tc.Name)
	}
}

// NewRegistry builds the registry served at /metrics: the engine collector
// alone, so a scrape discloses nothing the summary endpoint does not.
func NewRegistry(e *stats.Engine) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(NewEngineCollector(e))
	return reg
}
