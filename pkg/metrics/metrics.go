// Package metrics exposes lookup and cache counters for prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Lookup outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeFallback = "fallback"
	OutcomeError    = "error"
)

// Collector holds the application metrics on a private registry.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry       *prometheus.Registry
	cacheRequests  *prometheus.CounterVec
	lookups        *prometheus.CounterVec
	lookupDuration *prometheus.HistogramVec
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		cacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "domain_lookup_cache_requests_total",
			Help: "Result cache lookups by result (hit or miss).",
		}, []string{"result"}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "domain_lookups_total",
			Help: "Domain lookups by source and outcome.",
		}, []string{"source", "outcome"}),
		lookupDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "domain_lookup_duration_seconds",
			Help:    "Time spent on uncached domain lookups.",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),
	}
	c.registry.MustRegister(
		c.cacheRequests,
		c.lookups,
		c.lookupDuration,
		collectors.NewGoCollector(),
	)
	return c
}

func (c *Collector) CacheHit() {
	if c == nil {
		return
	}
	c.cacheRequests.WithLabelValues("hit").Inc()
}

func (c *Collector) CacheMiss() {
	if c == nil {
		return
	}
	c.cacheRequests.WithLabelValues("miss").Inc()
}

// ObserveLookup records one finished lookup.
func (c *Collector) ObserveLookup(source, outcome string, took time.Duration) {
	if c == nil {
		return
	}
	c.lookups.WithLabelValues(source, outcome).Inc()
	c.lookupDuration.WithLabelValues(source).Observe(took.Seconds())
}

// Handler serves the registry in the prometheus text format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry is exposed for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
