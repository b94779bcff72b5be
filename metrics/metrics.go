// Package metrics exposes Prometheus counters and gauges for the dish
// engine: step throughput, rule application outcomes, and cache size, so
// a host process can scrape /metrics without the core knowing anything
// about HTTP.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds every dish metric. Construct with New or NewWithRegistry;
// the zero value is not usable.
type Collector struct {
	stepsTotal        *prometheus.CounterVec
	applicationsTotal *prometheus.CounterVec
	cacheEntries      prometheus.Gauge
	cacheAnchors      prometheus.Gauge
	cacheRebuilds     prometheus.Counter
	cacheUpdates      prometheus.Counter

	httpHandler http.Handler
}

// New creates a Collector registered against the default Prometheus
// registry.
func New(namespace string) *Collector {
	return NewWithRegistry(namespace, prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a Collector registered against registerer,
// mirroring the reference render service's metrics collector shape so a
// host embedding multiple collectors can keep them isolated.
func NewWithRegistry(namespace string, registerer prometheus.Registerer) *Collector {
	c := &Collector{}

	c.stepsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "steps_total",
		Help:      "Total step_* calls by sampling mode",
	}, []string{"mode"}) // mode: cached, sampled

	c.applicationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "rule_applications_total",
		Help:      "Total rule application attempts by rule and outcome",
	}, []string{"rule", "outcome"}) // outcome: applied, failrate_dropped

	c.cacheEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "entries",
		Help:      "Current number of (rule, variant) cache entries",
	})

	c.cacheAnchors = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "anchors",
		Help:      "Current total number of cached match anchors across all entries",
	})

	c.cacheRebuilds = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "rebuilds_total",
		Help:      "Total full cache rebuilds",
	})

	c.cacheUpdates = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "incremental_updates_total",
		Help:      "Total incremental cache updates",
	})

	registerer.MustRegister(
		c.stepsTotal,
		c.applicationsTotal,
		c.cacheEntries,
		c.cacheAnchors,
		c.cacheRebuilds,
		c.cacheUpdates,
	)

	gatherer, ok := registerer.(prometheus.Gatherer)
	if !ok {
		gatherer = prometheus.DefaultGatherer
	}
	c.httpHandler = promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})

	return c
}

// RecordStep records one step_cached or step_sampled call.
func (c *Collector) RecordStep(mode string) {
	c.stepsTotal.WithLabelValues(mode).Inc()
}

// RecordApplication records one apply() outcome for a named rule.
func (c *Collector) RecordApplication(ruleName string, applied bool) {
	outcome := "failrate_dropped"
	if applied {
		outcome = "applied"
	}
	c.applicationsTotal.WithLabelValues(ruleName, outcome).Inc()
}

// ObserveCache records the cache's current size: the number of entries and
// the total number of anchors summed across them.
func (c *Collector) ObserveCache(entries, anchors int) {
	c.cacheEntries.Set(float64(entries))
	c.cacheAnchors.Set(float64(anchors))
}

// RecordRebuild records one full Cache.Rebuild call.
func (c *Collector) RecordRebuild() {
	c.cacheRebuilds.Inc()
}

// RecordIncrementalUpdate records one Cache.Update call.
func (c *Collector) RecordIncrementalUpdate() {
	c.cacheUpdates.Inc()
}

// Handler returns the http.Handler serving this collector's metrics in the
// Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return c.httpHandler
}
