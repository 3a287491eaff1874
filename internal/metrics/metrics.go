// Package metrics exposes the server's Prometheus instrumentation. The
// collector carries its own registry so several applications (one per
// worker) can coexist in one process without duplicate registration.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	reg *prometheus.Registry

	SupplyStops          prometheus.Gauge
	SupplyTrips          prometheus.Gauge
	ConstrainedBoardings prometheus.Gauge
	SupplyBuilds         prometheus.Counter

	Searches *prometheus.CounterVec // strategy label: deterministic|hyperpath
	NoPath   *prometheus.CounterVec

	SearchDuration prometheus.Histogram
	PathHops       prometheus.Histogram
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		SupplyStops: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pathfinder_supply_stops",
			Help: "Number of distinct stops in the current network supply.",
		}),
		SupplyTrips: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pathfinder_supply_trips",
			Help: "Number of trips in the current network supply.",
		}),
		ConstrainedBoardings: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pathfinder_constrained_boardings",
			Help: "Boardings limited by the current bump-wait overlay.",
		}),
		SupplyBuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pathfinder_supply_builds_total",
			Help: "Total successful network supply builds.",
		}),
		Searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pathfinder_searches_total",
			Help: "Total path searches run.",
		}, []string{"strategy"}),
		NoPath: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pathfinder_no_path_total",
			Help: "Searches that found no feasible path.",
		}, []string{"strategy"}),
		SearchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pathfinder_search_duration_seconds",
			Help:    "Duration of one path search.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16),
		}),
		PathHops: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pathfinder_path_hops",
			Help:    "Hop count of found paths.",
			Buckets: prometheus.LinearBuckets(1, 2, 12),
		}),
	}

	reg.MustRegister(
		c.SupplyStops, c.SupplyTrips, c.ConstrainedBoardings, c.SupplyBuilds,
		c.Searches, c.NoPath,
		c.SearchDuration, c.PathHops,
	)
	return c
}

// ObserveSearch records one completed search.
func (c *Collector) ObserveSearch(strategy string, hops int, found bool, d time.Duration) {
	c.Searches.WithLabelValues(strategy).Inc()
	if !found {
		c.NoPath.WithLabelValues(strategy).Inc()
	} else {
		c.PathHops.Observe(float64(hops))
	}
	c.SearchDuration.Observe(d.Seconds())
}

// Handler serves the collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}
