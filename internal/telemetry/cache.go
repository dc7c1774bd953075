package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ryandielhenn/gossipcache/pkg/mcache"
)

const subsystemCache = "mcache"

// CacheCollector records message cache events as prometheus metrics.
type CacheCollector struct {
	puts         *prometheus.CounterVec
	peerRequests *prometheus.CounterVec
	evictions    prometheus.Counter
	shifts       prometheus.Counter
	messages     prometheus.Gauge
}

var _ mcache.Metrics = (*CacheCollector)(nil)

// NewCacheCollector creates the cache metrics and registers them with reg.
func NewCacheCollector(reg prometheus.Registerer) *CacheCollector {
	c := &CacheCollector{
		puts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemCache,
			Name:      "puts_total",
			Help:      "Messages offered to the cache, by outcome.",
		}, []string{"result"}),
		peerRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemCache,
			Name:      "peer_requests_total",
			Help:      "Per-peer message lookups, by whether the id was cached.",
		}, []string{"result"}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemCache,
			Name:      "evictions_total",
			Help:      "Messages evicted by history rotation.",
		}),
		shifts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystemCache,
			Name:      "shifts_total",
			Help:      "History rotations performed.",
		}),
		messages: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystemCache,
			Name:      "messages",
			Help:      "Messages currently held, sampled at each rotation.",
		}),
	}
	reg.MustRegister(c.puts, c.peerRequests, c.evictions, c.shifts, c.messages)
	return c
}

func (c *CacheCollector) MessageAdded() {
	c.puts.WithLabelValues("added").Inc()
	c.messages.Inc()
}

func (c *CacheCollector) MessageDuplicate() {
	c.puts.WithLabelValues("duplicate").Inc()
}

func (c *CacheCollector) IDFailure() {
	c.puts.WithLabelValues("id_error").Inc()
}

func (c *CacheCollector) Evicted(n int) {
	c.evictions.Add(float64(n))
}

func (c *CacheCollector) Shifted(size int) {
	c.shifts.Inc()
	c.messages.Set(float64(size))
}

func (c *CacheCollector) PeerRequest(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.peerRequests.WithLabelValues(result).Inc()
}
