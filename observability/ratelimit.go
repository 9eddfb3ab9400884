package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"doghouse/middleware/ratelimit"
)

// rateLimitCollector lê o estado do rate limiter a cada scrape:
//   - {ns}_ratelimit_tracked_keys
//   - {ns}_ratelimit_decisions_total{result}
//   - {ns}_ratelimit_route_decisions_total{route,result}
type rateLimitCollector struct {
	store *ratelimit.LimiterStore
	stats *ratelimit.MemoryStats

	trackedKeys    *prometheus.Desc
	decisions      *prometheus.Desc
	routeDecisions *prometheus.Desc
}

// TrackRateLimit registra um coletor sobre o LimiterStore e os contadores em memória.
// Qualquer um dos dois pode ser nil.
func (m *Metrics) TrackRateLimit(store *ratelimit.LimiterStore, stats *ratelimit.MemoryStats) error {
	return m.registerer.Register(&rateLimitCollector{
		store: store,
		stats: stats,
		trackedKeys: prometheus.NewDesc(
			prometheus.BuildFQName(m.namespace, "ratelimit", "tracked_keys"),
			"Number of client keys with a live token bucket",
			nil, nil,
		),
		decisions: prometheus.NewDesc(
			prometheus.BuildFQName(m.namespace, "ratelimit", "decisions_total"),
			"Rate limit decisions by result",
			[]string{"result"}, nil,
		),
		routeDecisions: prometheus.NewDesc(
			prometheus.BuildFQName(m.namespace, "ratelimit", "route_decisions_total"),
			"Rate limit decisions by route and result",
			[]string{"route", "result"}, nil,
		),
	})
}

func (c *rateLimitCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.trackedKeys
	ch <- c.decisions
	ch <- c.routeDecisions
}

func (c *rateLimitCollector) Collect(ch chan<- prometheus.Metric) {
	if c.store != nil {
		ch <- prometheus.MustNewConstMetric(c.trackedKeys, prometheus.GaugeValue, float64(c.store.Len()))
	}
	if c.stats == nil {
		return
	}
	total := c.stats.Total()
	ch <- prometheus.MustNewConstMetric(c.decisions, prometheus.CounterValue, float64(total.Allowed), "allowed")
	ch <- prometheus.MustNewConstMetric(c.decisions, prometheus.CounterValue, float64(total.Denied), "denied")
	for route, counters := range c.stats.ByRoute() {
		ch <- prometheus.MustNewConstMetric(c.routeDecisions, prometheus.CounterValue, float64(counters.Allowed), route, "allowed")
		ch <- prometheus.MustNewConstMetric(c.routeDecisions, prometheus.CounterValue, float64(counters.Denied), route, "denied")
	}
}
