package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once             sync.Once
	cacheLookups     *prom.CounterVec
	upstreamDuration *prom.HistogramVec
	upstreamRetries  *prom.CounterVec
	revalidations    *prom.CounterVec
	staleFallbacks   prom.Counter
	handlerDuration  *prom.HistogramVec
	cacheEntries     prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.cacheLookups = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "presskit",
			Name:      "cache_lookups_total",
			Help:      "Cache lookup outcomes by result (hit, stale, miss)",
		}, []string{"result"})
		pr.upstreamDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "presskit",
			Name:      "upstream_request_duration_seconds",
			Help:      "Duration of WordPress REST API requests",
			Buckets:   prom.DefBuckets,
		}, []string{"endpoint", "result"})
		pr.upstreamRetries = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "presskit",
			Name:      "upstream_retries_total",
			Help:      "Retried WordPress REST API requests (transient failures)",
		}, []string{"endpoint"})
		pr.revalidations = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "presskit",
			Name:      "revalidations_total",
			Help:      "Background stale-entry revalidations by outcome",
		}, []string{"result"})
		pr.staleFallbacks = prom.NewCounter(prom.CounterOpts{
			Namespace: "presskit",
			Name:      "stale_fallbacks_total",
			Help:      "Responses served from cache because the upstream fetch failed",
		})
		pr.handlerDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "presskit",
			Name:      "handler_duration_seconds",
			Help:      "Duration of page handler execution by route",
			Buckets:   prom.DefBuckets,
		}, []string{"route"})
		pr.cacheEntries = prom.NewGauge(prom.GaugeOpts{
			Namespace: "presskit",
			Name:      "cache_entries",
			Help:      "Current number of entries in the session cache",
		})
		reg.MustRegister(pr.cacheLookups, pr.upstreamDuration, pr.upstreamRetries,
			pr.revalidations, pr.staleFallbacks, pr.handlerDuration, pr.cacheEntries)
	})
	return pr
}

func (pr *PrometheusRecorder) IncCacheLookup(result CacheResult) {
	pr.cacheLookups.WithLabelValues(string(result)).Inc()
}

func (pr *PrometheusRecorder) ObserveUpstreamDuration(endpoint string, d time.Duration, success bool) {
	pr.upstreamDuration.WithLabelValues(endpoint, outcome(success)).Observe(d.Seconds())
}

func (pr *PrometheusRecorder) IncUpstreamRetry(endpoint string) {
	pr.upstreamRetries.WithLabelValues(endpoint).Inc()
}

func (pr *PrometheusRecorder) IncRevalidation(success bool) {
	pr.revalidations.WithLabelValues(outcome(success)).Inc()
}

func (pr *PrometheusRecorder) IncStaleFallback() {
	pr.staleFallbacks.Inc()
}

func (pr *PrometheusRecorder) ObserveHandlerDuration(route string, d time.Duration) {
	pr.handlerDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (pr *PrometheusRecorder) SetCacheEntries(n int) {
	pr.cacheEntries.Set(float64(n))
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
