package metrics

import "time"

// CacheResult enumerates cache lookup outcomes for counters.
type CacheResult string

const (
	CacheHit   CacheResult = "hit"
	CacheStale CacheResult = "stale"
	CacheMiss  CacheResult = "miss"
)

// Recorder defines observability hooks for content fetching and page rendering.
// Implementations may forward to Prometheus, OpenTelemetry, etc. All methods must
// be cheap and safe to call from request goroutines.
type Recorder interface {
	IncCacheLookup(result CacheResult)
	ObserveUpstreamDuration(endpoint string, d time.Duration, success bool)
	IncUpstreamRetry(endpoint string)
	IncRevalidation(success bool)
	IncStaleFallback()
	ObserveHandlerDuration(route string, d time.Duration)
	SetCacheEntries(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncCacheLookup(CacheResult)                          {}
func (NoopRecorder) ObserveUpstreamDuration(string, time.Duration, bool) {}
func (NoopRecorder) IncUpstreamRetry(string)                             {}
func (NoopRecorder) IncRevalidation(bool)                                {}
func (NoopRecorder) IncStaleFallback()                                   {}
func (NoopRecorder) ObserveHandlerDuration(string, time.Duration)        {}
func (NoopRecorder) SetCacheEntries(int)                                 {}
