// Package loader orchestrates content fetching through the session cache with
// stale-while-revalidate semantics: cached data is always served immediately,
// and stale entries trigger a deduplicated background refresh.
package loader

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/nordvang/presskit/internal/cache"
	"github.com/nordvang/presskit/internal/logfields"
	"github.com/nordvang/presskit/internal/metrics"
)

// Source reports where a loaded value came from.
type Source string

const (
	SourceNetwork    Source = "network"     // fetched synchronously on a cache miss
	SourceCacheFresh Source = "cache-fresh" // served from cache within TTL
	SourceCacheStale Source = "cache-stale" // served from cache past TTL; refresh running
)

// FetchFunc retrieves the value for a cache key from upstream.
type FetchFunc func(ctx context.Context) (any, error)

// Loader combines the cache with upstream fetches.
type Loader struct {
	cache    *cache.Cache
	recorder metrics.Recorder

	mu       sync.Mutex
	inflight map[string]struct{}

	revalidateTimeout time.Duration
	onRevalidated     func(key string, err error)
}

// Option configures a Loader.
type Option func(*Loader)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(l *Loader) { l.recorder = r }
}

// WithRevalidateTimeout bounds background refresh fetches.
func WithRevalidateTimeout(d time.Duration) Option {
	return func(l *Loader) { l.revalidateTimeout = d }
}

// WithRevalidatedHook registers a callback invoked after each background
// revalidation completes. Tests use it to synchronize.
func WithRevalidatedHook(fn func(key string, err error)) Option {
	return func(l *Loader) { l.onRevalidated = fn }
}

// New creates a Loader on top of c.
func New(c *cache.Cache, opts ...Option) *Loader {
	l := &Loader{
		cache:             c,
		recorder:          metrics.NoopRecorder{},
		inflight:          make(map[string]struct{}),
		revalidateTimeout: 15 * time.Second,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the value for key. Cached values, fresh or stale, are returned
// immediately; a stale hit schedules a background revalidation. Only a cache
// miss blocks on the upstream fetch, and only a miss can surface an error.
func (l *Loader) Load(ctx context.Context, key string, fetch FetchFunc) (any, Source, error) {
	value, freshness := l.cache.Get(key)
	switch freshness {
	case cache.Fresh:
		l.recorder.IncCacheLookup(metrics.CacheHit)
		return value, SourceCacheFresh, nil
	case cache.Stale:
		l.recorder.IncCacheLookup(metrics.CacheStale)
		l.revalidate(key, fetch)
		return value, SourceCacheStale, nil
	}

	l.recorder.IncCacheLookup(metrics.CacheMiss)
	fetched, err := fetch(ctx)
	if err != nil {
		return nil, "", err
	}
	l.store(key, fetched)
	return fetched, SourceNetwork, nil
}

// Refresh fetches key synchronously and replaces the cached value. Used by the
// cache warmer and anywhere staleness is unacceptable.
func (l *Loader) Refresh(ctx context.Context, key string, fetch FetchFunc) error {
	fetched, err := fetch(ctx)
	if err != nil {
		return err
	}
	l.store(key, fetched)
	return nil
}

func (l *Loader) store(key string, value any) {
	l.cache.Set(key, value)
	l.recorder.SetCacheEntries(l.cache.Len())
}

// revalidate refreshes key in the background. At most one revalidation per key
// runs at a time; concurrent stale hits piggyback on the in-flight one.
func (l *Loader) revalidate(key string, fetch FetchFunc) {
	l.mu.Lock()
	if _, running := l.inflight[key]; running {
		l.mu.Unlock()
		return
	}
	l.inflight[key] = struct{}{}
	l.mu.Unlock()

	go func() {
		// Detached from the request context: the page that triggered the
		// refresh has likely already been served.
		ctx, cancel := context.WithTimeout(context.Background(), l.revalidateTimeout)
		defer cancel()

		fetched, err := fetch(ctx)

		l.mu.Lock()
		delete(l.inflight, key)
		l.mu.Unlock()

		if err != nil {
			// The stale value stays in the cache and keeps being served.
			l.recorder.IncRevalidation(false)
			l.recorder.IncStaleFallback()
			slog.Warn("revalidation failed, serving stale",
				logfields.CacheKey(key),
				logfields.Error(err))
		} else {
			l.store(key, fetched)
			l.recorder.IncRevalidation(true)
			slog.Debug("revalidated cache entry", logfields.CacheKey(key))
		}
		if l.onRevalidated != nil {
			l.onRevalidated(key, err)
		}
	}()
}

// Load is the typed entry point; it wraps Loader.Load and asserts the cached
// value's type. A cached value of the wrong type is treated as corrupt and
// refetched.
func Load[T any](ctx context.Context, l *Loader, key string, fetch func(ctx context.Context) (T, error)) (T, Source, error) {
	raw, source, err := l.Load(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	var zero T
	if err != nil {
		return zero, source, err
	}
	typed, ok := raw.(T)
	if !ok {
		// Shouldn't happen unless two callers share a key with different
		// types; refetch rather than serving garbage.
		l.cache.Delete(key)
		typed, err = fetch(ctx)
		if err != nil {
			return zero, "", err
		}
		l.store(key, typed)
		return typed, SourceNetwork, nil
	}
	return typed, source, nil
}

// Key builds a cache key from an endpoint and its encoded query.
func Key(parts ...string) string {
	return strings.Join(parts, "|")
}
