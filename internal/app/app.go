// Package app owns the long-lived application state: the active
// configuration, the WordPress client, the cache and the loader. Servers and
// background jobs reach this state through the handlers.Runtime interface.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/nordvang/presskit/internal/cache"
	"github.com/nordvang/presskit/internal/config"
	"github.com/nordvang/presskit/internal/loader"
	"github.com/nordvang/presskit/internal/metrics"
	"github.com/nordvang/presskit/internal/retry"
	"github.com/nordvang/presskit/internal/wp"
)

// App is the shared application state. Config and client are swapped together
// on reload; the cache and loader live for the whole process.
type App struct {
	mu     sync.RWMutex
	cfg    *config.Config
	client *wp.Client

	cache    *cache.Cache
	loader   *loader.Loader
	recorder metrics.Recorder
	start    time.Time
}

// New builds the application state from a validated config.
func New(cfg *config.Config, recorder metrics.Recorder) (*App, error) {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	client, err := newClient(cfg, recorder)
	if err != nil {
		return nil, err
	}
	c := cache.New(cfg.Cache.TTL, cfg.Cache.MaxEntries)
	return &App{
		cfg:      cfg,
		client:   client,
		cache:    c,
		loader:   loader.New(c, loader.WithRecorder(recorder)),
		recorder: recorder,
		start:    time.Now(),
	}, nil
}

func newClient(cfg *config.Config, recorder metrics.Recorder) (*wp.Client, error) {
	policy := retry.NewPolicy(
		retry.BackoffMode(cfg.WordPress.Retry.Mode),
		cfg.WordPress.Retry.Initial,
		cfg.WordPress.Retry.Max,
		cfg.WordPress.Retry.MaxRetries)
	return wp.NewClient(cfg.WordPress.BaseURL, cfg.WordPress.Timeout,
		wp.WithRetryPolicy(policy),
		wp.WithRecorder(recorder))
}

// ApplyConfig swaps in a reloaded configuration. The client is rebuilt and
// the cache flushed so stale content from the old upstream cannot be served.
// Cache TTL and sizing changes take effect on restart, not reload.
func (a *App) ApplyConfig(cfg *config.Config) error {
	client, err := newClient(cfg, a.recorder)
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.cfg = cfg
	a.client = client
	a.mu.Unlock()
	a.cache.Flush()
	return nil
}

// Ping verifies the configured WordPress API answers.
func (a *App) Ping(ctx context.Context) error {
	return a.Client().Ping(ctx)
}

// Config returns the active configuration. Callers must not hold the result
// across requests; reloads replace it.
func (a *App) Config() *config.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cfg
}

// Client returns the active WordPress client.
func (a *App) Client() *wp.Client {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.client
}

// Loader returns the stale-while-revalidate loader.
func (a *App) Loader() *loader.Loader { return a.loader }

// CacheStats reports cumulative cache counters.
func (a *App) CacheStats() cache.Stats { return a.cache.Stats() }

// FlushCache drops all cached entries.
func (a *App) FlushCache() { a.cache.Flush() }

// StartTime reports when the process came up.
func (a *App) StartTime() time.Time { return a.start }
