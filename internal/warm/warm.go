// Package warm pre-fetches the most visited content on a schedule so the
// cache always has something to serve, fresh or stale.
package warm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/nordvang/presskit/internal/config"
	"github.com/nordvang/presskit/internal/loader"
	"github.com/nordvang/presskit/internal/logfields"
	"github.com/nordvang/presskit/internal/server/handlers"
	"github.com/nordvang/presskit/internal/wp"
)

// Runtime is the slice of application state the warmer needs.
type Runtime interface {
	Config() *config.Config
	Client() *wp.Client
	Loader() *loader.Loader
}

// Warmer periodically refreshes the front page, the first archive pages and
// the taxonomy terms.
type Warmer struct {
	runtime   Runtime
	scheduler gocron.Scheduler
	timeout   time.Duration
}

// NewWarmer creates a warmer. It does nothing until Start is called.
func NewWarmer(runtime Runtime) (*Warmer, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Warmer{runtime: runtime, scheduler: s, timeout: 30 * time.Second}, nil
}

// Start schedules the warm job at the configured interval and runs it once
// immediately so a cold start does not wait a full interval.
func (w *Warmer) Start(interval time.Duration) error {
	_, err := w.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(w.Run),
		gocron.WithName("cache-warm"),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("failed to create warm job: %w", err)
	}
	w.scheduler.Start()
	slog.Info("cache warmer started", slog.Duration("interval", interval))
	return nil
}

// Stop shuts the scheduler down, waiting for a running warm pass to finish.
func (w *Warmer) Stop() error {
	return w.scheduler.Shutdown()
}

// Run executes one warm pass. Keys and queries come from the handlers package
// so every warmed entry is one the page handlers actually look up. Failures
// are logged per target and never abort the remaining targets; an unreachable
// upstream just leaves the cache as-is.
func (w *Warmer) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	cfg := w.runtime.Config()
	client := w.runtime.Client()
	l := w.runtime.Loader()
	start := time.Now()
	warmed, failed := 0, 0

	refresh := func(key string, fetch loader.FetchFunc) {
		err := l.Refresh(ctx, key, fetch)
		switch {
		case err == nil:
			warmed++
		case wp.IsNotFound(err):
			// content that simply does not exist (e.g. no "home" page) is not a failure
		default:
			failed++
			slog.Warn("warm fetch failed", logfields.CacheKey(key), logfields.Error(err))
		}
	}

	homeQ := handlers.HomeQuery(cfg.WordPress.PerPage)
	refresh(handlers.ListKey("posts", homeQ), func(ctx context.Context) (any, error) {
		return client.ListPosts(ctx, homeQ)
	})
	refresh(handlers.PageKey(handlers.FrontPageSlug), func(ctx context.Context) (any, error) {
		return client.GetPageBySlug(ctx, handlers.FrontPageSlug)
	})

	archiveQ := handlers.ArchiveQuery(1, cfg.WordPress.PerPage)
	refresh(handlers.ListKey("posts", archiveQ), func(ctx context.Context) (any, error) {
		return client.ListPosts(ctx, archiveQ)
	})
	for _, pt := range cfg.Site.PostTypes {
		refresh(handlers.ListKey(pt.RestBase, archiveQ), func(ctx context.Context) (any, error) {
			return client.ListByType(ctx, pt.RestBase, archiveQ)
		})
	}

	// Terms are looked up per slug, so one list fetch seeds every term key.
	for _, taxonomy := range []string{"categories", "tags"} {
		terms, err := client.ListTerms(ctx, taxonomy, wp.NewQuery().PerPage(100))
		if err != nil {
			if !wp.IsNotFound(err) {
				failed++
				slog.Warn("warm fetch failed", logfields.Taxonomy(taxonomy), logfields.Error(err))
			}
			continue
		}
		for _, t := range terms {
			term := t
			refresh(handlers.TermKey(taxonomy, term.Slug), func(ctx context.Context) (any, error) {
				return &term, nil
			})
		}
	}

	slog.Info("warm pass complete",
		slog.Int("warmed", warmed),
		slog.Int("failed", failed),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
}
