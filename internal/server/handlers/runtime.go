package handlers

import (
	"time"

	"github.com/nordvang/presskit/internal/cache"
	"github.com/nordvang/presskit/internal/config"
	"github.com/nordvang/presskit/internal/loader"
	"github.com/nordvang/presskit/internal/wp"
)

// Runtime exposes the shared application state handlers work against. The
// config pointer may be swapped by a reload, so handlers must call Config()
// per request rather than holding on to the result.
type Runtime interface {
	Config() *config.Config
	Client() *wp.Client
	Loader() *loader.Loader
	CacheStats() cache.Stats
	FlushCache()
	StartTime() time.Time
}
