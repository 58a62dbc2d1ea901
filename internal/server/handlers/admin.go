package handlers

import (
	"net/http"
	"time"

	"github.com/nordvang/presskit/internal/cache"
	"github.com/nordvang/presskit/internal/version"
)

// AdminHandlers serves the operational endpoints on the admin port.
type AdminHandlers struct {
	runtime Runtime
}

// NewAdminHandlers creates the admin handler module.
func NewAdminHandlers(runtime Runtime) *AdminHandlers {
	return &AdminHandlers{runtime: runtime}
}

type healthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

type statusResponse struct {
	Version       string      `json:"version"`
	StartedAt     time.Time   `json:"started_at"`
	UptimeSeconds float64     `json:"uptime_seconds"`
	WordPressURL  string      `json:"wordpress_url"`
	PostTypes     []string    `json:"post_types"`
	Cache         cache.Stats `json:"cache"`
}

type flushResponse struct {
	Flushed int `json:"flushed"`
}

// HandleHealthz reports liveness.
func (h *AdminHandlers) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	_ = writeJSON(w, http.StatusOK, healthResponse{
		Status:        "ok",
		Version:       version.Version,
		UptimeSeconds: time.Since(h.runtime.StartTime()).Seconds(),
	})
}

// HandleStatus reports runtime configuration and cache counters. Append
// ?pretty=1 for indented output.
func (h *AdminHandlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	cfg := h.runtime.Config()
	types := make([]string, 0, len(cfg.Site.PostTypes))
	for _, pt := range cfg.Site.PostTypes {
		types = append(types, pt.Slug)
	}

	_ = writeJSONPretty(w, r, http.StatusOK, statusResponse{
		Version:       version.Version,
		StartedAt:     h.runtime.StartTime(),
		UptimeSeconds: time.Since(h.runtime.StartTime()).Seconds(),
		WordPressURL:  cfg.WordPress.BaseURL,
		PostTypes:     types,
		Cache:         h.runtime.CacheStats(),
	})
}

// HandleCacheFlush drops every cached entry. The next request for each page
// goes back to WordPress.
func (h *AdminHandlers) HandleCacheFlush(w http.ResponseWriter, r *http.Request) {
	n := h.runtime.CacheStats().Entries
	h.runtime.FlushCache()
	_ = writeJSON(w, http.StatusOK, flushResponse{Flushed: n})
}
