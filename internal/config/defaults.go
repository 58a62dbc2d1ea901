package config

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Default values applied after unmarshal. Anything explicitly set in the file wins.
const (
	DefaultTimeout    = 15 * time.Second
	DefaultPerPage    = 10
	DefaultCacheTTL   = 5 * time.Minute
	DefaultMaxEntries = 512
	DefaultSitePort   = 8080
	DefaultAdminPort  = 9090
	DefaultWarmEvery  = 10 * time.Minute
)

func (c *Config) applyDefaults() {
	c.WordPress.BaseURL = strings.TrimRight(c.WordPress.BaseURL, "/")
	if c.WordPress.Timeout <= 0 {
		c.WordPress.Timeout = DefaultTimeout
	}
	if c.WordPress.PerPage <= 0 {
		c.WordPress.PerPage = DefaultPerPage
	}
	if c.WordPress.Retry.Mode == "" {
		c.WordPress.Retry.Mode = "linear"
	}
	if c.WordPress.Retry.Initial <= 0 {
		c.WordPress.Retry.Initial = 500 * time.Millisecond
	}
	if c.WordPress.Retry.Max <= 0 {
		c.WordPress.Retry.Max = 5 * time.Second
	}

	if c.Site.Title == "" {
		c.Site.Title = "presskit"
	}
	if len(c.Site.Menu) == 0 {
		c.Site.Menu = []MenuEntry{
			{Label: "Home", URL: "/"},
			{Label: "Blog", URL: "/posts"},
		}
	}
	titler := cases.Title(language.English)
	for i := range c.Site.PostTypes {
		pt := &c.Site.PostTypes[i]
		if pt.RestBase == "" {
			pt.RestBase = pt.Slug
		}
		if pt.Label == "" {
			pt.Label = titler.String(strings.ReplaceAll(pt.Slug, "-", " "))
		}
	}

	if c.Cache.TTL <= 0 {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Cache.MaxEntries <= 0 {
		c.Cache.MaxEntries = DefaultMaxEntries
	}

	if c.Server.SitePort == 0 {
		c.Server.SitePort = DefaultSitePort
	}
	if c.Server.AdminPort == 0 {
		c.Server.AdminPort = DefaultAdminPort
	}

	if c.Warm.Interval <= 0 {
		c.Warm.Interval = DefaultWarmEvery
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// PostTypeBySlug returns the configured custom post type for a route segment.
func (c *Config) PostTypeBySlug(slug string) (PostType, bool) {
	for _, pt := range c.Site.PostTypes {
		if pt.Slug == slug {
			return pt, true
		}
	}
	return PostType{}, false
}
