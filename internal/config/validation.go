package config

import (
	"fmt"
	"net/url"
	"strings"
)

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

var validRetryModes = map[string]bool{"fixed": true, "linear": true, "exponential": true}

// Validate checks configuration invariants. It is called by Load after defaults
// are applied, so it can assume non-zero defaults are in place.
func (c *Config) Validate() error {
	if c.WordPress.BaseURL == "" {
		return fmt.Errorf("wordpress.base_url is required")
	}
	u, err := url.Parse(c.WordPress.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("wordpress.base_url must be an absolute http(s) URL, got %q", c.WordPress.BaseURL)
	}
	if c.WordPress.PerPage > 100 {
		// WordPress caps per_page at 100; larger values return a 400.
		return fmt.Errorf("wordpress.per_page must be <= 100, got %d", c.WordPress.PerPage)
	}
	if !validRetryModes[c.WordPress.Retry.Mode] {
		return fmt.Errorf("wordpress.retry.mode must be fixed, linear or exponential, got %q", c.WordPress.Retry.Mode)
	}
	if c.WordPress.Retry.MaxRetries < 0 {
		return fmt.Errorf("wordpress.retry.max_retries cannot be negative")
	}

	seen := map[string]bool{}
	for _, pt := range c.Site.PostTypes {
		if pt.Slug == "" {
			return fmt.Errorf("site.post_types entries require a slug")
		}
		if strings.ContainsAny(pt.Slug, "/ ") {
			return fmt.Errorf("site.post_types slug %q must be a single path segment", pt.Slug)
		}
		if reservedRoutes[pt.Slug] {
			return fmt.Errorf("site.post_types slug %q collides with a built-in route", pt.Slug)
		}
		if seen[pt.Slug] {
			return fmt.Errorf("duplicate post type slug %q", pt.Slug)
		}
		seen[pt.Slug] = true
	}

	for _, m := range c.Site.Menu {
		if m.Label == "" || m.URL == "" {
			return fmt.Errorf("site.menu entries require both label and url")
		}
	}

	if c.Server.SitePort < 1 || c.Server.SitePort > 65535 {
		return fmt.Errorf("server.site_port out of range: %d", c.Server.SitePort)
	}
	if c.Server.AdminPort < 1 || c.Server.AdminPort > 65535 {
		return fmt.Errorf("server.admin_port out of range: %d", c.Server.AdminPort)
	}
	if c.Server.SitePort == c.Server.AdminPort {
		return fmt.Errorf("server.site_port and server.admin_port must differ")
	}

	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}

// reservedRoutes are path segments owned by built-in pages; custom post types
// cannot shadow them.
var reservedRoutes = map[string]bool{
	"posts":    true,
	"pages":    true,
	"category": true,
	"tag":      true,
	"static":   true,
}
