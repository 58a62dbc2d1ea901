package views

import (
	"strings"

	"github.com/nordvang/presskit/internal/config"
)

// BuildNav assembles the navigation bar from configured menu entries plus an
// entry per custom post type archive. activePath marks the current section.
func BuildNav(cfg *config.Config, activePath string) []NavItem {
	var items []NavItem
	seen := make(map[string]bool)

	for _, m := range cfg.Site.Menu {
		items = append(items, NavItem{Label: m.Label, URL: m.URL, Active: navActive(m.URL, activePath)})
		seen[m.URL] = true
	}
	for _, pt := range cfg.Site.PostTypes {
		url := "/" + pt.Slug
		if seen[url] {
			continue
		}
		items = append(items, NavItem{Label: pt.Label, URL: url, Active: navActive(url, activePath)})
	}
	return items
}

// navActive matches a nav URL against the request path: exact for the root
// entry, prefix for sections.
func navActive(navURL, path string) bool {
	if navURL == "/" {
		return path == "/"
	}
	return path == navURL || strings.HasPrefix(path, navURL+"/")
}
