package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordvang/presskit/internal/config"
)

func navConfig() *config.Config {
	return &config.Config{
		Site: config.SiteConfig{
			Menu: []config.MenuEntry{
				{Label: "Home", URL: "/"},
				{Label: "Blog", URL: "/posts"},
			},
			PostTypes: []config.PostType{
				{Slug: "projects", RestBase: "projects", Label: "Projects"},
			},
		},
	}
}

func TestBuildNav(t *testing.T) {
	items := BuildNav(navConfig(), "/")
	require.Len(t, items, 3)

	assert.Equal(t, "Home", items[0].Label)
	assert.True(t, items[0].Active)
	assert.Equal(t, "/posts", items[1].URL)
	assert.False(t, items[1].Active)
	assert.Equal(t, "/projects", items[2].URL)
	assert.Equal(t, "Projects", items[2].Label)
}

func TestBuildNavSkipsDuplicatePostTypeEntry(t *testing.T) {
	cfg := navConfig()
	cfg.Site.Menu = append(cfg.Site.Menu, config.MenuEntry{Label: "Work", URL: "/projects"})

	items := BuildNav(cfg, "/")
	var urls []string
	for _, it := range items {
		urls = append(urls, it.URL)
	}
	assert.Equal(t, []string{"/", "/posts", "/projects"}, urls)
	assert.Equal(t, "Work", items[2].Label)
}

func TestNavActive(t *testing.T) {
	tests := []struct {
		navURL string
		path   string
		want   bool
	}{
		{"/", "/", true},
		{"/", "/posts", false},
		{"/posts", "/posts", true},
		{"/posts", "/posts/hello", true},
		{"/posts", "/postscript", false},
		{"/posts", "/", false},
	}
	for _, tt := range tests {
		if got := navActive(tt.navURL, tt.path); got != tt.want {
			t.Errorf("navActive(%q, %q) = %v, want %v", tt.navURL, tt.path, got, tt.want)
		}
	}
}
