package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMinimal(t *testing.T) {
	path := writeConfig(t, "wordpress:\n  base_url: https://example.com/\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	// Trailing slash stripped so endpoint joining stays predictable.
	assert.Equal(t, "https://example.com", cfg.WordPress.BaseURL)
	assert.Equal(t, DefaultTimeout, cfg.WordPress.Timeout)
	assert.Equal(t, DefaultPerPage, cfg.WordPress.PerPage)
	assert.Equal(t, DefaultCacheTTL, cfg.Cache.TTL)
	assert.Equal(t, DefaultSitePort, cfg.Server.SitePort)
	assert.Equal(t, DefaultAdminPort, cfg.Server.AdminPort)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "presskit", cfg.Site.Title)
	assert.Len(t, cfg.Site.Menu, 2)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoadEnvExpansion(t *testing.T) {
	t.Setenv("WP_BASE", "https://cms.example.org")
	path := writeConfig(t, "wordpress:\n  base_url: ${WP_BASE}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://cms.example.org", cfg.WordPress.BaseURL)
}

func TestPostTypeDefaults(t *testing.T) {
	path := writeConfig(t, `
wordpress:
  base_url: https://example.com
site:
  post_types:
    - slug: case-studies
    - slug: projects
      rest_base: project
      label: Work
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	pt, ok := cfg.PostTypeBySlug("case-studies")
	require.True(t, ok)
	assert.Equal(t, "case-studies", pt.RestBase)
	assert.Equal(t, "Case Studies", pt.Label)

	pt, ok = cfg.PostTypeBySlug("projects")
	require.True(t, ok)
	assert.Equal(t, "project", pt.RestBase)
	assert.Equal(t, "Work", pt.Label)

	_, ok = cfg.PostTypeBySlug("missing")
	assert.False(t, ok)
}

func TestValidateErrors(t *testing.T) {
	cases := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing base url",
			yaml:    "site:\n  title: X\n",
			wantErr: "base_url is required",
		},
		{
			name:    "relative base url",
			yaml:    "wordpress:\n  base_url: example.com\n",
			wantErr: "absolute http(s) URL",
		},
		{
			name:    "per page too large",
			yaml:    "wordpress:\n  base_url: https://example.com\n  per_page: 200\n",
			wantErr: "per_page",
		},
		{
			name:    "reserved post type",
			yaml:    "wordpress:\n  base_url: https://example.com\nsite:\n  post_types:\n    - slug: posts\n",
			wantErr: "collides",
		},
		{
			name:    "duplicate post type",
			yaml:    "wordpress:\n  base_url: https://example.com\nsite:\n  post_types:\n    - slug: projects\n    - slug: projects\n",
			wantErr: "duplicate",
		},
		{
			name:    "same ports",
			yaml:    "wordpress:\n  base_url: https://example.com\nserver:\n  site_port: 8080\n  admin_port: 8080\n",
			wantErr: "must differ",
		},
		{
			name:    "bad log level",
			yaml:    "wordpress:\n  base_url: https://example.com\nlogging:\n  level: chatty\n",
			wantErr: "logging.level",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.yaml)
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestRetryDefaults(t *testing.T) {
	path := writeConfig(t, "wordpress:\n  base_url: https://example.com\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "linear", cfg.WordPress.Retry.Mode)
	assert.Equal(t, 500*time.Millisecond, cfg.WordPress.Retry.Initial)
	assert.Equal(t, 5*time.Second, cfg.WordPress.Retry.Max)
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, Init(path, false))

	// Example config must load cleanly.
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Example Site", cfg.Site.Title)

	// Second init without force refuses to clobber.
	err = Init(path, false)
	require.Error(t, err)
	require.NoError(t, Init(path, true))
}
