package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerformReloadInvokesCallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("wordpress:\n  base_url: https://example.com\n"), 0o644))

	var got *Config
	w, err := NewWatcher(path, func(c *Config) { got = c })
	require.NoError(t, err)
	defer w.watcher.Close()

	require.NoError(t, w.performReload())
	require.NotNil(t, got)
	assert.Equal(t, "https://example.com", got.WordPress.BaseURL)
}

func TestPerformReloadKeepsOldConfigOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("wordpress:\n  base_url: https://example.com\n"), 0o644))

	called := 0
	w, err := NewWatcher(path, func(*Config) { called++ })
	require.NoError(t, err)
	defer w.watcher.Close()

	// Break the file; reload must fail without invoking the callback.
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: chatty\n"), 0o644))
	require.Error(t, w.performReload())
	assert.Zero(t, called)
}
