package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleHealthz(t *testing.T) {
	rt := newTestRuntime(t, fakeWordPress())
	h := NewAdminHandlers(rt)

	rec := httptest.NewRecorder()
	h.HandleHealthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	var body healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.GreaterOrEqual(t, body.UptimeSeconds, 0.0)
}

func TestHandleStatus(t *testing.T) {
	rt := newTestRuntime(t, fakeWordPress())
	site := newSiteHandlers(t, rt)
	site.Home(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	h := NewAdminHandlers(rt)
	rec := httptest.NewRecorder()
	h.HandleStatus(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, rt.cfg.WordPress.BaseURL, body.WordPressURL)
	assert.Equal(t, []string{"projects"}, body.PostTypes)
	assert.Greater(t, body.Cache.Entries, 0)
}

func TestHandleStatusPretty(t *testing.T) {
	rt := newTestRuntime(t, fakeWordPress())
	h := NewAdminHandlers(rt)

	rec := httptest.NewRecorder()
	h.HandleStatus(rec, httptest.NewRequest(http.MethodGet, "/status?pretty=1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "\n  \"version\"")
}

func TestHandleCacheFlush(t *testing.T) {
	rt := newTestRuntime(t, fakeWordPress())
	site := newSiteHandlers(t, rt)
	site.Home(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Greater(t, rt.cache.Stats().Entries, 0)

	h := NewAdminHandlers(rt)
	rec := httptest.NewRecorder()
	h.HandleCacheFlush(rec, httptest.NewRequest(http.MethodPost, "/cache/flush", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body flushResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Greater(t, body.Flushed, 0)
	assert.Equal(t, 0, rt.cache.Stats().Entries)
}
