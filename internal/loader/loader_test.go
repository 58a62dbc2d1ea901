package loader

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordvang/presskit/internal/cache"
)

func fixedClock(t *time.Time) func() time.Time {
	return func() time.Time { return *t }
}

func TestLoadMissFetchesAndCaches(t *testing.T) {
	c := cache.New(time.Minute, 0)
	l := New(c)

	var calls atomic.Int32
	fetch := func(ctx context.Context) (string, error) {
		calls.Add(1)
		return "value", nil
	}

	v, source, err := Load(context.Background(), l, "k", fetch)
	require.NoError(t, err)
	assert.Equal(t, "value", v)
	assert.Equal(t, SourceNetwork, source)

	v, source, err = Load(context.Background(), l, "k", fetch)
	require.NoError(t, err)
	assert.Equal(t, "value", v)
	assert.Equal(t, SourceCacheFresh, source)
	assert.Equal(t, int32(1), calls.Load(), "fresh hit must not refetch")
}

func TestLoadMissError(t *testing.T) {
	l := New(cache.New(time.Minute, 0))
	boom := errors.New("boom")

	_, _, err := Load(context.Background(), l, "k", func(ctx context.Context) (string, error) {
		return "", boom
	})
	require.ErrorIs(t, err, boom)
}

func TestStaleServedAndRevalidated(t *testing.T) {
	now := time.Now()
	c := cache.New(time.Minute, 0, cache.WithClock(fixedClock(&now)))

	done := make(chan error, 1)
	l := New(c, WithRevalidatedHook(func(key string, err error) { done <- err }))

	var calls atomic.Int32
	fetch := func(ctx context.Context) (string, error) {
		if calls.Add(1) == 1 {
			return "v1", nil
		}
		return "v2", nil
	}

	// Populate, then age the entry past TTL.
	_, _, err := Load(context.Background(), l, "k", fetch)
	require.NoError(t, err)
	now = now.Add(2 * time.Minute)

	v, source, err := Load(context.Background(), l, "k", fetch)
	require.NoError(t, err)
	assert.Equal(t, "v1", v, "stale value served immediately")
	assert.Equal(t, SourceCacheStale, source)

	require.NoError(t, <-done)

	v, source, err = Load(context.Background(), l, "k", fetch)
	require.NoError(t, err)
	assert.Equal(t, "v2", v, "revalidated value visible on next load")
	assert.Equal(t, SourceCacheFresh, source)
}

func TestRevalidationFailureKeepsStaleValue(t *testing.T) {
	now := time.Now()
	c := cache.New(time.Minute, 0, cache.WithClock(fixedClock(&now)))

	done := make(chan error, 1)
	l := New(c, WithRevalidatedHook(func(key string, err error) { done <- err }))

	var calls atomic.Int32
	fetch := func(ctx context.Context) (string, error) {
		if calls.Add(1) == 1 {
			return "v1", nil
		}
		return "", errors.New("upstream down")
	}

	_, _, err := Load(context.Background(), l, "k", fetch)
	require.NoError(t, err)
	now = now.Add(2 * time.Minute)

	v, source, err := Load(context.Background(), l, "k", fetch)
	require.NoError(t, err)
	assert.Equal(t, "v1", v)
	assert.Equal(t, SourceCacheStale, source)

	require.Error(t, <-done)

	// Still served (still stale), no error surfaced to the caller.
	v, source, err = Load(context.Background(), l, "k", fetch)
	require.NoError(t, err)
	assert.Equal(t, "v1", v)
	assert.Equal(t, SourceCacheStale, source)
}

func TestRevalidationDeduplicated(t *testing.T) {
	now := time.Now()
	c := cache.New(time.Minute, 0, cache.WithClock(fixedClock(&now)))

	release := make(chan struct{})
	done := make(chan error, 8)
	l := New(c, WithRevalidatedHook(func(key string, err error) { done <- err }))

	var fetches atomic.Int32
	first := true
	var firstMu sync.Mutex
	fetch := func(ctx context.Context) (string, error) {
		firstMu.Lock()
		if first {
			first = false
			firstMu.Unlock()
			return "v1", nil
		}
		firstMu.Unlock()
		fetches.Add(1)
		<-release
		return "v2", nil
	}

	_, _, err := Load(context.Background(), l, "k", fetch)
	require.NoError(t, err)
	now = now.Add(2 * time.Minute)

	// Many concurrent stale hits while one revalidation is blocked.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, source, err := Load(context.Background(), l, "k", fetch)
			assert.NoError(t, err)
			assert.Equal(t, "v1", v)
			assert.Equal(t, SourceCacheStale, source)
		}()
	}
	wg.Wait()

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), fetches.Load(), "concurrent stale hits share one revalidation")
}

func TestRefreshReplacesValue(t *testing.T) {
	c := cache.New(time.Minute, 0)
	l := New(c)

	require.NoError(t, l.Refresh(context.Background(), "k", func(ctx context.Context) (any, error) {
		return "warmed", nil
	}))

	v, source, err := Load(context.Background(), l, "k", func(ctx context.Context) (string, error) {
		t.Fatal("should not fetch")
		return "", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "warmed", v)
	assert.Equal(t, SourceCacheFresh, source)
}

func TestRefreshErrorLeavesCacheAlone(t *testing.T) {
	c := cache.New(time.Minute, 0)
	l := New(c)
	c.Set("k", "old")

	err := l.Refresh(context.Background(), "k", func(ctx context.Context) (any, error) {
		return nil, errors.New("nope")
	})
	require.Error(t, err)

	v, f := c.Get("k")
	assert.Equal(t, "old", v)
	assert.Equal(t, cache.Fresh, f)
}

func TestTypedLoadRecoversFromTypeMismatch(t *testing.T) {
	c := cache.New(time.Minute, 0)
	l := New(c)
	c.Set("k", 123) // wrong type for a string load

	v, source, err := Load(context.Background(), l, "k", func(ctx context.Context) (string, error) {
		return "fixed", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fixed", v)
	assert.Equal(t, SourceNetwork, source)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "posts|page=2&per_page=10", Key("posts", "page=2&per_page=10"))
	assert.Equal(t, "pages", Key("pages"))
}
