package logfields

import (
	"errors"
	"testing"
)

func TestErrorNil(t *testing.T) {
	attr := Error(nil)
	if attr.Key != KeyError {
		t.Fatalf("expected key %s got %s", KeyError, attr.Key)
	}
	if attr.Value.String() != "" {
		t.Fatalf("nil error should render empty, got %q", attr.Value.String())
	}
}

func TestErrorNonNil(t *testing.T) {
	attr := Error(errors.New("boom"))
	if attr.Value.String() != "boom" {
		t.Fatalf("expected 'boom' got %q", attr.Value.String())
	}
}

func TestFieldKeysStable(t *testing.T) {
	// Keys are part of the logging contract; dashboards depend on them.
	cases := map[string]string{
		Endpoint("e").Key:    KeyEndpoint,
		CacheKey("k").Key:    KeyCacheKey,
		CacheResult("r").Key: KeyCacheResult,
		Route("/").Key:       KeyRoute,
		Slug("s").Key:        KeySlug,
		PostType("p").Key:    KeyPostType,
		Page(1).Key:          KeyPage,
		Status(200).Key:      KeyStatus,
		RequestID("x").Key:   KeyRequestID,
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("field key drift: got %s want %s", got, want)
		}
	}
}
