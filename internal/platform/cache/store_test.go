package cache

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestStore_SetGetDelete(t *testing.T) {
	store := NewStore(time.Minute)

	if _, ok := store.Get(t.Context(), "players:t1"); ok {
		t.Fatal("expected miss on empty store")
	}

	store.Set(t.Context(), "players:t1", []string{"p1", "p2"})
	value, ok := store.Get(t.Context(), "players:t1")
	if !ok {
		t.Fatal("expected hit after set")
	}
	if listing, _ := value.([]string); len(listing) != 2 {
		t.Fatalf("unexpected cached value %v", value)
	}

	store.Delete(t.Context(), "players:t1")
	if _, ok := store.Get(t.Context(), "players:t1"); ok {
		t.Fatal("expected miss after delete")
	}
}

func TestStore_ExpiresAfterTTL(t *testing.T) {
	store := NewStore(10 * time.Millisecond)

	store.Set(t.Context(), "k", "v")
	if _, ok := store.Get(t.Context(), "k"); !ok {
		t.Fatal("expected hit before expiry")
	}

	time.Sleep(20 * time.Millisecond)
	if _, ok := store.Get(t.Context(), "k"); ok {
		t.Fatal("expected miss after ttl elapsed")
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	store := NewStore(time.Minute)

	store.Set(t.Context(), "players:t1:all", 1)
	store.Set(t.Context(), "players:t1:p1", 2)
	store.Set(t.Context(), "players:t2:all", 3)

	store.DeletePrefix(t.Context(), "players:t1")

	if _, ok := store.Get(t.Context(), "players:t1:all"); ok {
		t.Fatal("expected t1 listing invalidated")
	}
	if _, ok := store.Get(t.Context(), "players:t1:p1"); ok {
		t.Fatal("expected t1 player invalidated")
	}
	if _, ok := store.Get(t.Context(), "players:t2:all"); !ok {
		t.Fatal("expected t2 listing untouched")
	}
}

func TestStore_GetOrLoadCachesResult(t *testing.T) {
	store := NewStore(time.Minute)

	loads := 0
	loader := func(context.Context) (any, error) {
		loads++
		return "directory", nil
	}

	for i := 0; i < 3; i++ {
		value, err := store.GetOrLoad(t.Context(), "players:t1", loader)
		if err != nil {
			t.Fatalf("load %d: %v", i, err)
		}
		if value != "directory" {
			t.Fatalf("load %d: unexpected value %v", i, value)
		}
	}
	if loads != 1 {
		t.Fatalf("expected a single load, got %d", loads)
	}
}

func TestStore_GetOrLoadDoesNotCacheErrors(t *testing.T) {
	store := NewStore(time.Minute)

	_, err := store.GetOrLoad(t.Context(), "k", func(context.Context) (any, error) {
		return nil, fmt.Errorf("db down")
	})
	if err == nil {
		t.Fatal("expected loader error surfaced")
	}

	value, err := store.GetOrLoad(t.Context(), "k", func(context.Context) (any, error) {
		return "ok", nil
	})
	if err != nil || value != "ok" {
		t.Fatalf("expected fresh load after failure, got value=%v err=%v", value, err)
	}
}

func TestStore_GetOrLoadRequiresLoader(t *testing.T) {
	store := NewStore(time.Minute)

	if _, err := store.GetOrLoad(t.Context(), "k", nil); err == nil {
		t.Fatal("expected error for nil loader")
	}
}
