package store_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"

	"github.com/tendhq/tend/pkg/adapters/rediscache"
	"github.com/tendhq/tend/pkg/store"
)

func newSnapshotCache(t *testing.T) (*rediscache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	cache := rediscache.NewFromClient(client)
	t.Cleanup(func() { _ = cache.Close() })
	return cache, mr
}

func TestStore_FetchPersistsAndWarmStartRestores(t *testing.T) {
	cache, mr := newSnapshotCache(t)
	ctx := context.Background()

	// First store fetches and persists the result.
	loaded(t, &fakeAPI{}, store.WithSnapshotCache(cache))

	// A second store, before any fetch, restores the persisted data.
	fresh := store.New(&fakeAPI{}, store.WithSnapshotCache(cache))
	fresh.WarmStart(ctx)

	snap := fresh.Snapshot()
	if len(snap.Routines) != 2 || len(snap.Habits) != 2 || len(snap.HabitLogs) != 1 {
		t.Fatalf("warm start restored %d routines, %d habits, %d logs; want 2, 2, 1",
			len(snap.Routines), len(snap.Habits), len(snap.HabitLogs))
	}
	if !snap.Stale {
		t.Error("warm-started snapshot not marked stale")
	}
	if !snap.Completed("h1", "2026-08-30") {
		t.Error("warm start lost the completion log for h1")
	}

	// A real fetch replaces the restored data and clears the flag.
	if err := fresh.FetchRoutinesAndHabits(ctx); err != nil {
		t.Fatalf("fetch after warm start failed: %v", err)
	}
	if fresh.Snapshot().Stale {
		t.Error("snapshot still stale after a successful fetch")
	}

	// With nothing persisted, WarmStart leaves the store empty.
	mr.FlushAll()
	empty := store.New(&fakeAPI{}, store.WithSnapshotCache(cache))
	empty.WarmStart(ctx)

	snap = empty.Snapshot()
	if len(snap.Routines) != 0 || len(snap.Habits) != 0 || len(snap.HabitLogs) != 0 {
		t.Errorf("warm start on an empty cache populated the store: %+v", snap)
	}
	if snap.Stale {
		t.Error("empty store marked stale by a no-op warm start")
	}
}
