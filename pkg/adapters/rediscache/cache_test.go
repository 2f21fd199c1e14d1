package rediscache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"

	"github.com/tendhq/tend/pkg/adapters/rediscache"
	"github.com/tendhq/tend/pkg/domain"
	"github.com/tendhq/tend/pkg/ports"
)

func newCache(t *testing.T, opts ...rediscache.Option) (*rediscache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	cache := rediscache.NewFromClient(client, opts...)
	t.Cleanup(func() { _ = cache.Close() })
	return cache, mr
}

func TestCache_RoundTrip(t *testing.T) {
	cache, _ := newCache(t)
	ctx := context.Background()

	data := domain.Collections{
		Routines: []domain.Routine{{ID: "r1", Name: "Morning", TimeOfDay: domain.Morning}},
		Habits:   []domain.Habit{{ID: "h1", Name: "Meditate", RoutineID: "r1"}},
		HabitLogs: []domain.HabitLog{
			{HabitID: "h1", Date: "2026-08-30", Completed: true},
		},
	}

	if err := cache.Save(ctx, data); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := cache.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded.Routines) != 1 || loaded.Routines[0].TimeOfDay != domain.Morning {
		t.Errorf("routines mismatch: %+v", loaded.Routines)
	}
	if len(loaded.HabitLogs) != 1 || !loaded.HabitLogs[0].Completed {
		t.Errorf("logs mismatch: %+v", loaded.HabitLogs)
	}
}

func TestCache_LoadEmpty(t *testing.T) {
	cache, _ := newCache(t)

	_, err := cache.Load(context.Background())
	if !errors.Is(err, ports.ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}
}

func TestCache_TTL(t *testing.T) {
	cache, mr := newCache(t, rediscache.WithTTL(time.Minute))
	ctx := context.Background()

	if err := cache.Save(ctx, domain.Collections{}); err != nil {
		t.Fatal(err)
	}

	mr.FastForward(2 * time.Minute)

	_, err := cache.Load(ctx)
	if !errors.Is(err, ports.ErrNoSnapshot) {
		t.Fatalf("expected snapshot to expire, got %v", err)
	}
}
