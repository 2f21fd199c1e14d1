package store

import (
	"context"
	"time"

	"github.com/tendhq/tend/pkg/domain"
)

// fetchCall is one in-flight FetchAll shared by every concurrent
// caller (single-flight).
type fetchCall struct {
	done chan struct{}
	err  error
}

// FetchRoutinesAndHabits loads all three collections from the remote
// API in one logical call. While it runs the snapshot reports
// Loading=true. On success the cache is replaced atomically; on
// failure the previous cache is left untouched. Concurrent calls do
// not issue a second network round trip: they wait on the one
// in-flight call and observe its result.
func (s *Store) FetchRoutinesAndHabits(ctx context.Context) error {
	s.mu.Lock()
	if call := s.inflight; call != nil {
		s.mu.Unlock()
		select {
		case <-call.done:
			return call.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	call := &fetchCall{done: make(chan struct{})}
	s.inflight = call
	s.loading = true
	s.mu.Unlock()

	s.publish() // readers see Loading=true
	s.notify("routines.fetch", domain.OpPending, "Loading routines...", nil)

	start := time.Now()
	// The fetch is detached from the first caller's context so a
	// cancelled waiter cannot fail every other waiter.
	fctx, cancel := s.callCtx(context.Background())
	data, err := s.api.FetchAll(fctx)
	cancel()
	err = asTimeout("routines.fetch", err)

	s.mu.Lock()
	if err == nil {
		s.applyCollectionsLocked(data)
		s.stale = false
	}
	s.loading = false
	s.inflight = nil
	s.mu.Unlock()

	call.err = err
	close(call.done)
	s.publish()

	if err != nil {
		s.metrics.Ops.WithLabelValues("routines.fetch", "error").Inc()
		s.notify("routines.fetch", domain.OpRejected, "Could not load routines", err)
		s.logger.Warn("fetch failed", "err", err)
		return err
	}

	s.metrics.Ops.WithLabelValues("routines.fetch", "ok").Inc()
	s.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	s.notify("routines.fetch", domain.OpResolved, "Routines loaded", nil)
	s.persistSnapshot(ctx, data)
	return nil
}

// TriggerRoutinesRefresh marks the cache stale and schedules a fetch.
// Used by collaborators (the coach) that mutate data through a side
// channel rather than through the store.
func (s *Store) TriggerRoutinesRefresh() {
	s.mu.Lock()
	s.stale = true
	s.mu.Unlock()
	s.publish()

	go func() {
		if err := s.FetchRoutinesAndHabits(context.Background()); err != nil {
			s.logger.Warn("scheduled refresh failed", "err", err)
		}
	}()
}

// persistSnapshot saves the fetched data to the snapshot cache.
// Best-effort: failures are logged, never surfaced.
func (s *Store) persistSnapshot(ctx context.Context, data domain.Collections) {
	if s.cache == nil {
		return
	}
	cctx, cancel := s.callCtx(ctx)
	defer cancel()
	if err := s.cache.Save(cctx, data); err != nil {
		s.logger.Warn("snapshot cache save failed", "err", err)
	}
}
