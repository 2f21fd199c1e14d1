// Package store implements the client-side synchronization store: the
// single shared cache of routines, habits and completion logs that
// mediates between UI actions and the remote API.
//
// The cache is a view, never the source of truth. Every mutation
// funnels through a Store method, forwards to the remote API, and
// leaves the cache in a well-defined state on both outcomes: updated
// on success, untouched (or reverted, for the optimistic toggle path)
// on failure.
package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/tendhq/tend/internal/logging"
	"github.com/tendhq/tend/internal/metrics"
	"github.com/tendhq/tend/pkg/domain"
	"github.com/tendhq/tend/pkg/ports"
)

// DefaultTimeout bounds remote data calls when no override is given.
const DefaultTimeout = 10 * time.Second

// Subscriber receives a fresh snapshot after every cache change.
// Called without any internal lock held; must not block for long.
type Subscriber func(domain.Snapshot)

// Store is the single authoritative in-process cache. Safe for
// concurrent use.
type Store struct {
	api      ports.RemoteAPI
	notifier ports.Notifier
	cache    ports.SnapshotCache // optional warm-start persistence
	logger   *slog.Logger
	metrics  *metrics.Store
	timeout  time.Duration
	clock    func() domain.Date

	mu       sync.Mutex
	routines []domain.Routine
	habits   []domain.Habit
	logs     map[domain.LogKey]domain.HabitLog
	loading  bool
	stale    bool

	inflight  *fetchCall
	toggleGen map[string]uint64

	subMu   sync.Mutex
	subs    map[int]Subscriber
	nextSub int
}

// Option configures the Store.
type Option func(*Store)

// WithNotifier attaches the operation lifecycle observer.
func WithNotifier(n ports.Notifier) Option {
	return func(s *Store) {
		s.notifier = n
	}
}

// WithLogger configures a logger for internal events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithSnapshotCache enables best-effort persistence of the
// last-known-good data set.
func WithSnapshotCache(c ports.SnapshotCache) Option {
	return func(s *Store) {
		s.cache = c
	}
}

// WithTimeout bounds every remote data call.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.timeout = d
	}
}

// WithMetrics attaches prometheus instruments.
func WithMetrics(m *metrics.Store) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// WithClock overrides the notion of "today". Tests use this to pin
// dates.
func WithClock(clock func() domain.Date) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

// New creates an empty store backed by the given remote API.
func New(api ports.RemoteAPI, opts ...Option) *Store {
	s := &Store{
		api:       api,
		notifier:  ports.NopNotifier(),
		logger:    logging.NewNop(),
		metrics:   metrics.NewNop(),
		timeout:   DefaultTimeout,
		clock:     domain.Today,
		logs:      make(map[domain.LogKey]domain.HabitLog),
		toggleGen: make(map[string]uint64),
		subs:      make(map[int]Subscriber),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns an internally consistent copy of the cache.
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() domain.Snapshot {
	snap := domain.Snapshot{
		Routines:  make([]domain.Routine, len(s.routines)),
		Habits:    make([]domain.Habit, len(s.habits)),
		HabitLogs: make(map[domain.LogKey]domain.HabitLog, len(s.logs)),
		Loading:   s.loading,
		Stale:     s.stale,
	}
	copy(snap.Routines, s.routines)
	copy(snap.Habits, s.habits)
	for k, v := range s.logs {
		snap.HabitLogs[k] = v
	}
	return snap
}

// Subscribe registers fn to run after every cache change. The returned
// function unsubscribes.
func (s *Store) Subscribe(fn Subscriber) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// publish pushes the current snapshot to all subscribers. The cache
// lock must NOT be held; subscribers may call back into the store.
func (s *Store) publish() {
	snap := s.Snapshot()

	s.subMu.Lock()
	subs := make([]Subscriber, 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

// MorningRoutine returns the morning routine from the current
// snapshot, or a MissingRoutineError.
func (s *Store) MorningRoutine() (domain.Routine, error) {
	return s.Snapshot().RoutineByTime(domain.Morning)
}

// EveningRoutine returns the evening routine from the current
// snapshot, or a MissingRoutineError.
func (s *Store) EveningRoutine() (domain.Routine, error) {
	return s.Snapshot().RoutineByTime(domain.Evening)
}

// WarmStart preloads the cache from the snapshot cache, if one is
// configured and holds data. The next successful fetch replaces it.
func (s *Store) WarmStart(ctx context.Context) {
	if s.cache == nil {
		return
	}
	data, err := s.cache.Load(ctx)
	if err != nil {
		if !errors.Is(err, ports.ErrNoSnapshot) {
			s.logger.Warn("warm start skipped", "err", err)
		}
		return
	}

	s.mu.Lock()
	s.applyCollectionsLocked(data)
	s.stale = true // cached data is by definition possibly behind the server
	s.mu.Unlock()

	s.publish()
	s.logger.Debug("warm start applied",
		"routines", len(data.Routines), "habits", len(data.Habits))
}

// applyCollectionsLocked replaces all three collections atomically.
func (s *Store) applyCollectionsLocked(data domain.Collections) {
	s.routines = make([]domain.Routine, len(data.Routines))
	copy(s.routines, data.Routines)
	s.habits = make([]domain.Habit, len(data.Habits))
	copy(s.habits, data.Habits)
	s.logs = make(map[domain.LogKey]domain.HabitLog, len(data.HabitLogs))
	for _, l := range data.HabitLogs {
		s.logs[l.Key()] = l
	}
}

// notify emits one lifecycle event to the attached notifier.
func (s *Store) notify(op string, phase domain.OpPhase, label string, err error) {
	s.notifier.Notify(domain.OpEvent{
		Timestamp: time.Now(),
		Op:        op,
		Phase:     phase,
		Label:     label,
		Err:       err,
	})
}

// callCtx derives the bounded context for a remote call.
func (s *Store) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// asTimeout converts a deadline-exceeded failure into the distinct
// TimeoutError kind; everything else passes through.
func asTimeout(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &domain.TimeoutError{Op: op}
	}
	return err
}
