package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tendhq/tend/pkg/domain"
	"github.com/tendhq/tend/pkg/ports"
	"github.com/tendhq/tend/pkg/store"
)

// fakeAPI is a controllable RemoteAPI for store tests. Each method
// delegates to a function field when set, so individual tests can
// block, fail or count calls.
type fakeAPI struct {
	mu         sync.Mutex
	fetchCalls int
	setCalls   int

	fetchFn  func(ctx context.Context) (domain.Collections, error)
	createFn func(ctx context.Context, name, routineID string) (domain.Habit, error)
	setFn    func(ctx context.Context, habitID string, date domain.Date, completed bool) error
	delHabit func(ctx context.Context, habitID string) error
	delRout  func(ctx context.Context, routineID string) error
}

func (f *fakeAPI) FetchAll(ctx context.Context) (domain.Collections, error) {
	f.mu.Lock()
	f.fetchCalls++
	f.mu.Unlock()
	if f.fetchFn != nil {
		return f.fetchFn(ctx)
	}
	return fixture(), nil
}

func (f *fakeAPI) CreateHabit(ctx context.Context, name, routineID string) (domain.Habit, error) {
	if f.createFn != nil {
		return f.createFn(ctx, name, routineID)
	}
	return domain.Habit{ID: "h-new", Name: name, RoutineID: routineID}, nil
}

func (f *fakeAPI) SetHabitCompletion(ctx context.Context, habitID string, date domain.Date, completed bool) error {
	f.mu.Lock()
	f.setCalls++
	f.mu.Unlock()
	if f.setFn != nil {
		return f.setFn(ctx, habitID, date, completed)
	}
	return nil
}

func (f *fakeAPI) DeleteHabit(ctx context.Context, habitID string) error {
	if f.delHabit != nil {
		return f.delHabit(ctx, habitID)
	}
	return nil
}

func (f *fakeAPI) DeleteRoutine(ctx context.Context, routineID string) error {
	if f.delRout != nil {
		return f.delRout(ctx, routineID)
	}
	return nil
}

func (f *fakeAPI) InvokeFunction(ctx context.Context, name string, payload map[string]any) (ports.FunctionResult, error) {
	return ports.FunctionResult{}, nil
}

func (f *fakeAPI) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchCalls
}

// fixture is the canonical seeded backend state: two routines, two
// habits under morning, one completed log.
func fixture() domain.Collections {
	return domain.Collections{
		Routines: []domain.Routine{
			{ID: "r-am", Name: "Morning", TimeOfDay: domain.Morning},
			{ID: "r-pm", Name: "Evening", TimeOfDay: domain.Evening},
		},
		Habits: []domain.Habit{
			{ID: "h1", Name: "Meditate", RoutineID: "r-am"},
			{ID: "h2", Name: "Stretch", RoutineID: "r-am"},
		},
		HabitLogs: []domain.HabitLog{
			{HabitID: "h1", Date: "2026-08-30", Completed: true},
		},
	}
}

// loaded returns a store pre-populated with the fixture.
func loaded(t *testing.T, api *fakeAPI, opts ...store.Option) *store.Store {
	t.Helper()
	s := store.New(api, opts...)
	if err := s.FetchRoutinesAndHabits(context.Background()); err != nil {
		t.Fatalf("initial fetch failed: %v", err)
	}
	return s
}

func TestStore_SnapshotIsolation(t *testing.T) {
	s := loaded(t, &fakeAPI{})

	snap := s.Snapshot()
	snap.Routines[0].Name = "mutated"
	snap.Habits[0].Name = "mutated"
	snap.HabitLogs[domain.LogKey{HabitID: "h1", Date: "2026-08-30"}] = domain.HabitLog{}

	fresh := s.Snapshot()
	if fresh.Routines[0].Name != "Morning" {
		t.Error("snapshot mutation leaked into routines cache")
	}
	if fresh.Habits[0].Name != "Meditate" {
		t.Error("snapshot mutation leaked into habits cache")
	}
	if !fresh.Completed("h1", "2026-08-30") {
		t.Error("snapshot mutation leaked into logs cache")
	}
}

func TestStore_Subscribe(t *testing.T) {
	api := &fakeAPI{}
	s := store.New(api)

	var mu sync.Mutex
	var seen []int
	unsub := s.Subscribe(func(snap domain.Snapshot) {
		mu.Lock()
		seen = append(seen, len(snap.Habits))
		mu.Unlock()
	})

	if err := s.FetchRoutinesAndHabits(context.Background()); err != nil {
		t.Fatal(err)
	}

	mu.Lock()
	got := len(seen)
	mu.Unlock()
	if got == 0 {
		t.Fatal("subscriber never notified")
	}

	unsub()
	if _, err := s.AddHabit(context.Background(), "Hydrate", "r-am"); err != nil {
		t.Fatal(err)
	}

	mu.Lock()
	after := len(seen)
	mu.Unlock()
	if after != got {
		t.Errorf("subscriber notified after unsubscribe: %d -> %d", got, after)
	}
}

func TestStore_MissingRoutine(t *testing.T) {
	api := &fakeAPI{
		fetchFn: func(ctx context.Context) (domain.Collections, error) {
			return domain.Collections{
				Routines: []domain.Routine{{ID: "r-pm", Name: "Evening", TimeOfDay: domain.Evening}},
			}, nil
		},
	}
	s := loaded(t, api)

	_, err := s.MorningRoutine()
	var missing *domain.MissingRoutineError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingRoutineError, got %v", err)
	}
	if missing.TimeOfDay != domain.Morning {
		t.Errorf("wrong time of day: %s", missing.TimeOfDay)
	}

	if _, err := s.EveningRoutine(); err != nil {
		t.Errorf("evening routine should resolve: %v", err)
	}
}

func TestStore_AddHabit(t *testing.T) {
	t.Run("WriteThrough Success", func(t *testing.T) {
		s := loaded(t, &fakeAPI{})
		h, err := s.AddHabit(context.Background(), "Hydrate", "r-am")
		if err != nil {
			t.Fatal(err)
		}
		if h.ID != "h-new" {
			t.Errorf("expected server-assigned id, got %q", h.ID)
		}
		if _, ok := s.Snapshot().HabitByID("h-new"); !ok {
			t.Error("created habit missing from cache")
		}
	})

	t.Run("Unknown Routine Rejected Locally", func(t *testing.T) {
		api := &fakeAPI{
			createFn: func(ctx context.Context, name, routineID string) (domain.Habit, error) {
				t.Error("remote call issued for unknown routine")
				return domain.Habit{}, nil
			},
		}
		s := loaded(t, api)
		_, err := s.AddHabit(context.Background(), "Hydrate", "r-nope")
		if !domain.IsValidation(err) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("Failure Leaves Cache Unchanged", func(t *testing.T) {
		api := &fakeAPI{
			createFn: func(ctx context.Context, name, routineID string) (domain.Habit, error) {
				return domain.Habit{}, &domain.NetworkError{Op: "habit.add", Err: context.DeadlineExceeded}
			},
		}
		s := loaded(t, api)
		before := len(s.Snapshot().Habits)
		if _, err := s.AddHabit(context.Background(), "Hydrate", "r-am"); err == nil {
			t.Fatal("expected error")
		}
		if got := len(s.Snapshot().Habits); got != before {
			t.Errorf("cache changed on failed create: %d -> %d", before, got)
		}
	})
}

func TestStore_Notifications(t *testing.T) {
	var mu sync.Mutex
	var phases []domain.OpPhase
	notifier := ports.NotifierFunc(func(ev domain.OpEvent) {
		if ev.Op != "habit.add" {
			return
		}
		mu.Lock()
		phases = append(phases, ev.Phase)
		mu.Unlock()
	})

	s := loaded(t, &fakeAPI{}, store.WithNotifier(notifier))
	if _, err := s.AddHabit(context.Background(), "Hydrate", "r-am"); err != nil {
		t.Fatal(err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(phases) != 2 || phases[0] != domain.OpPending || phases[1] != domain.OpResolved {
		t.Errorf("expected pending then resolved, got %v", phases)
	}
}

func TestStore_Timeout(t *testing.T) {
	api := &fakeAPI{
		fetchFn: func(ctx context.Context) (domain.Collections, error) {
			<-ctx.Done()
			return domain.Collections{}, ctx.Err()
		},
	}
	s := store.New(api, store.WithTimeout(20*time.Millisecond))

	err := s.FetchRoutinesAndHabits(context.Background())
	if !domain.IsTimeout(err) {
		t.Fatalf("expected TimeoutError, got %v", err)
	}
	if s.Snapshot().Loading {
		t.Error("loading flag not cleared after timeout")
	}
}
