package store

import (
	"context"
	"fmt"

	"github.com/tendhq/tend/pkg/domain"
)

// AddHabit creates a habit under the given routine. Write-through: the
// habit only appears in the cache once the server has assigned its id.
// The routine id must exist in the current cache; deeper constraints
// (duplicate names etc.) are delegated to the remote API.
func (s *Store) AddHabit(ctx context.Context, name, routineID string) (domain.Habit, error) {
	s.mu.Lock()
	known := s.hasRoutineLocked(routineID)
	s.mu.Unlock()
	if !known {
		return domain.Habit{}, &domain.ValidationError{
			Field:  "routine_id",
			Reason: fmt.Sprintf("routine %q not found", routineID),
		}
	}

	s.notify("habit.add", domain.OpPending, "Adding habit...", nil)

	cctx, cancel := s.callCtx(ctx)
	habit, err := s.api.CreateHabit(cctx, name, routineID)
	cancel()
	if err = asTimeout("habit.add", err); err != nil {
		s.metrics.Ops.WithLabelValues("habit.add", "error").Inc()
		s.notify("habit.add", domain.OpRejected, "Could not add habit", err)
		return domain.Habit{}, err
	}

	s.mu.Lock()
	s.habits = append(s.habits, habit)
	s.mu.Unlock()
	s.publish()

	s.metrics.Ops.WithLabelValues("habit.add", "ok").Inc()
	s.notify("habit.add", domain.OpResolved, "Habit added", nil)
	return habit, nil
}

// ToggleHabit sets the completion state of a habit for today.
// Optimistic: the cache reflects the new value before the network call
// resolves. On failure the log entry reverts to its pre-toggle value
// (or is removed if it did not exist) unless a newer toggle on the
// same habit has already superseded this one.
func (s *Store) ToggleHabit(ctx context.Context, habitID string, completed bool) error {
	today := s.clock()
	key := domain.LogKey{HabitID: habitID, Date: today}

	s.mu.Lock()
	if _, ok := s.habitByIDLocked(habitID); !ok {
		s.mu.Unlock()
		return &domain.ValidationError{
			Field:  "habit_id",
			Reason: fmt.Sprintf("habit %q not found", habitID),
		}
	}

	prev, hadPrev := s.logs[key]
	s.toggleGen[habitID]++
	gen := s.toggleGen[habitID]
	s.logs[key] = domain.HabitLog{HabitID: habitID, Date: today, Completed: completed}
	s.mu.Unlock()
	s.publish()

	s.notify("habit.toggle", domain.OpPending, "Saving...", nil)

	cctx, cancel := s.callCtx(ctx)
	err := s.api.SetHabitCompletion(cctx, habitID, today, completed)
	cancel()
	if err = asTimeout("habit.toggle", err); err != nil {
		s.rollbackToggle(key, gen, prev, hadPrev)
		s.metrics.Ops.WithLabelValues("habit.toggle", "error").Inc()
		s.notify("habit.toggle", domain.OpRejected, "Could not save completion", err)
		return err
	}

	// Success needs no further mutation: the optimistic value is
	// already correct.
	s.metrics.Ops.WithLabelValues("habit.toggle", "ok").Inc()
	s.notify("habit.toggle", domain.OpResolved, "Saved", nil)
	return nil
}

// rollbackToggle reverts an optimistic toggle, but only if no newer
// toggle on the same habit has been issued since: a stale network
// result must never overwrite a newer optimistic value.
//
// When overlapping toggles on one habit all fail, only the newest
// rollback applies, restoring its own pre-toggle view — which may be
// an earlier toggle's unconfirmed value. The cache can then disagree
// with the server until the next fetch reconciles it; each rollback
// reverts exactly one toggle, it does not re-derive server state.
func (s *Store) rollbackToggle(key domain.LogKey, gen uint64, prev domain.HabitLog, hadPrev bool) {
	s.mu.Lock()
	if s.toggleGen[key.HabitID] != gen {
		s.mu.Unlock()
		return
	}
	if hadPrev {
		s.logs[key] = prev
	} else {
		delete(s.logs, key)
	}
	s.mu.Unlock()

	s.metrics.Rollbacks.Inc()
	s.publish()
}

// DeleteHabit removes a habit. Write-through: on success the habit and
// every log referencing it leave the cache atomically; on failure the
// cache is unchanged.
func (s *Store) DeleteHabit(ctx context.Context, habitID string) error {
	s.notify("habit.delete", domain.OpPending, "Removing habit...", nil)

	cctx, cancel := s.callCtx(ctx)
	err := s.api.DeleteHabit(cctx, habitID)
	cancel()
	if err = asTimeout("habit.delete", err); err != nil {
		s.metrics.Ops.WithLabelValues("habit.delete", "error").Inc()
		s.notify("habit.delete", domain.OpRejected, "Could not remove habit", err)
		return err
	}

	s.mu.Lock()
	s.removeHabitsLocked(map[string]bool{habitID: true})
	s.mu.Unlock()
	s.publish()

	s.metrics.Ops.WithLabelValues("habit.delete", "ok").Inc()
	s.notify("habit.delete", domain.OpResolved, "Habit removed", nil)
	return nil
}

// DeleteRoutine removes a routine and cascades over its habits and
// their logs. The cascade is all-or-nothing on the cache: it is applied
// in one critical section only after the server confirmed the delete.
func (s *Store) DeleteRoutine(ctx context.Context, routineID string) error {
	s.notify("routine.delete", domain.OpPending, "Removing routine...", nil)

	cctx, cancel := s.callCtx(ctx)
	err := s.api.DeleteRoutine(cctx, routineID)
	cancel()
	if err = asTimeout("routine.delete", err); err != nil {
		s.metrics.Ops.WithLabelValues("routine.delete", "error").Inc()
		s.notify("routine.delete", domain.OpRejected, "Could not remove routine", err)
		return err
	}

	s.mu.Lock()
	doomed := make(map[string]bool)
	for _, h := range s.habits {
		if h.RoutineID == routineID {
			doomed[h.ID] = true
		}
	}
	s.removeHabitsLocked(doomed)
	kept := s.routines[:0]
	for _, r := range s.routines {
		if r.ID != routineID {
			kept = append(kept, r)
		}
	}
	s.routines = kept
	s.mu.Unlock()
	s.publish()

	s.metrics.Ops.WithLabelValues("routine.delete", "ok").Inc()
	s.notify("routine.delete", domain.OpResolved, "Routine removed", nil)
	return nil
}

// removeHabitsLocked drops the given habits and all their logs.
func (s *Store) removeHabitsLocked(ids map[string]bool) {
	kept := s.habits[:0]
	for _, h := range s.habits {
		if !ids[h.ID] {
			kept = append(kept, h)
		}
	}
	s.habits = kept

	for k := range s.logs {
		if ids[k.HabitID] {
			delete(s.logs, k)
		}
	}
}

func (s *Store) hasRoutineLocked(id string) bool {
	for _, r := range s.routines {
		if r.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) habitByIDLocked(id string) (domain.Habit, bool) {
	for _, h := range s.habits {
		if h.ID == id {
			return h, true
		}
	}
	return domain.Habit{}, false
}
