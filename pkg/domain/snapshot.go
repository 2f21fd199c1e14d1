package domain

// Snapshot is an internally consistent copy of the client cache. All
// three collections come from the same point in time; readers never
// observe a torn state across them.
type Snapshot struct {
	Routines  []Routine
	Habits    []Habit
	HabitLogs map[LogKey]HabitLog

	// Loading is true while a fetch is outstanding.
	Loading bool

	// Stale is true after a collaborator mutated data through a side
	// channel and a refresh has been requested but not yet completed.
	Stale bool
}

// RoutineByTime returns the routine for the given time of day, or a
// MissingRoutineError if it is absent from this snapshot.
func (s Snapshot) RoutineByTime(t TimeOfDay) (Routine, error) {
	for _, r := range s.Routines {
		if r.TimeOfDay == t {
			return r, nil
		}
	}
	return Routine{}, &MissingRoutineError{TimeOfDay: t}
}

// HabitsOf returns the habits belonging to the given routine, in
// cache order.
func (s Snapshot) HabitsOf(routineID string) []Habit {
	var out []Habit
	for _, h := range s.Habits {
		if h.RoutineID == routineID {
			out = append(out, h)
		}
	}
	return out
}

// HasRoutine reports whether the routine id exists in this snapshot.
func (s Snapshot) HasRoutine(id string) bool {
	for _, r := range s.Routines {
		if r.ID == id {
			return true
		}
	}
	return false
}

// HabitByID looks a habit up by id.
func (s Snapshot) HabitByID(id string) (Habit, bool) {
	for _, h := range s.Habits {
		if h.ID == id {
			return h, true
		}
	}
	return Habit{}, false
}

// LogFor returns the completion log for (habitID, date), if any.
func (s Snapshot) LogFor(habitID string, date Date) (HabitLog, bool) {
	l, ok := s.HabitLogs[LogKey{HabitID: habitID, Date: date}]
	return l, ok
}

// Completed reports whether the habit is marked done for the date.
// Absence of a log counts as not completed.
func (s Snapshot) Completed(habitID string, date Date) bool {
	l, ok := s.LogFor(habitID, date)
	return ok && l.Completed
}
