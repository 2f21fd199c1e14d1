package domain

// TimeOfDay identifies which of the two fixed routines an entity belongs to.
type TimeOfDay string

const (
	Morning TimeOfDay = "morning"
	Evening TimeOfDay = "evening"
)

// Valid reports whether t is one of the two supported values.
func (t TimeOfDay) Valid() bool {
	return t == Morning || t == Evening
}

// Routine is a named container (morning/evening) for a set of habits.
// Exactly one routine per TimeOfDay is expected to exist per account.
type Routine struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TimeOfDay TimeOfDay `json:"time_of_day"`
}

// Habit is a single trackable action belonging to one routine.
// RoutineID always references a routine present in the same snapshot.
type Habit struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	RoutineID string `json:"routine_id"`
}

// HabitLog records completion state of one habit for one day.
// At most one log exists per (HabitID, Date) pair.
type HabitLog struct {
	HabitID   string `json:"habit_id"`
	Date      Date   `json:"date"`
	Completed bool   `json:"completed"`
}

// LogKey identifies a HabitLog within a snapshot.
type LogKey struct {
	HabitID string
	Date    Date
}

// Key returns the log's identity pair.
func (l HabitLog) Key() LogKey {
	return LogKey{HabitID: l.HabitID, Date: l.Date}
}

// Collections is the full data set served by the remote API in one
// logical fetch.
type Collections struct {
	Routines  []Routine  `json:"routines"`
	Habits    []Habit    `json:"habits"`
	HabitLogs []HabitLog `json:"habit_logs"`
}
