// Package memapi implements ports.RemoteAPI in memory, behaving like
// the hosted backend: it assigns ids, enforces referential and name
// constraints, and cascades deletes server-side. It backs tests, the
// contract suite and the CLI's offline mode.
package memapi

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/tendhq/tend/pkg/domain"
	"github.com/tendhq/tend/pkg/ports"
)

// API is an in-memory authoritative backend. Safe for concurrent use.
type API struct {
	mu       sync.Mutex
	routines map[string]domain.Routine
	habits   map[string]domain.Habit
	logs     map[domain.LogKey]domain.HabitLog
	order    []string // habit insertion order, for stable FetchAll
	nextID   int

	// Fail, when set, is consulted before every call with the
	// operation name; a non-nil return is surfaced as the call's
	// error. Tests use it for fault injection.
	Fail func(op string) error

	// Coach, when set, answers ai-coach invocations. Defaults to a
	// canned reply.
	Coach func(message string) string
}

// New creates a backend seeded with the standard morning and evening
// routines.
func New() *API {
	a := NewEmpty()
	a.SeedRoutine("Morning Routine", domain.Morning)
	a.SeedRoutine("Evening Routine", domain.Evening)
	return a
}

// NewEmpty creates a backend with no data at all.
func NewEmpty() *API {
	return &API{
		routines: make(map[string]domain.Routine),
		habits:   make(map[string]domain.Habit),
		logs:     make(map[domain.LogKey]domain.HabitLog),
	}
}

// SeedRoutine inserts a routine directly, returning its id.
func (a *API) SeedRoutine(name string, t domain.TimeOfDay) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.newID("r")
	a.routines[id] = domain.Routine{ID: id, Name: name, TimeOfDay: t}
	return id
}

// RoutineID returns the id of the routine for the given time of day.
func (a *API) RoutineID(t domain.TimeOfDay) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for id, r := range a.routines {
		if r.TimeOfDay == t {
			return id, true
		}
	}
	return "", false
}

func (a *API) newID(prefix string) string {
	a.nextID++
	return fmt.Sprintf("%s-%04d", prefix, a.nextID)
}

func (a *API) fail(op string) error {
	if a.Fail != nil {
		return a.Fail(op)
	}
	return nil
}

// FetchAll returns every collection in one consistent read.
func (a *API) FetchAll(ctx context.Context) (domain.Collections, error) {
	if err := a.fail("fetch_all"); err != nil {
		return domain.Collections{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	out := domain.Collections{}
	for _, r := range a.routines {
		out.Routines = append(out.Routines, r)
	}
	for _, id := range a.order {
		if h, ok := a.habits[id]; ok {
			out.Habits = append(out.Habits, h)
		}
	}
	for _, l := range a.logs {
		out.HabitLogs = append(out.HabitLogs, l)
	}
	return out, nil
}

// CreateHabit validates and creates a habit with a server-assigned id.
func (a *API) CreateHabit(ctx context.Context, name, routineID string) (domain.Habit, error) {
	if err := a.fail("create_habit"); err != nil {
		return domain.Habit{}, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Habit{}, &domain.ValidationError{Field: "name", Reason: "habit name is required"}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.routines[routineID]; !ok {
		return domain.Habit{}, &domain.ValidationError{
			Field:  "routine_id",
			Reason: fmt.Sprintf("routine %q does not exist", routineID),
		}
	}
	for _, h := range a.habits {
		if h.RoutineID == routineID && strings.EqualFold(h.Name, name) {
			return domain.Habit{}, &domain.ValidationError{
				Field:  "name",
				Reason: fmt.Sprintf("habit %q already exists in this routine", name),
			}
		}
	}

	h := domain.Habit{ID: a.newID("h"), Name: name, RoutineID: routineID}
	a.habits[h.ID] = h
	a.order = append(a.order, h.ID)
	return h, nil
}

// SetHabitCompletion upserts the log for (habitID, date).
func (a *API) SetHabitCompletion(ctx context.Context, habitID string, date domain.Date, completed bool) error {
	if err := a.fail("set_completion"); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.habits[habitID]; !ok {
		return &domain.ValidationError{
			Field:  "habit_id",
			Reason: fmt.Sprintf("habit %q does not exist", habitID),
		}
	}
	key := domain.LogKey{HabitID: habitID, Date: date}
	a.logs[key] = domain.HabitLog{HabitID: habitID, Date: date, Completed: completed}
	return nil
}

// DeleteHabit removes a habit and its logs.
func (a *API) DeleteHabit(ctx context.Context, habitID string) error {
	if err := a.fail("delete_habit"); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.deleteHabitLocked(habitID)
	return nil
}

// DeleteRoutine removes a routine, its habits and their logs.
func (a *API) DeleteRoutine(ctx context.Context, routineID string) error {
	if err := a.fail("delete_routine"); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	delete(a.routines, routineID)
	for id, h := range a.habits {
		if h.RoutineID == routineID {
			a.deleteHabitLocked(id)
		}
	}
	return nil
}

func (a *API) deleteHabitLocked(habitID string) {
	delete(a.habits, habitID)
	for key := range a.logs {
		if key.HabitID == habitID {
			delete(a.logs, key)
		}
	}
}

// InvokeFunction serves the two hosted functions with canned behavior.
// "generate-routine" replaces the habits of the requested routine with
// a small generated set, mimicking the real function's side channel.
func (a *API) InvokeFunction(ctx context.Context, name string, payload map[string]any) (ports.FunctionResult, error) {
	if err := a.fail("invoke_" + name); err != nil {
		return ports.FunctionResult{}, err
	}

	switch name {
	case ports.FnAICoach:
		msg, _ := payload["message"].(string)
		if a.Coach != nil {
			return ports.FunctionResult{Response: a.Coach(msg)}, nil
		}
		return ports.FunctionResult{
			Response: "Start small: pick one habit and anchor it to something you already do every day.",
		}, nil

	case ports.FnGenerateRoutine:
		tod := domain.TimeOfDay(fmt.Sprint(payload["time_of_day"]))
		if !tod.Valid() {
			return ports.FunctionResult{}, &domain.ValidationError{
				Field:  "time_of_day",
				Reason: "must be morning or evening",
			}
		}
		a.generateRoutine(tod)
		return ports.FunctionResult{
			Response: fmt.Sprintf("I put together a fresh %s routine for you. Take a look!", tod),
			Message:  "routine generated",
		}, nil

	default:
		return ports.FunctionResult{}, &domain.NetworkError{
			Op:  "invoke_function",
			Err: fmt.Errorf("unknown function %q", name),
		}
	}
}

func (a *API) generateRoutine(tod domain.TimeOfDay) {
	suggestions := map[domain.TimeOfDay][]string{
		domain.Morning: {"Drink a glass of water", "Five minutes of stretching", "Write down one priority"},
		domain.Evening: {"No screens after dinner", "Read ten pages", "Prepare tomorrow's clothes"},
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	var routineID string
	for id, r := range a.routines {
		if r.TimeOfDay == tod {
			routineID = id
			break
		}
	}
	if routineID == "" {
		name := "Morning Routine"
		if tod == domain.Evening {
			name = "Evening Routine"
		}
		routineID = a.newID("r")
		a.routines[routineID] = domain.Routine{ID: routineID, Name: name, TimeOfDay: tod}
	}

	for id, h := range a.habits {
		if h.RoutineID == routineID {
			a.deleteHabitLocked(id)
		}
	}
	for _, name := range suggestions[tod] {
		h := domain.Habit{ID: a.newID("h"), Name: name, RoutineID: routineID}
		a.habits[h.ID] = h
		a.order = append(a.order, h.ID)
	}
}
