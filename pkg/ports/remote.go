package ports

import (
	"context"

	"github.com/tendhq/tend/pkg/domain"
)

// Function names accepted by RemoteAPI.InvokeFunction.
const (
	FnAICoach         = "ai-coach"
	FnGenerateRoutine = "generate-routine"
)

// FunctionResult is the settled payload of a hosted function call.
// Response carries the usable content; Message is an optional status
// line from the function itself.
type FunctionResult struct {
	Response string `json:"response,omitempty"`
	Message  string `json:"message,omitempty"`
}

// RemoteAPI is the authoritative backend boundary. The client cache is
// only ever a view of what these calls return.
//
// Error contract: data calls fail with *domain.NetworkError or
// *domain.TimeoutError; CreateHabit may additionally fail with
// *domain.ValidationError; InvokeFunction may additionally fail with
// *domain.AIServiceError when it settles without usable content.
type RemoteAPI interface {
	// FetchAll loads all three collections in one logical call.
	FetchAll(ctx context.Context) (domain.Collections, error)

	// CreateHabit creates a habit under the given routine. The id is
	// assigned by the server and returned in the result.
	CreateHabit(ctx context.Context, name, routineID string) (domain.Habit, error)

	// SetHabitCompletion upserts the completion log for (habitID, date).
	SetHabitCompletion(ctx context.Context, habitID string, date domain.Date, completed bool) error

	// DeleteHabit removes a habit and, server-side, its logs.
	DeleteHabit(ctx context.Context, habitID string) error

	// DeleteRoutine removes a routine and cascades server-side.
	DeleteRoutine(ctx context.Context, routineID string) error

	// InvokeFunction calls a hosted function ("ai-coach" or
	// "generate-routine") with an opaque payload.
	InvokeFunction(ctx context.Context, name string, payload map[string]any) (FunctionResult, error)
}
