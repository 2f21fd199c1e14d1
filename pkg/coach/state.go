// Package coach implements the conversational coach: a three-state
// controller (idle/thinking/talking) that serializes user-initiated AI
// requests, drives the external animation collaborator, and asks the
// data store to refresh after a routine was generated server-side.
//
// The transition logic is a pure function over (State, Event); the
// Machine executor applies the resulting effects. This keeps the state
// table testable without any animation or network concern in sight.
package coach

import (
	"github.com/tendhq/tend/pkg/domain"
	"github.com/tendhq/tend/pkg/ports"
)

// Phase is the coach's current mode.
type Phase string

const (
	Idle     Phase = "idle"
	Thinking Phase = "thinking"
	Talking  Phase = "talking"
)

// Fixed messages. The apology lands in Talking like any real reply:
// failure is a message, not a separate error state.
const (
	PonderingMessage = "Let me think about that..."
	ApologyMessage   = "Sorry, I don't have an answer for that right now. Give me another try in a moment."
)

// State is the coach's full condition between events.
type State struct {
	Phase   Phase
	Message string

	// PendingFn is the hosted function in flight while thinking.
	PendingFn string
	// PendingOp is the notification label space for that invocation.
	PendingOp string
}

// NewState returns the initial (idle, no message) state.
func NewState() State {
	return State{Phase: Idle}
}

// Event is an input to the transition function.
type Event interface{ isEvent() }

// SendMessage asks the coach a free-form question.
type SendMessage struct{ Prompt string }

// RequestRoutine asks the coach to generate habits for one routine.
type RequestRoutine struct{ TimeOfDay domain.TimeOfDay }

// InvocationSettled reports the outcome of the in-flight function
// call. Err is nil on success; an empty Response on success is treated
// the same as a failure.
type InvocationSettled struct {
	Response string
	Err      error
}

// PlaybackDone is the animator signaling that the typed reveal of the
// current message finished.
type PlaybackDone struct{}

func (SendMessage) isEvent()       {}
func (RequestRoutine) isEvent()    {}
func (InvocationSettled) isEvent() {}
func (PlaybackDone) isEvent()      {}

// Effect is an instruction for the executor. The transition function
// never performs side effects itself.
type Effect interface{ isEffect() }

// PlaySegment switches the avatar's looping animation.
type PlaySegment struct{ Segment ports.Segment }

// Invoke issues the hosted function call.
type Invoke struct {
	Fn      string
	Payload map[string]any
}

// Reveal starts the typed-text reveal of the current message.
type Reveal struct{ Message string }

// RefreshRoutines asks the data store to invalidate its cache (the
// generated routine arrived through a side channel).
type RefreshRoutines struct{}

// Notify reports operation lifecycle to the notification layer.
type Notify struct {
	Op    string
	Phase domain.OpPhase
	Label string
	Err   error
}

func (PlaySegment) isEffect()     {}
func (Invoke) isEffect()          {}
func (Reveal) isEffect()          {}
func (RefreshRoutines) isEffect() {}
func (Notify) isEffect()          {}

// Transition is the pure state-transition function. Unknown or
// ill-timed events leave the state unchanged with no effects; the
// guard on SendMessage/RequestRoutine outside Idle is how at most one
// AI call stays in flight.
func Transition(s State, ev Event) (State, []Effect) {
	switch e := ev.(type) {
	case SendMessage:
		if s.Phase != Idle || e.Prompt == "" {
			return s, nil
		}
		next := State{
			Phase:     Thinking,
			Message:   PonderingMessage,
			PendingFn: ports.FnAICoach,
			PendingOp: "coach.ask",
		}
		return next, []Effect{
			PlaySegment{Segment: ports.SegmentThinking},
			Notify{Op: next.PendingOp, Phase: domain.OpPending, Label: "Asking your coach..."},
			Invoke{Fn: ports.FnAICoach, Payload: map[string]any{"message": e.Prompt}},
		}

	case RequestRoutine:
		if s.Phase != Idle || !e.TimeOfDay.Valid() {
			return s, nil
		}
		next := State{
			Phase:     Thinking,
			Message:   PonderingMessage,
			PendingFn: ports.FnGenerateRoutine,
			PendingOp: "coach.plan",
		}
		return next, []Effect{
			PlaySegment{Segment: ports.SegmentThinking},
			Notify{Op: next.PendingOp, Phase: domain.OpPending, Label: "Drafting your routine..."},
			Invoke{Fn: ports.FnGenerateRoutine, Payload: map[string]any{"time_of_day": string(e.TimeOfDay)}},
		}

	case InvocationSettled:
		if s.Phase != Thinking {
			return s, nil
		}
		if e.Err != nil || e.Response == "" {
			next := State{Phase: Talking, Message: ApologyMessage}
			err := e.Err
			if err == nil {
				err = &domain.AIServiceError{Fn: s.PendingFn}
			}
			return next, []Effect{
				PlaySegment{Segment: ports.SegmentTalking},
				Notify{Op: s.PendingOp, Phase: domain.OpRejected, Label: "The coach is unavailable", Err: err},
				Reveal{Message: ApologyMessage},
			}
		}

		next := State{Phase: Talking, Message: e.Response}
		effects := []Effect{PlaySegment{Segment: ports.SegmentTalking}}
		if s.PendingFn == ports.FnGenerateRoutine {
			effects = append(effects,
				RefreshRoutines{},
				Notify{Op: s.PendingOp, Phase: domain.OpResolved, Label: "Routine updated"},
			)
		} else {
			effects = append(effects,
				Notify{Op: s.PendingOp, Phase: domain.OpResolved, Label: "Coach replied"},
			)
		}
		return next, append(effects, Reveal{Message: e.Response})

	case PlaybackDone:
		if s.Phase != Talking {
			return s, nil
		}
		return State{Phase: Idle, Message: s.Message}, []Effect{
			PlaySegment{Segment: ports.SegmentIdle},
		}
	}

	return s, nil
}
