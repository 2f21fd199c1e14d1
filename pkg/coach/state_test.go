package coach

import (
	"errors"
	"testing"

	"github.com/tendhq/tend/pkg/domain"
	"github.com/tendhq/tend/pkg/ports"
)

func TestTransition_IdleToThinking(t *testing.T) {
	next, effects := Transition(NewState(), SendMessage{Prompt: "how do I sleep better?"})

	if next.Phase != Thinking {
		t.Fatalf("expected thinking, got %s", next.Phase)
	}
	if next.Message != PonderingMessage {
		t.Errorf("expected pondering placeholder, got %q", next.Message)
	}

	inv := findInvoke(effects)
	if inv == nil {
		t.Fatal("no Invoke effect emitted")
	}
	if inv.Fn != ports.FnAICoach {
		t.Errorf("wrong function: %s", inv.Fn)
	}
	if inv.Payload["message"] != "how do I sleep better?" {
		t.Errorf("prompt not forwarded: %v", inv.Payload)
	}
}

func TestTransition_EmptyPromptIsNoop(t *testing.T) {
	s := NewState()
	next, effects := Transition(s, SendMessage{Prompt: ""})
	if next != s || len(effects) != 0 {
		t.Error("empty prompt must be a no-op")
	}
}

func TestTransition_GuardOutsideIdle(t *testing.T) {
	thinking, _ := Transition(NewState(), SendMessage{Prompt: "hi"})

	for name, ev := range map[string]Event{
		"SendMessage":    SendMessage{Prompt: "hi again"},
		"RequestRoutine": RequestRoutine{TimeOfDay: domain.Morning},
	} {
		next, effects := Transition(thinking, ev)
		if next != thinking {
			t.Errorf("%s while thinking changed state to %s", name, next.Phase)
		}
		if len(effects) != 0 {
			t.Errorf("%s while thinking emitted effects (a second invocation?)", name)
		}
	}
}

func TestTransition_RequestRoutine(t *testing.T) {
	next, effects := Transition(NewState(), RequestRoutine{TimeOfDay: domain.Evening})
	if next.Phase != Thinking || next.PendingFn != ports.FnGenerateRoutine {
		t.Fatalf("unexpected state: %+v", next)
	}
	inv := findInvoke(effects)
	if inv == nil || inv.Payload["time_of_day"] != "evening" {
		t.Errorf("time of day not forwarded: %+v", inv)
	}

	s := NewState()
	if got, fx := Transition(s, RequestRoutine{TimeOfDay: "noon"}); got != s || len(fx) != 0 {
		t.Error("invalid time of day must be a no-op")
	}
}

func TestTransition_SuccessLandsInTalking(t *testing.T) {
	thinking, _ := Transition(NewState(), SendMessage{Prompt: "hi"})
	next, effects := Transition(thinking, InvocationSettled{Response: "Try a wind-down alarm."})

	if next.Phase != Talking || next.Message != "Try a wind-down alarm." {
		t.Fatalf("unexpected state: %+v", next)
	}
	if !hasReveal(effects, "Try a wind-down alarm.") {
		t.Error("reveal effect missing")
	}
	if hasRefresh(effects) {
		t.Error("chat reply must not trigger a cache refresh")
	}
}

func TestTransition_RoutineSuccessRefreshes(t *testing.T) {
	thinking, _ := Transition(NewState(), RequestRoutine{TimeOfDay: domain.Morning})
	next, effects := Transition(thinking, InvocationSettled{Response: "Here is your new morning routine."})

	if next.Phase != Talking {
		t.Fatalf("expected talking, got %s", next.Phase)
	}
	if !hasRefresh(effects) {
		t.Error("routine generation success must request a cache refresh")
	}
	if !hasNotify(effects, domain.OpResolved) {
		t.Error("success notification missing")
	}
}

func TestTransition_FallbackToApology(t *testing.T) {
	cases := map[string]InvocationSettled{
		"Failure":        {Err: errors.New("boom")},
		"Empty Response": {Response: ""},
	}
	for name, settled := range cases {
		t.Run(name, func(t *testing.T) {
			thinking, _ := Transition(NewState(), SendMessage{Prompt: "hi"})
			next, effects := Transition(thinking, settled)

			// Both outcomes land in talking; only the message differs.
			if next.Phase != Talking {
				t.Fatalf("expected talking, got %s", next.Phase)
			}
			if next.Message != ApologyMessage {
				t.Errorf("expected apology, got %q", next.Message)
			}
			if !hasNotify(effects, domain.OpRejected) {
				t.Error("failure notification missing")
			}
			if hasRefresh(effects) {
				t.Error("failed invocation must not refresh the cache")
			}
		})
	}
}

func TestTransition_TalkingToIdle(t *testing.T) {
	thinking, _ := Transition(NewState(), SendMessage{Prompt: "hi"})
	talking, _ := Transition(thinking, InvocationSettled{Response: "ok"})

	next, effects := Transition(talking, PlaybackDone{})
	if next.Phase != Idle {
		t.Fatalf("expected idle, got %s", next.Phase)
	}
	// The last message stays readable after playback.
	if next.Message != "ok" {
		t.Errorf("message dropped on return to idle: %q", next.Message)
	}
	if len(effects) != 1 {
		t.Fatalf("expected only the idle segment effect, got %v", effects)
	}
	if seg, ok := effects[0].(PlaySegment); !ok || seg.Segment != ports.SegmentIdle {
		t.Errorf("expected idle segment, got %v", effects[0])
	}

	// Stray playback signals are ignored.
	idle := next
	if got, fx := Transition(idle, PlaybackDone{}); got != idle || len(fx) != 0 {
		t.Error("PlaybackDone outside talking must be a no-op")
	}
}

func findInvoke(effects []Effect) *Invoke {
	for _, e := range effects {
		if inv, ok := e.(Invoke); ok {
			return &inv
		}
	}
	return nil
}

func hasReveal(effects []Effect, message string) bool {
	for _, e := range effects {
		if r, ok := e.(Reveal); ok && r.Message == message {
			return true
		}
	}
	return false
}

func hasRefresh(effects []Effect) bool {
	for _, e := range effects {
		if _, ok := e.(RefreshRoutines); ok {
			return true
		}
	}
	return false
}

func hasNotify(effects []Effect, phase domain.OpPhase) bool {
	for _, e := range effects {
		if n, ok := e.(Notify); ok && n.Phase == phase {
			return true
		}
	}
	return false
}
