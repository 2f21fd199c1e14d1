package ports

import "context"

// Segment selects which avatar animation loop should be playing.
type Segment string

const (
	SegmentIdle     Segment = "idle"
	SegmentThinking Segment = "thinking"
	SegmentTalking  Segment = "talking"
)

// Animator is the external animation/typing collaborator for the
// coach. The state machine selects segments and hands over messages;
// the animator owns all rendering.
type Animator interface {
	// Play switches the looping segment. Called on every state entry.
	Play(segment Segment)

	// Reveal performs the typed-text reveal of the current message and
	// calls done exactly once when playback completes (or ctx is
	// cancelled). The done callback drives the talking→idle transition.
	Reveal(ctx context.Context, message string, done func())
}
