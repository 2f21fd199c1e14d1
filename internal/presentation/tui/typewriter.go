package tui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/muesli/termenv"

	"github.com/tendhq/tend/pkg/ports"
)

// Typewriter implements ports.Animator for a terminal: segments render
// as a colored status line, messages as a typed-text reveal.
type Typewriter struct {
	w        io.Writer
	out      *termenv.Output
	interval time.Duration
}

// NewTypewriter creates an animator writing to w. interval is the
// delay between characters; zero prints instantly.
func NewTypewriter(w io.Writer, interval time.Duration) *Typewriter {
	return &Typewriter{
		w:        w,
		out:      termenv.NewOutput(w),
		interval: interval,
	}
}

// Play renders the segment change as a status line. The avatar loops
// of the full UI collapse to one line per state here.
func (t *Typewriter) Play(segment ports.Segment) {
	p := t.out.ColorProfile()
	var line termenv.Style
	switch segment {
	case ports.SegmentThinking:
		line = t.out.String("● coach is thinking...").Foreground(p.Color("3"))
	case ports.SegmentTalking:
		line = t.out.String("● coach:").Foreground(p.Color("6"))
	default:
		return // idle renders nothing
	}
	fmt.Fprintln(t.w, line.String())
}

// Reveal types the message out character by character, then signals
// playback completion. Cancelling ctx flushes the remainder at once;
// done still runs so the state machine returns to idle.
func (t *Typewriter) Reveal(ctx context.Context, message string, done func()) {
	defer done()
	defer fmt.Fprintln(t.w)

	if t.interval <= 0 {
		fmt.Fprint(t.w, message)
		return
	}

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for i, r := range message {
		select {
		case <-ctx.Done():
			fmt.Fprint(t.w, message[i:])
			return
		case <-ticker.C:
			fmt.Fprint(t.w, string(r))
		}
	}
}
