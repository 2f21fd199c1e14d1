// Package notify provides Notifier implementations for the operation
// lifecycle events the core emits. The core only hands over labels;
// everything about rendering lives here.
package notify

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/muesli/termenv"

	"github.com/tendhq/tend/pkg/domain"
	"github.com/tendhq/tend/pkg/ports"
)

// Slog logs every event through the given logger. Pending events log
// at debug, resolutions at info, rejections at warn.
func Slog(logger *slog.Logger) ports.Notifier {
	return ports.NotifierFunc(func(ev domain.OpEvent) {
		switch ev.Phase {
		case domain.OpPending:
			logger.Debug(ev.Label, "op", ev.Op)
		case domain.OpResolved:
			logger.Info(ev.Label, "op", ev.Op)
		case domain.OpRejected:
			logger.Warn(ev.Label, "op", ev.Op, "err", ev.Err)
		}
	})
}

// Terminal renders toast-style one-liners to w. Safe for concurrent
// use; interleaved operations stay on separate lines.
type Terminal struct {
	mu  sync.Mutex
	w   io.Writer
	out *termenv.Output
}

// NewTerminal creates a terminal notifier writing to w.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w, out: termenv.NewOutput(w)}
}

// Notify renders one toast line.
func (t *Terminal) Notify(ev domain.OpEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p := t.out.ColorProfile()
	var line termenv.Style
	switch ev.Phase {
	case domain.OpPending:
		line = t.out.String("… " + ev.Label).Foreground(p.Color("8"))
	case domain.OpResolved:
		line = t.out.String("✓ " + ev.Label).Foreground(p.Color("2"))
	case domain.OpRejected:
		label := ev.Label
		if ev.Err != nil {
			label = fmt.Sprintf("%s (%v)", ev.Label, ev.Err)
		}
		line = t.out.String("✗ " + label).Foreground(p.Color("1"))
	default:
		return
	}
	fmt.Fprintln(t.w, line.String())
}

// Multi fans events out to several notifiers in order.
func Multi(notifiers ...ports.Notifier) ports.Notifier {
	return ports.NotifierFunc(func(ev domain.OpEvent) {
		for _, n := range notifiers {
			n.Notify(ev)
		}
	})
}
