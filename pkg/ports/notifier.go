package ports

import "github.com/tendhq/tend/pkg/domain"

// Notifier observes the lifecycle of asynchronous operations. The core
// emits pending/resolved/rejected events with a display label and does
// not depend on how they are rendered.
//
// Implementations must be safe for concurrent use; events for
// different operations may interleave.
type Notifier interface {
	Notify(ev domain.OpEvent)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ev domain.OpEvent)

// Notify calls f(ev).
func (f NotifierFunc) Notify(ev domain.OpEvent) { f(ev) }

// NopNotifier discards all events.
func NopNotifier() Notifier {
	return NotifierFunc(func(domain.OpEvent) {})
}
