package domain

import "time"

// OpPhase is the lifecycle phase of an asynchronous operation as seen
// by the notification layer.
type OpPhase string

const (
	OpPending  OpPhase = "pending"
	OpResolved OpPhase = "resolved"
	OpRejected OpPhase = "rejected"
)

// OpEvent is handed to the notification layer at each phase of a
// mutating operation. Label is display text; the core does not care
// how (or whether) it is rendered.
type OpEvent struct {
	Timestamp time.Time
	Op        string // machine name, e.g. "habit.add"
	Phase     OpPhase
	Label     string
	Err       error // set when Phase == OpRejected
}
