package coach

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/tendhq/tend/internal/logging"
	"github.com/tendhq/tend/internal/metrics"
	"github.com/tendhq/tend/pkg/domain"
	"github.com/tendhq/tend/pkg/ports"
)

// DefaultAITimeout bounds hosted function invocations. Without it a
// call that never settles would strand the machine outside idle for
// the rest of the session.
const DefaultAITimeout = 45 * time.Second

// Refresher is the slice of the data store the coach needs: cache
// invalidation after a routine was generated through the side channel.
type Refresher interface {
	TriggerRoutinesRefresh()
}

// Machine owns the coach state and executes transition effects. Safe
// for concurrent use; the idle-guard in the transition table admits at
// most one invocation at a time.
type Machine struct {
	api       ports.RemoteAPI
	refresher Refresher
	animator  ports.Animator
	notifier  ports.Notifier
	logger    *slog.Logger
	metrics   *metrics.Store
	timeout   time.Duration

	mu      sync.Mutex
	state   State
	changed chan struct{}
}

// Option configures the Machine.
type Option func(*Machine)

// WithAnimator attaches the animation/typing collaborator.
func WithAnimator(a ports.Animator) Option {
	return func(m *Machine) {
		m.animator = a
	}
}

// WithNotifier attaches the operation lifecycle observer.
func WithNotifier(n ports.Notifier) Option {
	return func(m *Machine) {
		m.notifier = n
	}
}

// WithLogger configures a logger for internal events.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// WithAITimeout bounds each function invocation.
func WithAITimeout(d time.Duration) Option {
	return func(m *Machine) {
		m.timeout = d
	}
}

// WithMetrics attaches prometheus instruments.
func WithMetrics(ms *metrics.Store) Option {
	return func(m *Machine) {
		m.metrics = ms
	}
}

// NewMachine creates an idle coach bound to the remote API and the
// store's refresh entry point.
func NewMachine(api ports.RemoteAPI, refresher Refresher, opts ...Option) *Machine {
	m := &Machine{
		api:       api,
		refresher: refresher,
		animator:  nopAnimator{},
		notifier:  ports.NopNotifier(),
		logger:    logging.NewNop(),
		metrics:   metrics.NewNop(),
		timeout:   DefaultAITimeout,
		state:     NewState(),
		changed:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current coach state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// SendMessage asks the coach a question. Returns false (no-op) when
// the machine is not idle or the prompt is empty.
func (m *Machine) SendMessage(prompt string) bool {
	return m.dispatch(SendMessage{Prompt: prompt})
}

// RequestRoutine asks the coach to generate habits for one routine.
// Returns false (no-op) when the machine is not idle.
func (m *Machine) RequestRoutine(timeOfDay domain.TimeOfDay) bool {
	return m.dispatch(RequestRoutine{TimeOfDay: timeOfDay})
}

// AwaitIdle blocks until the machine returns to idle (the reveal
// finished) or ctx is cancelled.
func (m *Machine) AwaitIdle(ctx context.Context) error {
	for {
		m.mu.Lock()
		if m.state.Phase == Idle {
			m.mu.Unlock()
			return nil
		}
		ch := m.changed
		m.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// dispatch runs one event through the transition table and executes
// its effects. Reports whether the event changed the state.
func (m *Machine) dispatch(ev Event) bool {
	m.mu.Lock()
	prev := m.state
	next, effects := Transition(prev, ev)
	m.state = next
	ch := m.changed
	m.changed = make(chan struct{})
	m.mu.Unlock()
	close(ch)

	moved := next.Phase != prev.Phase
	if moved {
		m.metrics.CoachStates.WithLabelValues(string(next.Phase)).Inc()
		m.logger.Debug("coach transition", "from", prev.Phase, "to", next.Phase)
	}

	for _, effect := range effects {
		m.execute(effect)
	}
	return moved
}

func (m *Machine) execute(effect Effect) {
	switch e := effect.(type) {
	case PlaySegment:
		m.animator.Play(e.Segment)

	case Notify:
		m.notifier.Notify(domain.OpEvent{
			Timestamp: time.Now(),
			Op:        e.Op,
			Phase:     e.Phase,
			Label:     e.Label,
			Err:       e.Err,
		})

	case RefreshRoutines:
		m.refresher.TriggerRoutinesRefresh()

	case Invoke:
		go m.invoke(e.Fn, e.Payload)

	case Reveal:
		m.animator.Reveal(context.Background(), e.Message, func() {
			m.dispatch(PlaybackDone{})
		})
	}
}

// invoke performs the bounded function call and feeds the settlement
// back into the machine as an event.
func (m *Machine) invoke(fn string, payload map[string]any) {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	res, err := m.api.InvokeFunction(ctx, fn, payload)
	if errors.Is(err, context.DeadlineExceeded) {
		err = &domain.TimeoutError{Op: fn}
	}
	if err != nil {
		m.logger.Warn("invocation failed", "fn", fn, "err", err)
	}
	m.dispatch(InvocationSettled{Response: res.Response, Err: err})
}

// nopAnimator keeps the machine functional without a UI: playback
// completes immediately.
type nopAnimator struct{}

func (nopAnimator) Play(ports.Segment) {}

func (nopAnimator) Reveal(ctx context.Context, message string, done func()) {
	done()
}
