package tend

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tendhq/tend/internal/logging"
	"github.com/tendhq/tend/internal/metrics"
	"github.com/tendhq/tend/pkg/coach"
	"github.com/tendhq/tend/pkg/domain"
	"github.com/tendhq/tend/pkg/ports"
	"github.com/tendhq/tend/pkg/store"
)

// Version is the client version reported by `tend version`.
var Version = "0.3.0"

// ErrCoachBusy is returned by the blocking helpers when the coach is
// already handling a request (the guarded no-op path).
var ErrCoachBusy = errors.New("coach is busy with another request")

// Client is the high-level entry point: the synchronization store and
// the coach, wired to one remote API.
type Client struct {
	Store *store.Store
	Coach *coach.Machine

	logger *slog.Logger
}

// Option defines a functional option for configuring the Client.
type Option func(*settings)

type settings struct {
	logger         *slog.Logger
	notifier       ports.Notifier
	animator       ports.Animator
	cache          ports.SnapshotCache
	requestTimeout time.Duration
	aiTimeout      time.Duration
	registry       prometheus.Registerer
}

// WithLogger sets the logger shared by both cores.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithNotifier attaches the operation lifecycle observer to both
// cores.
func WithNotifier(n ports.Notifier) Option {
	return func(s *settings) {
		s.notifier = n
	}
}

// WithAnimator attaches the coach's animation collaborator.
func WithAnimator(a ports.Animator) Option {
	return func(s *settings) {
		s.animator = a
	}
}

// WithSnapshotCache enables warm starts from persisted snapshots.
func WithSnapshotCache(c ports.SnapshotCache) Option {
	return func(s *settings) {
		s.cache = c
	}
}

// WithTimeouts bounds data calls and AI invocations.
func WithTimeouts(request, ai time.Duration) Option {
	return func(s *settings) {
		if request > 0 {
			s.requestTimeout = request
		}
		if ai > 0 {
			s.aiTimeout = ai
		}
	}
}

// WithMetricsRegistry registers the client's instruments on reg.
func WithMetricsRegistry(reg prometheus.Registerer) Option {
	return func(s *settings) {
		s.registry = reg
	}
}

// New creates a Client bound to the given remote API.
func New(api ports.RemoteAPI, opts ...Option) *Client {
	s := &settings{
		logger:         logging.NewNop(),
		notifier:       ports.NopNotifier(),
		requestTimeout: store.DefaultTimeout,
		aiTimeout:      coach.DefaultAITimeout,
		registry:       prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(s)
	}

	m := metrics.New(s.registry)

	st := store.New(api,
		store.WithLogger(s.logger),
		store.WithNotifier(s.notifier),
		store.WithTimeout(s.requestTimeout),
		store.WithMetrics(m),
		store.WithSnapshotCache(s.cache),
	)

	coachOpts := []coach.Option{
		coach.WithLogger(s.logger),
		coach.WithNotifier(s.notifier),
		coach.WithAITimeout(s.aiTimeout),
		coach.WithMetrics(m),
	}
	if s.animator != nil {
		coachOpts = append(coachOpts, coach.WithAnimator(s.animator))
	}

	return &Client{
		Store:  st,
		Coach:  coach.NewMachine(api, st, coachOpts...),
		logger: s.logger,
	}
}

// Ask sends a prompt to the coach and blocks until the reply finished
// playing, returning the final message. ErrCoachBusy if a request is
// already in flight.
func (c *Client) Ask(ctx context.Context, prompt string) (string, error) {
	if !c.Coach.SendMessage(prompt) {
		return "", ErrCoachBusy
	}
	if err := c.Coach.AwaitIdle(ctx); err != nil {
		return "", err
	}
	return c.Coach.State().Message, nil
}

// PlanRoutine asks the coach to generate habits for one routine and
// blocks until the reply finished playing. The store refresh is
// scheduled by the machine itself on success.
func (c *Client) PlanRoutine(ctx context.Context, timeOfDay domain.TimeOfDay) (string, error) {
	if !c.Coach.RequestRoutine(timeOfDay) {
		return "", ErrCoachBusy
	}
	if err := c.Coach.AwaitIdle(ctx); err != nil {
		return "", err
	}
	return c.Coach.State().Message, nil
}
