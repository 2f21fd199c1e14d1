package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Store holds the instruments for DataStore and coach operations.
// All metrics live on the registry passed to New, so tests and
// embedders can keep them off the global default registry.
type Store struct {
	Ops           *prometheus.CounterVec
	Rollbacks     prometheus.Counter
	FetchDuration prometheus.Histogram
	CoachStates   *prometheus.CounterVec
}

// New registers the tend metrics on reg and returns them.
func New(reg prometheus.Registerer) *Store {
	m := &Store{
		Ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tend",
			Subsystem: "store",
			Name:      "ops_total",
			Help:      "Store operations by name and outcome.",
		}, []string{"op", "outcome"}),
		Rollbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tend",
			Subsystem: "store",
			Name:      "rollbacks_total",
			Help:      "Optimistic mutations reverted after a failed network call.",
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tend",
			Subsystem: "store",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of full collection fetches.",
			Buckets:   prometheus.DefBuckets,
		}),
		CoachStates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tend",
			Subsystem: "coach",
			Name:      "state_entries_total",
			Help:      "Coach state machine entries by state.",
		}, []string{"state"}),
	}
	reg.MustRegister(m.Ops, m.Rollbacks, m.FetchDuration, m.CoachStates)
	return m
}

// NewNop returns metrics backed by a throwaway registry, for callers
// that do not care about instrumentation.
func NewNop() *Store {
	return New(prometheus.NewRegistry())
}
