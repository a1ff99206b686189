package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the distribution workflow.
// Tracks commit counts per collection and the store-behind-chain condition,
// which is the one failure an operator must notice immediately.
type Metrics struct {
	ClaimsCommitted    *prometheus.CounterVec
	SendsCommitted     *prometheus.CounterVec
	CommitFailures     *prometheus.CounterVec
	StoreWriteFailures prometheus.Counter
	CommitDuration     prometheus.Histogram
}

// New creates a new Metrics instance with all workflow metrics registered
// against the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ClaimsCommitted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mintrail_claims_committed_total",
			Help: "Total number of confirmed claim commits",
		}, []string{"collection"}),
		SendsCommitted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mintrail_sends_committed_total",
			Help: "Total number of confirmed send commits",
		}, []string{"collection"}),
		CommitFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mintrail_commit_failures_total",
			Help: "Chain commits that were rejected or left unconfirmed",
		}, []string{"operation", "outcome"}),
		StoreWriteFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "mintrail_store_write_failures_total",
			Help: "Audit appends that failed after a confirmed commit (ledger behind chain)",
		}),
		CommitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "mintrail_commit_duration_seconds",
			Help:    "Duration of external chain commits",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}

// ObserveCommit records the duration of a chain commit.
// Call with time.Now() at the start of the commit.
func (m *Metrics) ObserveCommit(start time.Time) {
	m.CommitDuration.Observe(time.Since(start).Seconds())
}
