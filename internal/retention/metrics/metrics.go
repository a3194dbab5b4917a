package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the retention module. All methods are
// nil-safe so engines can run without metrics in tests.
type Metrics struct {
	// Per-policy archival outcomes
	PolicyRuns *prometheus.CounterVec

	// Policy listing failures (swallowed by the engine, visible here)
	ListFailures prometheus.Counter

	// Records bundled into archives
	RecordsArchived prometheus.Counter

	// Records removed by secure deletion
	RecordsDeleted prometheus.Counter

	// Post-delete verification outcomes
	DeletionVerifications *prometheus.CounterVec
}

// New creates a Metrics instance with all retention module metrics registered.
func New() *Metrics {
	return &Metrics{
		PolicyRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chronicle_retention_policy_runs_total",
			Help: "Total per-policy archival outcomes",
		}, []string{"outcome"}), // outcome: "archived", "skipped"

		ListFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chronicle_retention_policy_list_failures_total",
			Help: "Total failures listing active retention policies",
		}),

		RecordsArchived: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chronicle_retention_records_archived_total",
			Help: "Total audit records bundled into archives",
		}),

		RecordsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chronicle_retention_records_deleted_total",
			Help: "Total audit records removed by secure deletion",
		}),

		DeletionVerifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chronicle_retention_deletion_verifications_total",
			Help: "Total post-delete verification outcomes",
		}, []string{"status"}), // status: "verified", "failed", "skipped"
	}
}

// IncPolicyRun records a per-policy archival outcome.
func (m *Metrics) IncPolicyRun(outcome string) {
	if m != nil {
		m.PolicyRuns.WithLabelValues(outcome).Inc()
	}
}

// IncListFailure records a swallowed policy listing failure.
func (m *Metrics) IncListFailure() {
	if m != nil {
		m.ListFailures.Inc()
	}
}

// AddRecordsArchived records how many records an archival pass bundled.
func (m *Metrics) AddRecordsArchived(n int) {
	if m != nil {
		m.RecordsArchived.Add(float64(n))
	}
}

// AddRecordsDeleted records how many records a deletion removed.
func (m *Metrics) AddRecordsDeleted(n int) {
	if m != nil {
		m.RecordsDeleted.Add(float64(n))
	}
}

// IncDeletionVerification records a post-delete verification outcome.
func (m *Metrics) IncDeletionVerification(status string) {
	if m != nil {
		m.DeletionVerifications.WithLabelValues(status).Inc()
	}
}
