package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the compliance module.
type Metrics struct {
	// Review outcomes by action and document category
	ReviewOutcome *prometheus.CounterVec

	// Documents cascaded out of approved state per review
	Replacements prometheus.Counter

	// Bulk operation partial-failure counts by action
	BulkFailed *prometheus.CounterVec

	// Review operation latency by action
	ReviewLatency *prometheus.HistogramVec
}

// New creates a Metrics instance with all compliance metrics registered.
func New() *Metrics {
	return &Metrics{
		ReviewOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "driveops_compliance_reviews_total",
			Help: "Total document review outcomes by action and category",
		}, []string{"action", "category"}), // action: "approve", "reject"

		Replacements: promauto.NewCounter(prometheus.CounterOpts{
			Name: "driveops_compliance_replacements_total",
			Help: "Total prior approvals displaced by a new approval",
		}),

		BulkFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "driveops_compliance_bulk_failed_total",
			Help: "Total documents that failed inside a bulk review",
		}, []string{"action"}),

		ReviewLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "driveops_compliance_review_duration_seconds",
			Help:    "Duration of single-document review operations",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"action"}),
	}
}

// IncReview records a review outcome.
func (m *Metrics) IncReview(action, category string) {
	if m != nil {
		m.ReviewOutcome.WithLabelValues(action, category).Inc()
	}
}

// AddReplacements records documents displaced by an approval.
func (m *Metrics) AddReplacements(n int) {
	if m != nil && n > 0 {
		m.Replacements.Add(float64(n))
	}
}

// AddBulkFailed records per-document failures inside a bulk review.
func (m *Metrics) AddBulkFailed(action string, n int) {
	if m != nil && n > 0 {
		m.BulkFailed.WithLabelValues(action).Add(float64(n))
	}
}

// ObserveReviewLatency records a review operation's duration.
func (m *Metrics) ObserveReviewLatency(action string, d time.Duration) {
	if m != nil {
		m.ReviewLatency.WithLabelValues(action).Observe(d.Seconds())
	}
}
