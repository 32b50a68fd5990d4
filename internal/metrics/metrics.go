package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Purchase outcomes
const (
	OutcomeSuccess       = "success"
	OutcomeSoldOut       = "sold_out"
	OutcomeSalesWindow   = "sales_window"
	OutcomeNotFound      = "not_found"
	OutcomeError         = "error"
	OutcomeSkippedLocked = "skipped_locked"
)

var (
	// PurchasesTotal counts purchase attempts by outcome
	PurchasesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "venuesync_ticket_purchases_total",
			Help: "Total ticket purchase attempts",
		},
		[]string{"outcome"},
	)

	// PurchaseDuration observes the locked purchase transaction
	PurchaseDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "venuesync_ticket_purchase_duration_seconds",
			Help:    "Duration of the purchase transaction",
			Buckets: prometheus.DefBuckets,
		},
	)

	// ValidationsTotal counts validation outcomes
	ValidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "venuesync_ticket_validations_total",
			Help: "Total ticket validations by method and status",
		},
		[]string{"method", "status"},
	)

	// QRIssueFailuresTotal counts purchases whose credential could not be issued
	QRIssueFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "venuesync_qr_issue_failures_total",
			Help: "Total QR credential issuance failures after a committed purchase",
		},
	)

	// SweepRowsTotal counts rows changed by each sweep
	SweepRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "venuesync_sweep_rows_total",
			Help: "Total rows updated by periodic sweeps",
		},
		[]string{"sweep"},
	)

	// SweepRunsTotal counts sweep runs by outcome
	SweepRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "venuesync_sweep_runs_total",
			Help: "Total sweep runs",
		},
		[]string{"sweep", "outcome"},
	)

	// SweepDuration observes sweep runtime
	SweepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "venuesync_sweep_duration_seconds",
			Help:    "Duration of periodic sweeps",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"sweep"},
	)
)

// RecordPurchase counts one purchase attempt
func RecordPurchase(outcome string, d time.Duration) {
	PurchasesTotal.WithLabelValues(outcome).Inc()
	PurchaseDuration.Observe(d.Seconds())
}

// RecordValidation counts one validation outcome
func RecordValidation(method, status string) {
	ValidationsTotal.WithLabelValues(method, status).Inc()
}

// RecordSweep records one sweep run
func RecordSweep(sweep, outcome string, rows int64, d time.Duration) {
	SweepRunsTotal.WithLabelValues(sweep, outcome).Inc()
	if rows > 0 {
		SweepRowsTotal.WithLabelValues(sweep).Add(float64(rows))
	}
	SweepDuration.WithLabelValues(sweep).Observe(d.Seconds())
}
