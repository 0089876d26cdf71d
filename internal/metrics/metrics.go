package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Scan metrics - Track leaderboard rebuilds from contract state
var (
	ScansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "donations_scans_total",
			Help: "Total number of leaderboard scans by outcome",
		},
		[]string{"status"},
	)

	ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "donations_scan_duration_seconds",
		Help:    "Time taken to walk the donor registry and rank the board",
		Buckets: prometheus.DefBuckets,
	})

	ScanSlotsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "donations_scan_slots_skipped_total",
		Help: "Registry slots skipped as sparse gaps (unreadable or blank)",
	})

	ScanInconsistencies = promauto.NewCounter(prometheus.CounterOpts{
		Name: "donations_scan_inconsistencies_total",
		Help: "Scans aborted because the registry's first slot was unreadable",
	})

	StaleScansDiscarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "donations_stale_scans_discarded_total",
		Help: "Completed scans discarded because a newer scan had started",
	})
)

// State metrics - Current pool view from the latest accepted scan
var (
	DonorsListed = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "donations_donors_listed",
		Help: "Donors on the latest accepted leaderboard",
	})

	TotalRaised = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "donations_total_raised_units",
		Help: "Total raised in display units per the latest accepted scan",
	})
)

// Submission metrics - Track the donation write path
var (
	PaymentsPrepared = promauto.NewCounter(prometheus.CounterOpts{
		Name: "donations_payments_prepared_total",
		Help: "Unsigned relay payments prepared for wallet signing",
	})

	ReceiptsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "donations_receipts_recorded_total",
		Help: "Wallet-submitted donations recorded",
	})

	SettlementWaitDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "donations_settlement_wait_seconds",
		Help:    "Time from recorded submission until the donation was observable on-chain",
		Buckets: []float64{1, 2, 5, 10, 20, 30, 60, 120, 300},
	})

	SettlementTimeouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "donations_settlement_timeouts_total",
		Help: "Settlement polls that gave up before observing the donation",
	})
)

// Error metrics - Track failures by component
var (
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "donations_errors_total",
			Help: "Total number of errors by component",
		},
		[]string{"component"},
	)
)
