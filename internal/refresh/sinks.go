package refresh

import (
	"context"
	"strconv"

	"donations/internal/metrics"
	"donations/internal/models"
	"donations/internal/storage"
)

// Sink consumes each accepted leaderboard snapshot
type Sink interface {
	// Apply handles one snapshot. An error is logged by the poller but
	// does not stop other sinks or future scans.
	Apply(ctx context.Context, snap *models.Snapshot) error

	// Name returns the sink name for logging and error metrics
	Name() string
}

// StorageSink persists snapshots as scan history
type StorageSink struct {
	repository storage.Repository
}

func NewStorageSink(repository storage.Repository) *StorageSink {
	return &StorageSink{repository: repository}
}

func (s *StorageSink) Apply(ctx context.Context, snap *models.Snapshot) error {
	return s.repository.SaveSnapshot(ctx, snap)
}

func (s *StorageSink) Name() string { return "storage" }

// MetricsSink publishes board state gauges
type MetricsSink struct{}

func NewMetricsSink() *MetricsSink { return &MetricsSink{} }

func (s *MetricsSink) Apply(ctx context.Context, snap *models.Snapshot) error {
	metrics.DonorsListed.Set(float64(snap.DonorCount))
	if total, err := strconv.ParseFloat(snap.TotalRaised, 64); err == nil {
		metrics.TotalRaised.Set(total)
	}
	return nil
}

func (s *MetricsSink) Name() string { return "metrics" }
