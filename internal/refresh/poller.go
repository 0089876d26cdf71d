package refresh

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"donations/internal/contract"
	"donations/internal/leaderboard"
	"donations/internal/metrics"
	"donations/internal/models"
)

// Poller is the single logical owner of leaderboard scans. Scans run one
// at a time from its loop; each is tagged with a monotonic generation so
// that a scan superseded by a newer trigger has its result discarded
// instead of overwriting fresher state.
type Poller struct {
	builder  *leaderboard.Builder
	reader   contract.Reader
	interval time.Duration
	sinks    []Sink

	generation atomic.Uint64

	mu      sync.RWMutex
	current *models.Snapshot

	refreshCh chan struct{}
}

// NewPoller creates a poller that rescans every interval and on demand.
// Sinks run in registration order after each accepted scan.
func NewPoller(builder *leaderboard.Builder, reader contract.Reader, interval time.Duration, sinks ...Sink) *Poller {
	return &Poller{
		builder:   builder,
		reader:    reader,
		interval:  interval,
		sinks:     sinks,
		refreshCh: make(chan struct{}, 1),
	}
}

// Run scans immediately, then on every tick and every Refresh trigger,
// until the context is cancelled
func (p *Poller) Run(ctx context.Context) error {
	slog.Info("Leaderboard poller starting", "interval", p.interval)

	p.scanOnce(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Leaderboard poller stopping")
			return ctx.Err()
		case <-ticker.C:
			p.scanOnce(ctx)
		case <-p.refreshCh:
			p.scanOnce(ctx)
		}
	}
}

// Refresh requests an immediate rescan. Non-blocking; a refresh already
// pending absorbs the request.
func (p *Poller) Refresh() {
	select {
	case p.refreshCh <- struct{}{}:
	default:
	}
}

// Warm seeds the poller with a previously stored snapshot so the API
// can serve a board before the first scan completes. A no-op once any
// scan has been accepted.
func (p *Poller) Warm(snap *models.Snapshot) {
	if snap == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		p.current = snap
	}
}

// Latest returns the most recent accepted snapshot, or nil before the
// first scan completes
func (p *Poller) Latest() *models.Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// scanOnce performs one full scan cycle: walk the registry, read the
// total, and publish the snapshot unless a newer scan superseded it
func (p *Poller) scanOnce(ctx context.Context) {
	gen := p.generation.Add(1)
	start := time.Now()

	result, err := p.builder.Scan(ctx, "")
	if err != nil {
		slog.Error("Leaderboard scan failed", "generation", gen, "error", err)
		metrics.ScansTotal.WithLabelValues("error").Inc()
		metrics.ErrorsTotal.WithLabelValues("poller").Inc()
		return
	}

	totalRaised := "0.0"
	if total, err := p.reader.ReadScalar(ctx, contract.MethodTotalDonations); err != nil {
		slog.Warn("Failed to read total raised", "error", err)
	} else {
		totalRaised = contract.FormatUnits(total, contract.PoolDecimals)
	}

	snap := &models.Snapshot{
		TakenAt:     time.Now().UTC(),
		Status:      string(result.Status),
		TotalRaised: totalRaised,
		DonorCount:  len(result.Donors),
		Donors:      result.Donors,
		Generation:  gen,
	}

	metrics.ScanDuration.Observe(time.Since(start).Seconds())
	metrics.ScansTotal.WithLabelValues(snap.Status).Inc()

	if !p.accept(gen, snap) {
		slog.Debug("Discarding superseded scan result", "generation", gen)
		metrics.StaleScansDiscarded.Inc()
		return
	}

	slog.Info("Leaderboard updated",
		"generation", gen,
		"status", snap.Status,
		"donors", snap.DonorCount,
		"skipped", len(result.SkippedIndexes),
		"total_raised", snap.TotalRaised,
		"duration", time.Since(start),
	)

	p.applySinks(ctx, snap)
}

// accept publishes the snapshot unless a newer scan has started since
// this one was tagged. Last-started wins, not last-finished.
func (p *Poller) accept(gen uint64, snap *models.Snapshot) bool {
	if gen != p.generation.Load() {
		return false
	}
	p.mu.Lock()
	p.current = snap
	p.mu.Unlock()
	return true
}

// applySinks runs every sink in order; one sink's failure does not stop
// the others
func (p *Poller) applySinks(ctx context.Context, snap *models.Snapshot) {
	for _, sink := range p.sinks {
		if err := sink.Apply(ctx, snap); err != nil {
			slog.Error("Snapshot sink failed",
				"sink", sink.Name(),
				"generation", snap.Generation,
				"error", err,
			)
			metrics.ErrorsTotal.WithLabelValues(sink.Name()).Inc()
		}
	}
}
