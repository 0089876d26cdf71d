package refresh

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"donations/internal/contract"
	"donations/internal/metrics"
	"donations/internal/retry"
)

// SettlementConfig controls confirmation polling after a recorded
// submission. Cross-chain settlement has no event the core can wait on,
// so this replaces a blind fixed delay with bounded polling; the result
// is still eventually consistent, not strongly consistent.
type SettlementConfig struct {
	// Interval is the initial delay between polls; it doubles up to
	// four times
	Interval time.Duration

	// MaxWait bounds the whole poll. Past it the donation may still
	// settle later; the board simply refreshes on its regular cycle.
	MaxWait time.Duration
}

// AwaitSettlement polls the donor's contract balance until it exceeds
// the pre-submission value or MaxWait elapses, then triggers a board
// refresh either way. Individual reads go through the retry strategy so
// transient RPC trouble does not end the poll early.
func (p *Poller) AwaitSettlement(ctx context.Context, donor string, previous *big.Int, strategy retry.Strategy, cfg SettlementConfig) error {
	if previous == nil {
		previous = big.NewInt(0)
	}

	start := time.Now()
	deadline := start.Add(cfg.MaxWait)
	interval := cfg.Interval
	maxInterval := cfg.Interval * 16

	slog.Info("Waiting for relay settlement",
		"donor", donor,
		"previous_wei", previous.String(),
		"max_wait", cfg.MaxWait,
	)

	for {
		var amount *big.Int
		err := strategy.Execute(ctx, func() error {
			var readErr error
			amount, readErr = p.reader.ReadByKey(ctx, contract.MethodDonationOf, donor)
			return readErr
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Warn("Settlement poll read failed", "donor", donor, "error", err)
		} else if amount.Cmp(previous) > 0 {
			waited := time.Since(start)
			metrics.SettlementWaitDuration.Observe(waited.Seconds())
			slog.Info("Donation settled on destination chain",
				"donor", donor,
				"amount_wei", amount.String(),
				"waited", waited,
			)
			p.Refresh()
			return nil
		}

		if time.Now().After(deadline) {
			metrics.SettlementTimeouts.Inc()
			// Best effort: refresh anyway, the regular cycle will pick
			// up whatever eventually lands
			p.Refresh()
			return fmt.Errorf("donation from %s not observed within %s", donor, cfg.MaxWait)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
			interval *= 2
			if interval > maxInterval {
				interval = maxInterval
			}
		}
	}
}
