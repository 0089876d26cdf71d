package leaderboard

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sort"
	"strings"

	"donations/internal/contract"
	"donations/internal/metrics"
	"donations/internal/models"
)

// ScanStatus tags a scan outcome. Registry corruption is a variant, not
// an error: callers branch on the status and degrade to an empty board
// instead of failing the whole read cycle.
type ScanStatus string

const (
	// ScanOK means the registry walk completed, possibly with gaps
	ScanOK ScanStatus = "ok"

	// ScanInconsistent means the registry reported donors but its first
	// element was unreadable, a contract/state-corruption signal that
	// aborts the walk
	ScanInconsistent ScanStatus = "inconsistent"
)

// Result is a completed build: the ranked board plus the viewer's
// independently-read amount
type Result struct {
	Status ScanStatus
	Donors []models.Donor

	// ViewerAmount is read directly by key, never derived from the scan,
	// so it can differ transiently from the viewer's board row
	ViewerAmount    string
	ViewerAmountWei *big.Int

	// SkippedIndexes records registry positions tolerated as sparse gaps
	SkippedIndexes []uint64

	// ScannedCount is the donor count the registry reported
	ScannedCount uint64
}

// entry is a collected donor before sorting and rank assignment
type entry struct {
	address string
	amount  *big.Int
}

// Builder walks the pool contract's donor registry and produces ranked
// leaderboards. Reads are issued strictly sequentially, one awaited
// before the next; a failed individual read is absent data, never
// retried here.
type Builder struct {
	reader contract.Reader
}

func NewBuilder(reader contract.Reader) *Builder {
	return &Builder{reader: reader}
}

// Scan reads the donor count from the registry and builds the board.
// A count-read failure is a connectivity error and is returned as such;
// everything past that point degrades per Build's skip/abort rules.
func (b *Builder) Scan(ctx context.Context, viewerAddress string) (*Result, error) {
	count, err := b.reader.ReadScalar(ctx, contract.MethodDonorCount)
	if err != nil {
		return nil, fmt.Errorf("failed to read donor count: %w", err)
	}
	return b.Build(ctx, count.Uint64(), viewerAddress)
}

// Build walks donorCount registry slots and assembles the leaderboard.
//
// Phase 1 fetches index 0: if the registry claims donors but its first
// slot is unreadable, the whole walk is aborted and the result is tagged
// ScanInconsistent (empty board, not an error).
//
// Phase 2 fetches the remaining indices sequentially. Unreadable slots,
// blank addresses, unreadable amounts, and zero amounts are skipped;
// everything else is collected in encounter order.
//
// The collected entries are stable-sorted by amount descending and
// given dense 1-based ranks; equal amounts keep encounter order and get
// distinct consecutive ranks.
func (b *Builder) Build(ctx context.Context, donorCount uint64, viewerAddress string) (*Result, error) {
	result := &Result{
		Status: ScanOK,
		Donors: []models.Donor{},
	}

	if donorCount > 0 {
		result.ScannedCount = donorCount

		collected, skipped, inconsistent, err := b.walk(ctx, donorCount)
		if err != nil {
			return nil, err
		}
		result.SkippedIndexes = skipped

		if inconsistent {
			result.Status = ScanInconsistent
			metrics.ScanInconsistencies.Inc()
			slog.Warn("Contract state inconsistency: registry reports donors but index 0 is unreachable",
				"donor_count", donorCount,
			)
		} else {
			result.Donors = rank(collected)
		}
	}

	if viewerAddress != "" {
		result.ViewerAmountWei = b.viewerAmount(ctx, viewerAddress)
		result.ViewerAmount = contract.FormatUnits(result.ViewerAmountWei, contract.PoolDecimals)
	}

	return result, nil
}

// walk performs the sequential index scan. Returns the collected entries
// in encounter order, the skipped indices, and whether the first-slot
// inconsistency was hit. Only context cancellation is a hard error.
func (b *Builder) walk(ctx context.Context, donorCount uint64) ([]entry, []uint64, bool, error) {
	var collected []entry
	var skipped []uint64

	for i := uint64(0); i < donorCount; i++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, false, err
		}

		address, err := b.reader.ReadIndexed(ctx, contract.MethodDonorAt, i)
		if err != nil {
			if i == 0 {
				// Registry count says donors exist but slot 0 is gone:
				// abort rather than walk a corrupted index
				return nil, nil, true, nil
			}
			slog.Debug("Skipping unreadable registry slot", "index", i, "error", err)
			skipped = append(skipped, i)
			metrics.ScanSlotsSkipped.Inc()
			continue
		}

		if strings.TrimSpace(address) == "" {
			slog.Debug("Skipping blank donor address", "index", i)
			skipped = append(skipped, i)
			metrics.ScanSlotsSkipped.Inc()
			continue
		}

		amount, err := b.reader.ReadByKey(ctx, contract.MethodDonationOf, address)
		if err != nil {
			// Address with no readable amount: absent data, not an error
			slog.Debug("Skipping donor with unreadable amount", "index", i, "address", address, "error", err)
			skipped = append(skipped, i)
			metrics.ScanSlotsSkipped.Inc()
			continue
		}

		if amount.Sign() <= 0 {
			// Registered but zero-balance entries stay off the board
			continue
		}

		collected = append(collected, entry{address: address, amount: amount})
	}

	return collected, skipped, false, nil
}

// rank sorts entries by amount descending and assigns dense 1-based
// ranks. The sort is stable so equal amounts keep their encounter order
// and still receive distinct consecutive ranks.
func rank(entries []entry) []models.Donor {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].amount.Cmp(entries[j].amount) > 0
	})

	donors := make([]models.Donor, len(entries))
	for i, e := range entries {
		donors[i] = models.Donor{
			Address:   e.address,
			Amount:    contract.FormatUnits(e.amount, contract.PoolDecimals),
			AmountWei: e.amount.String(),
			Rank:      i + 1,
		}
	}
	return donors
}

// ViewerDonation reads one address's donation directly by key and
// formats it for display. Failures degrade to zero.
func (b *Builder) ViewerDonation(ctx context.Context, viewerAddress string) string {
	return contract.FormatUnits(b.viewerAmount(ctx, viewerAddress), contract.PoolDecimals)
}

// viewerAmount reads the viewer's donation directly by key; any failure
// degrades to zero rather than disturbing the board
func (b *Builder) viewerAmount(ctx context.Context, viewerAddress string) *big.Int {
	amount, err := b.reader.ReadByKey(ctx, contract.MethodDonationOf, viewerAddress)
	if err != nil {
		slog.Debug("Viewer amount unavailable", "viewer", viewerAddress, "error", err)
		return big.NewInt(0)
	}
	return amount
}

// IsViewer reports whether a board row belongs to the viewer.
// Hex addresses compare case-insensitively.
func IsViewer(rowAddress, viewerAddress string) bool {
	return viewerAddress != "" && strings.EqualFold(rowAddress, viewerAddress)
}
