package donation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"donations/internal/payload"
	"donations/internal/xrpl"
)

// ErrInvalidAmount rejects non-positive or non-numeric amounts before
// any wallet interaction
var ErrInvalidAmount = errors.New("invalid donation amount")

// Memo tags expected by the relay, in the exact order it parses them
const (
	memoTagPayload            = "payload"
	memoTagType               = "type"
	memoTagDestinationChain   = "destination_chain"
	memoTagDestinationAddress = "destination_address"
	memoTagGasFeeAmount       = "gas_fee_amount"

	transferType = "interchain_transfer"
)

// Config carries the relay parameters a Submitter needs.
// These are environment-level constants, never derived.
type Config struct {
	// PoolAddress is the destination-chain pool contract, 0x-prefixed hex
	PoolAddress string

	// RelayAddress is the relay's collection account on the source ledger
	RelayAddress string

	// DestinationChain is the relay's identifier for the destination chain
	DestinationChain string

	// FeeDrops is the fixed relay fee in base units, decimal string
	FeeDrops string
}

// Submitter assembles relay payments and delegates signing to a wallet.
// It performs no retries: connectivity and rejection failures surface to
// the caller, who must re-trigger explicitly.
type Submitter struct {
	cfg    Config
	wallet xrpl.Wallet
}

// NewSubmitter validates the relay configuration and returns a Submitter.
// The wallet may be nil when only PreparePayment is used (e.g. serving
// unsigned payments to a browser wallet).
func NewSubmitter(cfg Config, wallet xrpl.Wallet) (*Submitter, error) {
	if !strings.HasPrefix(cfg.PoolAddress, "0x") || len(cfg.PoolAddress) != 42 {
		return nil, fmt.Errorf("invalid pool address %q", cfg.PoolAddress)
	}
	if !xrpl.ValidAddress(cfg.RelayAddress) {
		return nil, fmt.Errorf("invalid relay address %q", cfg.RelayAddress)
	}
	if cfg.DestinationChain == "" {
		return nil, fmt.Errorf("destination chain is required")
	}
	if _, ok := new(big.Int).SetString(cfg.FeeDrops, 10); !ok {
		return nil, fmt.Errorf("invalid relay fee %q", cfg.FeeDrops)
	}
	return &Submitter{cfg: cfg, wallet: wallet}, nil
}

// PreparePayment builds the unsigned relay payment for a donation:
// converts the display amount to drops, adds the fixed relay fee, and
// attaches the five relay memos in their required order. The returned
// payment is bit-exact for the relay parser regardless of amount.
func (s *Submitter) PreparePayment(amountDisplay, sender string) (*xrpl.Payment, error) {
	drops, err := xrpl.ToDrops(amountDisplay)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	if drops == "0" {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}
	if !xrpl.ValidAddress(sender) {
		return nil, fmt.Errorf("invalid sender address %q", sender)
	}

	total, err := xrpl.AddDrops(drops, s.cfg.FeeDrops)
	if err != nil {
		return nil, fmt.Errorf("computing total value: %w", err)
	}

	commandHex, err := payload.EncodeHex(payload.CommandDonate)
	if err != nil {
		return nil, fmt.Errorf("encoding command: %w", err)
	}

	return &xrpl.Payment{
		TransactionType: "Payment",
		Account:         sender,
		Destination:     s.cfg.RelayAddress,
		Amount:          total,
		Memos: []xrpl.MemoWrapper{
			xrpl.NewHexMemo(memoTagPayload, commandHex),
			xrpl.NewMemo(memoTagType, transferType),
			xrpl.NewMemo(memoTagDestinationChain, s.cfg.DestinationChain),
			xrpl.NewMemo(memoTagDestinationAddress, strings.TrimPrefix(strings.ToLower(s.cfg.PoolAddress), "0x")),
			xrpl.NewMemo(memoTagGasFeeAmount, s.cfg.FeeDrops),
		},
	}, nil
}

// Submit prepares the payment and delegates signing and submission to
// the wallet, returning the relay-receipt transaction hash. It does not
// wait for destination-chain settlement.
func (s *Submitter) Submit(ctx context.Context, amountDisplay, sender string) (string, error) {
	// Validation comes first: a rejected amount must never reach the
	// wallet, not even its availability probe
	tx, err := s.PreparePayment(amountDisplay, sender)
	if err != nil {
		return "", err
	}

	if s.wallet == nil {
		return "", xrpl.ErrWalletUnavailable
	}
	if err := s.wallet.IsAvailable(ctx); err != nil {
		if errors.Is(err, xrpl.ErrWalletUnavailable) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", xrpl.ErrWalletUnavailable, err)
	}

	txID, err := s.wallet.SubmitPayment(ctx, tx)
	if err != nil {
		if errors.Is(err, xrpl.ErrSubmissionRejected) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", xrpl.ErrSubmissionRejected, err)
	}

	slog.Info("Donation submitted",
		"tx_hash", txID,
		"sender", sender,
		"amount", amountDisplay,
		"total_drops", tx.Amount,
	)

	return txID, nil
}

// Fee returns the fixed relay fee in drops
func (s *Submitter) Fee() string {
	return s.cfg.FeeDrops
}
