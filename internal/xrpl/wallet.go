package xrpl

import (
	"context"
	"errors"
)

// Wallet abstracts the signing capability consumed by the submitter.
// The core never holds private keys; everything key-related is delegated
// through this interface (a browser extension, a hardware signer, a fake
// in tests).
type Wallet interface {
	// IsAvailable reports whether the wallet can be used right now.
	// Returns ErrWalletUnavailable (possibly wrapped) when it cannot.
	IsAvailable(ctx context.Context) error

	// Address returns the wallet's active account address
	Address(ctx context.Context) (string, error)

	// SubmitPayment signs and submits the payment, returning the
	// source-ledger transaction hash. A user decline or insufficient
	// balance surfaces as ErrSubmissionRejected.
	SubmitPayment(ctx context.Context, tx *Payment) (string, error)
}

// Wallet failure classes, matched with errors.Is by callers
var (
	ErrWalletUnavailable  = errors.New("wallet not installed or unauthorized")
	ErrSubmissionRejected = errors.New("payment submission rejected")
)
