package storage

import (
	"context"

	"donations/internal/models"
)

// Repository defines the interface for all storage operations.
// The database is a history/cache layer only; the pool contract stays
// the source of truth and every scan recomputes the board from it.
type Repository interface {
	// Leaderboard Snapshots
	SaveSnapshot(ctx context.Context, snap *models.Snapshot) error
	LatestSnapshot(ctx context.Context) (*models.Snapshot, error) // nil when none stored
	ListSnapshots(ctx context.Context, limit, offset int) ([]*models.Snapshot, error)

	// Donation Receipts
	SaveReceipt(ctx context.Context, receipt *models.Receipt) error
	GetReceipt(ctx context.Context, txHash string) (*models.Receipt, error) // nil when not recorded
	ListReceipts(ctx context.Context, limit, offset int) ([]*models.Receipt, error)
	CountReceipts(ctx context.Context) (int, error)

	// Health & Maintenance
	Ping(ctx context.Context) error
	Close() error
}
