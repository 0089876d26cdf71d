package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"donations/internal/models"
)

// PostgresRepository implements the Repository interface using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository and ensures
// the schema exists
func NewPostgresRepository(ctx context.Context, databaseURL string) (*PostgresRepository, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	r := &PostgresRepository{pool: pool}
	if err := r.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return r, nil
}

// ensureSchema creates the snapshot and receipt tables if missing
func (r *PostgresRepository) ensureSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS leaderboard_snapshots (
			id           BIGSERIAL PRIMARY KEY,
			taken_at     TIMESTAMPTZ NOT NULL,
			status       TEXT NOT NULL,
			total_raised TEXT NOT NULL,
			donor_count  INT NOT NULL,
			donors       JSONB NOT NULL,
			generation   BIGINT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_snapshots_taken_at
			ON leaderboard_snapshots (taken_at DESC);

		CREATE TABLE IF NOT EXISTS donation_receipts (
			tx_hash      TEXT PRIMARY KEY,
			sender       TEXT NOT NULL,
			amount_drops TEXT NOT NULL,
			fee_drops    TEXT NOT NULL,
			total_drops  TEXT NOT NULL,
			recorded_at  TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_receipts_recorded_at
			ON donation_receipts (recorded_at DESC);
	`
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// SaveSnapshot appends a completed leaderboard scan to the history
func (r *PostgresRepository) SaveSnapshot(ctx context.Context, snap *models.Snapshot) error {
	donorsJSON, err := json.Marshal(snap.Donors)
	if err != nil {
		return fmt.Errorf("failed to marshal donors: %w", err)
	}

	query := `
		INSERT INTO leaderboard_snapshots (
			taken_at, status, total_raised, donor_count, donors, generation
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = r.pool.Exec(ctx, query,
		snap.TakenAt,
		snap.Status,
		snap.TotalRaised,
		snap.DonorCount,
		donorsJSON,
		snap.Generation,
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}

// LatestSnapshot returns the most recent snapshot, or nil when none
// has been stored yet
func (r *PostgresRepository) LatestSnapshot(ctx context.Context) (*models.Snapshot, error) {
	query := `
		SELECT taken_at, status, total_raised, donor_count, donors, generation
		FROM leaderboard_snapshots
		ORDER BY taken_at DESC
		LIMIT 1
	`

	snap, err := scanSnapshot(r.pool.QueryRow(ctx, query))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest snapshot: %w", err)
	}
	return snap, nil
}

// ListSnapshots returns snapshot history, newest first
func (r *PostgresRepository) ListSnapshots(ctx context.Context, limit, offset int) ([]*models.Snapshot, error) {
	query := `
		SELECT taken_at, status, total_raised, donor_count, donors, generation
		FROM leaderboard_snapshots
		ORDER BY taken_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*models.Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return snapshots, nil
}

// rowScanner covers both pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (*models.Snapshot, error) {
	var snap models.Snapshot
	var donorsJSON []byte

	err := row.Scan(
		&snap.TakenAt,
		&snap.Status,
		&snap.TotalRaised,
		&snap.DonorCount,
		&donorsJSON,
		&snap.Generation,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(donorsJSON, &snap.Donors); err != nil {
		return nil, fmt.Errorf("failed to unmarshal donors: %w", err)
	}

	return &snap, nil
}

// SaveReceipt records a submitted donation. Re-recording the same
// transaction hash is a no-op.
func (r *PostgresRepository) SaveReceipt(ctx context.Context, receipt *models.Receipt) error {
	query := `
		INSERT INTO donation_receipts (
			tx_hash, sender, amount_drops, fee_drops, total_drops, recorded_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (tx_hash) DO NOTHING
	`

	_, err := r.pool.Exec(ctx, query,
		receipt.TxHash,
		receipt.Sender,
		receipt.AmountDrops,
		receipt.FeeDrops,
		receipt.TotalDrops,
		receipt.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save receipt: %w", err)
	}

	return nil
}

// GetReceipt retrieves a receipt by transaction hash, or nil when no
// receipt with that hash was recorded
func (r *PostgresRepository) GetReceipt(ctx context.Context, txHash string) (*models.Receipt, error) {
	query := `
		SELECT tx_hash, sender, amount_drops, fee_drops, total_drops, recorded_at
		FROM donation_receipts
		WHERE tx_hash = $1
	`

	var receipt models.Receipt
	err := r.pool.QueryRow(ctx, query, txHash).Scan(
		&receipt.TxHash,
		&receipt.Sender,
		&receipt.AmountDrops,
		&receipt.FeeDrops,
		&receipt.TotalDrops,
		&receipt.RecordedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}

	return &receipt, nil
}

// ListReceipts returns recorded receipts, newest first
func (r *PostgresRepository) ListReceipts(ctx context.Context, limit, offset int) ([]*models.Receipt, error) {
	query := `
		SELECT tx_hash, sender, amount_drops, fee_drops, total_drops, recorded_at
		FROM donation_receipts
		ORDER BY recorded_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	defer rows.Close()

	var receipts []*models.Receipt
	for rows.Next() {
		var receipt models.Receipt
		err := rows.Scan(
			&receipt.TxHash,
			&receipt.Sender,
			&receipt.AmountDrops,
			&receipt.FeeDrops,
			&receipt.TotalDrops,
			&receipt.RecordedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan receipt: %w", err)
		}
		receipts = append(receipts, &receipt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating receipts: %w", err)
	}

	return receipts, nil
}

// CountReceipts returns the number of recorded receipts
func (r *PostgresRepository) CountReceipts(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM donation_receipts`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count receipts: %w", err)
	}
	return count, nil
}

// Ping checks if the database connection is alive
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}
