package models

import "time"

// LeaderboardResponse is the ranked donor list with optional viewer context
type LeaderboardResponse struct {
	Status       string     `json:"status"` // "ok" or "inconsistent"
	Donors       []DonorRow `json:"donors"`
	Total        int        `json:"total"`
	TakenAt      *time.Time `json:"taken_at,omitempty"`
	Live         bool       `json:"live"`
	Viewer       string     `json:"viewer,omitempty"`
	ViewerAmount string     `json:"viewer_amount,omitempty"`
}

// DonorRow is a leaderboard entry enriched for display
type DonorRow struct {
	Rank    int    `json:"rank"`
	Address string `json:"address"`
	Amount  string `json:"amount"`

	// IsViewer marks the requesting viewer's own row.
	// Address comparison is case-insensitive (hex addresses).
	IsViewer bool `json:"is_viewer,omitempty"`
}

// StatsResponse summarizes pool state from the latest scan
type StatsResponse struct {
	TotalRaised  string     `json:"total_raised"`
	DonorCount   int        `json:"donor_count"`
	LastScanAt   *time.Time `json:"last_scan_at,omitempty"`
	LastScanOK   bool       `json:"last_scan_ok"`
	PoolAddress  string     `json:"pool_address"`
	ExplorerLink string     `json:"explorer_link,omitempty"`
}

// ReceiptResponse is a recorded donation submission with tracking links
type ReceiptResponse struct {
	TxHash      string    `json:"tx_hash"`
	Sender      string    `json:"sender"`
	Amount      string    `json:"amount"`
	Fee         string    `json:"fee"`
	RecordedAt  time.Time `json:"recorded_at"`
	TrackingURL string    `json:"tracking_url,omitempty"`
}

// ReceiptListResponse wraps paginated receipts
type ReceiptListResponse struct {
	Receipts []ReceiptResponse `json:"receipts"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// SnapshotSummary is a stored scan without its donor rows
type SnapshotSummary struct {
	TakenAt     time.Time `json:"taken_at"`
	Status      string    `json:"status"`
	TotalRaised string    `json:"total_raised"`
	DonorCount  int       `json:"donor_count"`
	Generation  uint64    `json:"generation"`
}

// SnapshotListResponse wraps paginated snapshot history
type SnapshotListResponse struct {
	Snapshots []SnapshotSummary `json:"snapshots"`
	Page      int               `json:"page"`
	PageSize  int               `json:"page_size"`
}

// PrepareRequest asks for an unsigned relay payment
type PrepareRequest struct {
	Amount string `json:"amount"`
	Sender string `json:"sender"`
}

// RecordRequest records a wallet-submitted donation
type RecordRequest struct {
	TxHash string `json:"tx_hash"`
	Sender string `json:"sender"`
	Amount string `json:"amount"`
}

// ErrorResponse is the standard error envelope
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
