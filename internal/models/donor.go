package models

import "time"

// Donor represents one row of the leaderboard
type Donor struct {
	// Donor address as registered in the pool contract
	// (an XRPL classic address forwarded by the relay)
	Address string `json:"address"`

	// Amount in display units (formatted from the contract's 18-decimal value)
	Amount string `json:"amount"`

	// Raw contract value in base units, decimal string
	AmountWei string `json:"amount_wei"`

	// Rank is 1-based and dense, assigned after sorting.
	// Zero means unassigned (pre-sort).
	Rank int `json:"rank"`
}

// Snapshot is one completed leaderboard scan
// Snapshots are ephemeral views of contract state; the contract remains
// the source of truth and every scan recomputes the board from scratch.
type Snapshot struct {
	TakenAt     time.Time `json:"taken_at"`
	Status      string    `json:"status"` // "ok" or "inconsistent"
	TotalRaised string    `json:"total_raised"`
	DonorCount  int       `json:"donor_count"`
	Donors      []Donor   `json:"donors"`

	// Generation of the scan that produced this snapshot.
	// Used to discard results from superseded scans.
	Generation uint64 `json:"generation"`
}

// Scan statuses
const (
	ScanStatusOK           = "ok"
	ScanStatusInconsistent = "inconsistent"
)
