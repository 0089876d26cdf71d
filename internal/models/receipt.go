package models

import "time"

// Receipt records a donation payment that was submitted through the relay.
// The hash is the source-ledger transaction hash returned by the wallet;
// settlement on the destination chain is confirmed separately by polling
// the pool contract.
type Receipt struct {
	TxHash      string    `json:"tx_hash"`
	Sender      string    `json:"sender"`
	AmountDrops string    `json:"amount_drops"`
	FeeDrops    string    `json:"fee_drops"`
	TotalDrops  string    `json:"total_drops"`
	RecordedAt  time.Time `json:"recorded_at"`
}
