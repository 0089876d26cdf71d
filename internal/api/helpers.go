package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"donations/internal/leaderboard"
	"donations/internal/models"
	"donations/internal/xrpl"
)

// writeJSON writes a JSON 200 response
func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// parsePagination extracts limit/offset query parameters with defaults
func parsePagination(r *http.Request) (limit, offset int) {
	query := r.URL.Query()

	limit = 50 // default
	if limitStr := query.Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	offset = 0
	if offsetStr := query.Get("offset"); offsetStr != "" {
		if parsed, err := strconv.Atoi(offsetStr); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	return limit, offset
}

// buildDonorRows converts donors to display rows, marking the viewer's
// own row with a case-insensitive address match
func buildDonorRows(donors []models.Donor, viewer string) []models.DonorRow {
	rows := make([]models.DonorRow, len(donors))
	for i, donor := range donors {
		rows[i] = models.DonorRow{
			Rank:     donor.Rank,
			Address:  donor.Address,
			Amount:   donor.Amount,
			IsViewer: leaderboard.IsViewer(donor.Address, viewer),
		}
	}
	return rows
}

// validTxHash checks the shape of a source-ledger transaction hash:
// 64 hex characters
func validTxHash(hash string) bool {
	if len(hash) != 64 {
		return false
	}
	for _, c := range hash {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// buildReceiptResponse formats a stored receipt for display, attaching
// the relay tracking link
func (s *Server) buildReceiptResponse(receipt *models.Receipt) models.ReceiptResponse {
	amount, err := xrpl.FromDrops(receipt.AmountDrops)
	if err != nil {
		amount = "0.0"
	}
	fee, err := xrpl.FromDrops(receipt.FeeDrops)
	if err != nil {
		fee = "0.0"
	}

	response := models.ReceiptResponse{
		TxHash:     receipt.TxHash,
		Sender:     receipt.Sender,
		Amount:     amount,
		Fee:        fee,
		RecordedAt: receipt.RecordedAt,
	}
	if s.opts.AxelarScanURL != "" {
		response.TrackingURL = s.opts.AxelarScanURL + "/gmp/" + receipt.TxHash
	}
	return response
}
