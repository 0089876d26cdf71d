package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"donations/internal/contract"
	"donations/internal/metrics"
	"donations/internal/models"
	"donations/internal/xrpl"
)

// handleIndex returns basic service information
// GET / - Returns service info and available endpoints
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	info := map[string]interface{}{
		"service":     "Donation Pool Service",
		"version":     "1.0.0",
		"description": "Cross-chain donation relay and donor leaderboard for the XRPL EVM pool contract",
		"pool":        s.opts.PoolAddress,
		"endpoints": map[string]string{
			"GET /":                   "This page - Service information",
			"GET /health":             "Health check endpoint",
			"GET /metrics":            "Prometheus metrics for monitoring",
			"GET /leaderboard":        "Ranked donors (supports ?viewer=, ?live=1)",
			"GET /stats":              "Pool totals from the latest scan",
			"GET /receipts":           "Recorded donation submissions (supports ?limit=, ?offset=)",
			"GET /receipts/{tx_hash}": "Single recorded submission with tracking link",
			"GET /snapshots":          "Leaderboard snapshot history (supports ?limit=, ?offset=)",
			"POST /donations/prepare": "Build the unsigned relay payment for a donation",
			"POST /donations":         "Record a wallet-submitted donation and await settlement",
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(info)
}

// handleHealth returns health status
// GET /health - Health check for monitoring systems
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "donation-pool",
	}

	if s.repository != nil {
		if err := s.repository.Ping(r.Context()); err != nil {
			slog.Error("Health check: database unreachable", "error", err)
			s.sendError(w, "Database unhealthy", http.StatusServiceUnavailable)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}

// handleMetrics returns Prometheus metrics
// GET /metrics - Prometheus scraping endpoint
func (s *Server) handleMetrics() http.Handler {
	return promhttp.Handler()
}

// =============================================================================
// POOL READ ENDPOINTS
// =============================================================================

// handleLeaderboard returns the ranked donor list
// GET /leaderboard?viewer=0x...&live=1
// The cached snapshot from the poller serves by default; live=1 forces a
// fresh sequential scan of the registry.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	viewer := r.URL.Query().Get("viewer")
	live := r.URL.Query().Get("live") == "1"

	snap := s.poller.Latest()
	if live || snap == nil {
		result, err := s.builder.Scan(ctx, viewer)
		if err != nil {
			slog.Error("Live leaderboard scan failed", "error", err)
			s.sendError(w, "Contract unreachable", http.StatusServiceUnavailable)
			return
		}

		response := models.LeaderboardResponse{
			Status:       string(result.Status),
			Donors:       buildDonorRows(result.Donors, viewer),
			Total:        len(result.Donors),
			Live:         true,
			Viewer:       viewer,
			ViewerAmount: result.ViewerAmount,
		}
		writeJSON(w, response)
		return
	}

	response := models.LeaderboardResponse{
		Status:  snap.Status,
		Donors:  buildDonorRows(snap.Donors, viewer),
		Total:   len(snap.Donors),
		TakenAt: &snap.TakenAt,
		Live:    false,
		Viewer:  viewer,
	}
	if viewer != "" {
		// The viewer's amount is always read directly, never derived
		// from the (possibly stale) snapshot rows
		response.ViewerAmount = s.builder.ViewerDonation(ctx, viewer)
	}
	writeJSON(w, response)
}

// handleStats returns pool totals
// GET /stats
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap := s.poller.Latest()
	if snap == nil {
		s.sendError(w, "No scan completed yet", http.StatusServiceUnavailable)
		return
	}

	response := models.StatsResponse{
		TotalRaised:  snap.TotalRaised,
		DonorCount:   snap.DonorCount,
		LastScanAt:   &snap.TakenAt,
		LastScanOK:   snap.Status == models.ScanStatusOK,
		PoolAddress:  s.opts.PoolAddress,
		ExplorerLink: s.opts.ExplorerURL + "/address/" + s.opts.PoolAddress + "?tab=transactions",
	}
	writeJSON(w, response)
}

// handleReceipts lists recorded donation submissions
// GET /receipts?limit=50&offset=0
func (s *Server) handleReceipts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.repository == nil {
		s.sendError(w, "Persistence disabled", http.StatusServiceUnavailable)
		return
	}

	ctx := r.Context()
	limit, offset := parsePagination(r)

	total, err := s.repository.CountReceipts(ctx)
	if err != nil {
		slog.Error("Failed to count receipts", "error", err)
		s.sendError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	receipts, err := s.repository.ListReceipts(ctx, limit, offset)
	if err != nil {
		slog.Error("Failed to list receipts", "error", err)
		s.sendError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	responses := make([]models.ReceiptResponse, len(receipts))
	for i, receipt := range receipts {
		responses[i] = s.buildReceiptResponse(receipt)
	}

	response := models.ReceiptListResponse{
		Receipts: responses,
		Total:    total,
		Page:     (offset / limit) + 1,
		PageSize: limit,
	}
	writeJSON(w, response)
}

// handleReceiptByHash returns a single recorded submission
// GET /receipts/{tx_hash}
func (s *Server) handleReceiptByHash(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.repository == nil {
		s.sendError(w, "Persistence disabled", http.StatusServiceUnavailable)
		return
	}

	txHash := strings.TrimPrefix(r.URL.Path, "/receipts/")
	if !validTxHash(txHash) {
		s.sendError(w, "Invalid transaction hash", http.StatusBadRequest)
		return
	}

	receipt, err := s.repository.GetReceipt(r.Context(), txHash)
	if err != nil {
		slog.Error("Failed to get receipt", "tx_hash", txHash, "error", err)
		s.sendError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if receipt == nil {
		s.sendError(w, "Receipt not found", http.StatusNotFound)
		return
	}

	writeJSON(w, s.buildReceiptResponse(receipt))
}

// handleSnapshots lists stored leaderboard snapshots, newest first
// GET /snapshots?limit=50&offset=0
func (s *Server) handleSnapshots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.repository == nil {
		s.sendError(w, "Persistence disabled", http.StatusServiceUnavailable)
		return
	}

	limit, offset := parsePagination(r)

	snaps, err := s.repository.ListSnapshots(r.Context(), limit, offset)
	if err != nil {
		slog.Error("Failed to list snapshots", "error", err)
		s.sendError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	summaries := make([]models.SnapshotSummary, len(snaps))
	for i, snap := range snaps {
		summaries[i] = models.SnapshotSummary{
			TakenAt:     snap.TakenAt,
			Status:      snap.Status,
			TotalRaised: snap.TotalRaised,
			DonorCount:  snap.DonorCount,
			Generation:  snap.Generation,
		}
	}

	response := models.SnapshotListResponse{
		Snapshots: summaries,
		Page:      (offset / limit) + 1,
		PageSize:  limit,
	}
	writeJSON(w, response)
}

// =============================================================================
// DONATION ENDPOINTS
// =============================================================================

// PrepareResponse carries the unsigned relay payment with its value
// breakdown. The payment goes to the wallet for signing untouched; any
// modification would break the relay's memo parsing.
type PrepareResponse struct {
	Payment     *xrpl.Payment `json:"payment"`
	AmountDrops string        `json:"amount_drops"`
	FeeDrops    string        `json:"fee_drops"`
	TotalDrops  string        `json:"total_drops"`
}

// handlePrepare builds the unsigned relay payment for a donation
// POST /donations/prepare {"amount": "1.5", "sender": "r..."}
func (s *Server) handlePrepare(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.PrepareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	payment, err := s.submitter.PreparePayment(req.Amount, req.Sender)
	if err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	drops, err := xrpl.ToDrops(req.Amount)
	if err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	metrics.PaymentsPrepared.Inc()

	writeJSON(w, PrepareResponse{
		Payment:     payment,
		AmountDrops: drops,
		FeeDrops:    s.submitter.Fee(),
		TotalDrops:  payment.Amount,
	})
}

// handleDonations records a wallet-submitted donation and starts the
// settlement watch
// POST /donations {"tx_hash": "...", "sender": "r...", "amount": "1.5"}
func (s *Server) handleDonations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if !validTxHash(req.TxHash) {
		s.sendError(w, "Invalid transaction hash", http.StatusBadRequest)
		return
	}
	if !xrpl.ValidAddress(req.Sender) {
		s.sendError(w, "Invalid sender address", http.StatusBadRequest)
		return
	}

	drops, err := xrpl.ToDrops(req.Amount)
	if err != nil || drops == "0" {
		s.sendError(w, "Invalid amount", http.StatusBadRequest)
		return
	}

	total, err := xrpl.AddDrops(drops, s.submitter.Fee())
	if err != nil {
		s.sendError(w, "Invalid amount", http.StatusBadRequest)
		return
	}

	receipt := &models.Receipt{
		TxHash:      req.TxHash,
		Sender:      req.Sender,
		AmountDrops: drops,
		FeeDrops:    s.submitter.Fee(),
		TotalDrops:  total,
		RecordedAt:  time.Now().UTC(),
	}

	if s.repository != nil {
		if err := s.repository.SaveReceipt(r.Context(), receipt); err != nil {
			slog.Error("Failed to save receipt", "tx_hash", receipt.TxHash, "error", err)
			// Keep going: settlement tracking matters more than history
		}
	}

	metrics.ReceiptsRecorded.Inc()

	// Baseline for settlement detection is the amount visible right now;
	// if the read fails a zero baseline only makes detection eager
	baseline := big.NewInt(0)
	if current, err := s.reader.ReadByKey(r.Context(), contract.MethodDonationOf, req.Sender); err == nil {
		baseline = current
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.opts.Settlement.MaxWait+time.Minute)
		defer cancel()
		if err := s.poller.AwaitSettlement(ctx, req.Sender, baseline, s.strategy, s.opts.Settlement); err != nil {
			slog.Warn("Settlement watch ended without confirmation",
				"tx_hash", receipt.TxHash,
				"sender", req.Sender,
				"error", err,
			)
		}
	}()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(s.buildReceiptResponse(receipt))
}

// sendError sends a JSON error response
func (s *Server) sendError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: message,
		Code:    code,
	})
}
