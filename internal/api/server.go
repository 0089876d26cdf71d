package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"donations/internal/contract"
	"donations/internal/donation"
	"donations/internal/leaderboard"
	"donations/internal/refresh"
	"donations/internal/retry"
	"donations/internal/storage"
)

// Options carries the request-independent parameters of the API server
type Options struct {
	Port          int
	PoolAddress   string
	ExplorerURL   string
	AxelarScanURL string
	Settlement    refresh.SettlementConfig
}

// Server represents the HTTP API server
// Provides the leaderboard and stats read surface, the donation
// prepare/record write surface, Prometheus metrics, and health checks
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	opts       Options

	repository storage.Repository // nil when persistence is disabled
	reader     contract.Reader
	builder    *leaderboard.Builder
	poller     *refresh.Poller
	submitter  *donation.Submitter
	strategy   retry.Strategy
}

// NewServer creates a new API server instance
func NewServer(
	opts Options,
	repository storage.Repository,
	reader contract.Reader,
	builder *leaderboard.Builder,
	poller *refresh.Poller,
	submitter *donation.Submitter,
	strategy retry.Strategy,
) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", opts.Port),
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		mux:        mux,
		opts:       opts,
		repository: repository,
		reader:     reader,
		builder:    builder,
		poller:     poller,
		submitter:  submitter,
		strategy:   strategy,
	}

	// Register all HTTP routes
	s.registerRoutes()

	return s
}

// registerRoutes sets up all HTTP routes
func (s *Server) registerRoutes() {
	// Core endpoints
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.Handle("/metrics", s.handleMetrics())

	// Pool read surface
	s.mux.HandleFunc("/leaderboard", s.handleLeaderboard)
	s.mux.HandleFunc("/stats", s.handleStats)
	s.mux.HandleFunc("/receipts", s.handleReceipts)
	s.mux.HandleFunc("/receipts/", s.handleReceiptByHash)
	s.mux.HandleFunc("/snapshots", s.handleSnapshots)

	// Donation write surface
	s.mux.HandleFunc("/donations", s.handleDonations)
	s.mux.HandleFunc("/donations/prepare", s.handlePrepare)
}

// Start starts the HTTP server in a goroutine
// Returns immediately after starting the server
func (s *Server) Start() error {
	go func() {
		slog.Info("API server starting",
			"port", s.opts.Port,
			"endpoints", []string{"/", "/health", "/metrics", "/leaderboard", "/stats", "/receipts", "/snapshots", "/donations"},
		)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("API server error", "error", err)
		}
	}()

	// Give the server a moment to start
	time.Sleep(100 * time.Millisecond)

	return nil
}

// Shutdown gracefully shuts down the HTTP server
// Waits for active connections to close or context to timeout
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("API server shutting down...")
	return s.httpServer.Shutdown(ctx)
}
