package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"donations/internal/api"
	"donations/internal/config"
	"donations/internal/contract"
	"donations/internal/donation"
	"donations/internal/leaderboard"
	"donations/internal/refresh"
	"donations/internal/retry"
	"donations/internal/storage"
)

func main() {
	fmt.Println("🌟 Starting Donation Pool Service...")

	// 1. Load configuration
	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	// 2. Configure logger
	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	slog.Info("Configuration loaded",
		"rpc_server", cfg.RPCServerURL,
		"pool", cfg.PoolAddress,
		"destination_chain", cfg.DestinationChain,
		"log_level", cfg.LogLevel,
	)

	ctx := context.Background()

	// 3. Initialize database connection (optional history layer)
	var repository storage.Repository
	if cfg.DatabaseURL != "" {
		repo, err := storage.NewPostgresRepository(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("❌ Failed to connect to database: %v", err)
		}
		defer repo.Close()
		repository = repo
		slog.Info("Database connected successfully")
	} else {
		slog.Warn("DATABASE_URL not set, snapshot and receipt history disabled")
	}

	// 4. Connect to the pool contract
	reader, err := contract.NewEVMReader(cfg.RPCServerURL, cfg.PoolAddress, cfg.CallTimeout)
	if err != nil {
		log.Fatalf("❌ Failed to create contract reader: %v", err)
	}
	defer reader.Close()

	// Probe the contract through the retry strategy so a briefly
	// unreachable RPC endpoint does not kill startup
	strategy := retry.NewStrategy(retry.LoadConfig())
	if err := strategy.Execute(ctx, func() error {
		return reader.Ping(ctx)
	}); err != nil {
		log.Fatalf("❌ Pool contract unreachable at %s: %v", cfg.PoolAddress, err)
	}
	slog.Info("Pool contract connected", "address", cfg.PoolAddress)

	// 5. Build the donation submitter (prepares unsigned relay payments;
	// signing stays with the caller's wallet)
	submitter, err := donation.NewSubmitter(donation.Config{
		PoolAddress:      cfg.PoolAddress,
		RelayAddress:     cfg.RelayAddress,
		DestinationChain: cfg.DestinationChain,
		FeeDrops:         cfg.GasFeeDrops,
	}, nil)
	if err != nil {
		log.Fatalf("❌ Invalid relay configuration: %v", err)
	}

	// 6. Create the leaderboard poller with its snapshot sinks
	builder := leaderboard.NewBuilder(reader)
	sinks := []refresh.Sink{refresh.NewMetricsSink()}
	if repository != nil {
		sinks = append(sinks, refresh.NewStorageSink(repository))
	}
	poller := refresh.NewPoller(builder, reader, cfg.PollInterval, sinks...)
	if repository != nil {
		if snap, err := repository.LatestSnapshot(ctx); err != nil {
			slog.Warn("Failed to load stored snapshot", "error", err)
		} else if snap != nil {
			poller.Warm(snap)
			slog.Info("Serving stored snapshot until first scan", "taken_at", snap.TakenAt)
		}
	}

	// 7. Start the API server
	settlement := refresh.SettlementConfig{
		Interval: cfg.SettlementInterval,
		MaxWait:  cfg.SettlementMaxWait,
	}
	server := api.NewServer(api.Options{
		Port:          cfg.APIPort,
		PoolAddress:   cfg.PoolAddress,
		ExplorerURL:   cfg.ExplorerURL,
		AxelarScanURL: cfg.AxelarScanURL,
		Settlement:    settlement,
	}, repository, reader, builder, poller, submitter, strategy)
	if err := server.Start(); err != nil {
		log.Fatalf("❌ Failed to start API server: %v", err)
	}

	// 8. Run the poller until interrupted
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	group, groupCtx := errgroup.WithContext(runCtx)
	group.Go(func() error {
		return poller.Run(groupCtx)
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		slog.Warn("Interrupt received, shutting down...")
		cancel()
	case <-groupCtx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Error stopping API server", "error", err)
	}

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Poller error", "error", err)
		os.Exit(1)
	}

	slog.Info("Donation pool service stopped")
}
