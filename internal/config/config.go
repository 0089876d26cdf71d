package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the environment-level parameters of the donation service.
// These are deployment constants, never derived at runtime.
type Config struct {
	// RPCServerURL is the destination-chain JSON-RPC endpoint
	RPCServerURL string

	// PoolAddress is the donation pool contract on the destination chain
	PoolAddress string

	// RelayAddress is the relay's collection account on the source ledger
	RelayAddress string

	// DestinationChain is the relay's chain identifier string
	DestinationChain string

	// GasFeeDrops is the fixed relay fee in source-ledger base units
	GasFeeDrops string

	// PollInterval between periodic leaderboard scans
	PollInterval time.Duration

	// CallTimeout bounds each individual contract read
	CallTimeout time.Duration

	// SettlementInterval is the initial delay between settlement polls
	SettlementInterval time.Duration

	// SettlementMaxWait bounds the whole settlement poll
	SettlementMaxWait time.Duration

	// APIPort for the HTTP server
	APIPort int

	// DatabaseURL for snapshot and receipt history; empty disables
	// persistence
	DatabaseURL string

	// ExplorerURL is the destination-chain block explorer base URL
	ExplorerURL string

	// AxelarScanURL is the relay tracking explorer base URL
	AxelarScanURL string

	// LogLevel: debug, info, warn, error
	LogLevel string
}

// Load returns the service configuration from environment variables,
// defaulting to the XRPL EVM sidechain testnet deployment
func Load() *Config {
	return &Config{
		RPCServerURL:       getEnv("RPC_SERVER_URL", "https://rpc.testnet.xrplevm.org"),
		PoolAddress:        getEnv("POOL_ADDRESS", "0x3d0d600385af49e9db119eb76b4327592c91f277"),
		RelayAddress:       getEnv("RELAY_ADDRESS", "rNrjh1KGZk2jBR3wPfAQnoidtFFYQKbQn2"),
		DestinationChain:   getEnv("DESTINATION_CHAIN", "xrpl-evm"),
		GasFeeDrops:        getEnv("GAS_FEE_DROPS", "300000"),
		PollInterval:       getEnvAsDuration("POLL_INTERVAL_SEC", 30),
		CallTimeout:        getEnvAsDuration("CALL_TIMEOUT_SEC", 10),
		SettlementInterval: getEnvAsDuration("SETTLEMENT_INTERVAL_SEC", 5),
		SettlementMaxWait:  getEnvAsDuration("SETTLEMENT_MAX_WAIT_SEC", 180),
		APIPort:            getEnvAsInt("API_PORT", 8080),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		ExplorerURL:        getEnv("EXPLORER_URL", "https://explorer.testnet.xrplevm.org"),
		AxelarScanURL:      getEnv("AXELARSCAN_URL", "https://testnet.axelarscan.io"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.RPCServerURL == "" {
		return fmt.Errorf("RPC_SERVER_URL is required")
	}
	if !strings.HasPrefix(c.PoolAddress, "0x") || len(c.PoolAddress) != 42 {
		return fmt.Errorf("POOL_ADDRESS must be a 0x-prefixed contract address")
	}
	if !strings.HasPrefix(c.RelayAddress, "r") {
		return fmt.Errorf("RELAY_ADDRESS must be a classic source-ledger address")
	}
	if c.DestinationChain == "" {
		return fmt.Errorf("DESTINATION_CHAIN is required")
	}
	if _, err := strconv.ParseUint(c.GasFeeDrops, 10, 64); err != nil {
		return fmt.Errorf("GAS_FEE_DROPS must be a base-unit integer: %w", err)
	}
	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("API_PORT out of range: %d", c.APIPort)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL_SEC must be positive")
	}
	return nil
}

// Helper: get string from env
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// Helper: get int from env
func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}

// Helper: get seconds from env as a duration
func getEnvAsDuration(key string, defaultSec int) time.Duration {
	return time.Duration(getEnvAsInt(key, defaultSec)) * time.Second
}
