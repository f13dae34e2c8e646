package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config captures runtime configuration for the pipeline.
type Config struct {
	FECAPIKey        string
	FTMAPIKey        string
	ElectionYear     int
	FetchConcurrency int
	FECRatePerMinute int
	FetchRetries     int
	OutputDir        string
	CacheDir         string
}

// FromEnv creates a configuration instance sourced from environment variables.
func FromEnv() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		FECAPIKey:        getEnv("FEC_API_KEY", ""),
		FTMAPIKey:        getEnv("FTM_API_KEY", ""),
		ElectionYear:     2026,
		FetchConcurrency: 4,
		FECRatePerMinute: 14,
		FetchRetries:     3,
		OutputDir:        getEnv("OUTPUT_DIR", "web/public/data"),
		CacheDir:         getEnv("CACHE_DIR", ".cache"),
	}

	if year := os.Getenv("ELECTION_YEAR"); year != "" {
		if _, err := fmt.Sscanf(year, "%d", &cfg.ElectionYear); err != nil {
			return Config{}, fmt.Errorf("parse ELECTION_YEAR: %w", err)
		}
	}

	if workers := os.Getenv("FETCH_CONCURRENCY"); workers != "" {
		if _, err := fmt.Sscanf(workers, "%d", &cfg.FetchConcurrency); err != nil {
			return Config{}, fmt.Errorf("parse FETCH_CONCURRENCY: %w", err)
		}
		if cfg.FetchConcurrency < 1 {
			return Config{}, fmt.Errorf("FETCH_CONCURRENCY must be at least 1")
		}
	}

	if limit := os.Getenv("FEC_RATE_LIMIT"); limit != "" {
		if _, err := fmt.Sscanf(limit, "%d", &cfg.FECRatePerMinute); err != nil {
			return Config{}, fmt.Errorf("parse FEC_RATE_LIMIT: %w", err)
		}
		if cfg.FECRatePerMinute < 1 {
			return Config{}, fmt.Errorf("FEC_RATE_LIMIT must be at least 1")
		}
	}

	if retries := os.Getenv("FETCH_RETRIES"); retries != "" {
		if _, err := fmt.Sscanf(retries, "%d", &cfg.FetchRetries); err != nil {
			return Config{}, fmt.Errorf("parse FETCH_RETRIES: %w", err)
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
