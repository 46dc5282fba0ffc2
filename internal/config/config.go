// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits with an
// error.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Backend selects the document-store implementation.
type Backend string

const (
	BackendPostgres Backend = "postgres"
	BackendRedis    Backend = "redis"
)

// Config holds all runtime configuration for the matching service.
type Config struct {
	Port               string
	StoreBackend       Backend
	DatabaseURL        string // required when StoreBackend is postgres
	RedisURL           string
	RankRefreshMinutes int // how often the leaderboard cache is rebuilt
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	backend := Backend(os.Getenv("STORE_BACKEND"))
	if backend == "" {
		backend = BackendPostgres
	}
	if backend != BackendPostgres && backend != BackendRedis {
		return nil, fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendPostgres, BackendRedis, backend)
	}

	dbURL := os.Getenv("DATABASE_URL")
	if backend == BackendPostgres && dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	interval := 15
	if s := os.Getenv("RANK_REFRESH_MINUTES"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("RANK_REFRESH_MINUTES must be a positive integer, got %q", s)
		}
		interval = v
	}

	port := os.Getenv("MATCHING_PORT")
	if port == "" {
		port = "8083"
	}

	return &Config{
		Port:               port,
		StoreBackend:       backend,
		DatabaseURL:        dbURL,
		RedisURL:           redisURL,
		RankRefreshMinutes: interval,
	}, nil
}
