// Package db dials the backing services the document store runs on.
// Which of the two stores actually holds the documents is decided by
// config.Config.StoreBackend; Redis is always dialled because the
// leaderboard cache and event publishing live there regardless.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPostgresPool opens the pool backing the Postgres document store and
// verifies it with a ping. The documents table itself is created by
// store.Postgres.EnsureSchema, not here.
func NewPostgresPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	return pool, nil
}
