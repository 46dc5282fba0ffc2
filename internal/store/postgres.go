package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres keeps every document as a row in a single documents table,
// path as primary key, body as JSONB. Transact takes a row lock on the
// anchor path so concurrent read-modify-writes serialise, and applies all
// writes in one transaction.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps an existing pgxpool connection pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// EnsureSchema creates the documents table if it does not exist.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS documents (
		   path       TEXT PRIMARY KEY,
		   doc        JSONB NOT NULL,
		   updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		 )`)
	if err != nil {
		return fmt.Errorf("ensure documents table: %w", err)
	}
	return nil
}

func (s *Postgres) Get(ctx context.Context, path string) ([]byte, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx,
		`SELECT doc FROM documents WHERE path = $1`, path,
	).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	return doc, nil
}

func (s *Postgres) Set(ctx context.Context, path string, doc []byte) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO documents (path, doc) VALUES ($1, $2::jsonb)
		 ON CONFLICT (path) DO UPDATE SET doc = EXCLUDED.doc, updated_at = NOW()`,
		path, doc,
	)
	if err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return nil
}

func (s *Postgres) Children(ctx context.Context, path string) (map[string][]byte, error) {
	// The second NOT LIKE excludes paths more than one level below.
	rows, err := s.pool.Query(ctx,
		`SELECT path, doc FROM documents
		 WHERE path LIKE $1 || '/%' AND path NOT LIKE $1 || '/%/%'`,
		path,
	)
	if err != nil {
		return nil, fmt.Errorf("children of %s: %w", path, err)
	}
	defer rows.Close()

	out := make(map[string][]byte)
	for rows.Next() {
		var p string
		var doc []byte
		if err := rows.Scan(&p, &doc); err != nil {
			return nil, fmt.Errorf("children scan: %w", err)
		}
		out[childName(p)] = doc
	}
	return out, rows.Err()
}

func (s *Postgres) Transact(ctx context.Context, path string, fn func(current []byte) ([]Write, error)) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	// FOR UPDATE locks nothing when the row does not exist yet, so two
	// writers creating the same anchor would both read nil and the later
	// commit would overwrite the first. The advisory lock covers the
	// absent-row case; it is released automatically at commit/rollback.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, path); err != nil {
		return fmt.Errorf("lock %s: %w", path, err)
	}

	var current []byte
	err = tx.QueryRow(ctx,
		`SELECT doc FROM documents WHERE path = $1 FOR UPDATE`, path,
	).Scan(&current)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("read %s: %w", path, err)
	}

	writes, err := fn(current)
	if err != nil {
		return err
	}

	for _, w := range writes {
		if w.Doc == nil {
			if _, err := tx.Exec(ctx, `DELETE FROM documents WHERE path = $1`, w.Path); err != nil {
				return fmt.Errorf("delete %s: %w", w.Path, err)
			}
			continue
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO documents (path, doc) VALUES ($1, $2::jsonb)
			 ON CONFLICT (path) DO UPDATE SET doc = EXCLUDED.doc, updated_at = NOW()`,
			w.Path, w.Doc,
		)
		if err != nil {
			return fmt.Errorf("write %s: %w", w.Path, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
