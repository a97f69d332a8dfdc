package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresKV is a Postgres-backed KV store using a single key/value table.
type PostgresKV struct {
	pool *pgxpool.Pool
}

// ConnectPostgres establishes a connection pool and ensures the backing
// table exists.
func ConnectPostgres(ctx context.Context, databaseURL string) (*PostgresKV, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	kv := &PostgresKV{pool: pool}
	if err := kv.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return kv, nil
}

func (p *PostgresKV) ensureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS resume_records (
			key        TEXT PRIMARY KEY,
			value      BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return &StorageError{Op: "migrate", Cause: err}
	}
	return nil
}

// Close closes the connection pool.
func (p *PostgresKV) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// Get returns the value for key.
func (p *PostgresKV) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := p.pool.QueryRow(ctx,
		`SELECT value FROM resume_records WHERE key = $1`, key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Key: key}
		}
		return nil, &StorageError{Op: "read", Key: key, Cause: err}
	}
	return value, nil
}

// Put upserts the value for key.
func (p *PostgresKV) Put(ctx context.Context, key string, value []byte) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO resume_records (key, value, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = NOW()`,
		key, value,
	)
	if err != nil {
		return &StorageError{Op: "write", Key: key, Cause: err}
	}
	return nil
}

// Delete removes key; missing keys are ignored.
func (p *PostgresKV) Delete(ctx context.Context, key string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM resume_records WHERE key = $1`, key)
	if err != nil {
		return &StorageError{Op: "delete", Key: key, Cause: err}
	}
	return nil
}

// ListByPrefix returns matching keys sorted ascending.
func (p *PostgresKV) ListByPrefix(ctx context.Context, prefix string) ([]string, error) {
	// starts_with instead of LIKE: keys contain "_", which LIKE would treat
	// as a wildcard.
	rows, err := p.pool.Query(ctx,
		`SELECT key FROM resume_records WHERE starts_with(key, $1) ORDER BY key`, prefix)
	if err != nil {
		return nil, &StorageError{Op: "list", Key: prefix, Cause: err}
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, &StorageError{Op: "list", Key: prefix, Cause: err}
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "list", Key: prefix, Cause: err}
	}
	return keys, nil
}
