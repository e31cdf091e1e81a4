package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/okian/gamemash/internal/errs"
)

// Postgres defaults.
const (
	defaultPostgresTable = "gamemash_state"
	defaultPostgresKey   = "default"
)

// PostgresConfig configures a PostgresStore.
type PostgresConfig struct {
	DSN   string
	Table string
	Key   string
}

// PostgresStore keeps the blob in one row of a key/value table that is
// created on open.
type PostgresStore struct {
	pool  *pgxpool.Pool
	table string
	key   string
}

// NewPostgresStore opens a pool, pings it and ensures the table exists.
func NewPostgresStore(ctx context.Context, cfg PostgresConfig) (*PostgresStore, error) {
	const op = "postgres.open"
	if cfg.DSN == "" {
		return nil, errs.Invalid(op, "postgres dsn must not be empty")
	}

	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, failure(op, fmt.Errorf("failed to create connection pool: %w", err))
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, failure(op, fmt.Errorf("failed to ping DB: %w", err))
	}

	s := newPostgresStore(pool, cfg.Table, cfg.Key)
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func newPostgresStore(pool *pgxpool.Pool, table, key string) *PostgresStore {
	if table == "" {
		table = defaultPostgresTable
	}
	if key == "" {
		key = defaultPostgresKey
	}
	return &PostgresStore{
		pool:  pool,
		table: pgx.Identifier{table}.Sanitize(),
		key:   key,
	}
}

func (p *PostgresStore) migrate(ctx context.Context) error {
	q := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		key        TEXT PRIMARY KEY,
		blob       BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`, p.table)
	if _, err := p.pool.Exec(ctx, q); err != nil {
		return failure("postgres.migrate", err)
	}
	return nil
}

// Name implements BlobStore.
func (p *PostgresStore) Name() string { return BackendPostgres }

// Load implements BlobStore.
func (p *PostgresStore) Load(ctx context.Context) ([]byte, error) {
	var blob []byte
	q := fmt.Sprintf(`SELECT blob FROM %s WHERE key = $1`, p.table)
	err := p.pool.QueryRow(ctx, q, p.key).Scan(&blob)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAbsent
	}
	if err != nil {
		return nil, failure("postgres.load", err)
	}
	return blob, nil
}

// Save implements BlobStore.
func (p *PostgresStore) Save(ctx context.Context, blob []byte) error {
	q := fmt.Sprintf(`INSERT INTO %s (key, blob, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET blob = EXCLUDED.blob, updated_at = EXCLUDED.updated_at`, p.table)
	if _, err := p.pool.Exec(ctx, q, p.key, blob); err != nil {
		return failure("postgres.save", err)
	}
	return nil
}

// Delete implements BlobStore.
func (p *PostgresStore) Delete(ctx context.Context) error {
	q := fmt.Sprintf(`DELETE FROM %s WHERE key = $1`, p.table)
	if _, err := p.pool.Exec(ctx, q, p.key); err != nil {
		return failure("postgres.delete", err)
	}
	return nil
}

// Close implements BlobStore.
func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}
