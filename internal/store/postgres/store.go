// Package postgres provides a Postgres-backed result store.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/leadscope/practicescout/internal/scout"
	"github.com/leadscope/practicescout/internal/store"
)

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Config controls the Postgres connection pool used for result rows.
type Config struct {
	DSN             string
	Table           string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type execCloser interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Close()
}

// Store upserts result rows into Postgres keyed by the entity key.
type Store struct {
	pool  execCloser
	table string
}

// New creates a Postgres-backed result store using the provided config.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database.dsn is required")
	}
	table := cfg.Table
	if table == "" {
		table = "results"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Store{pool: pool, table: table}, nil
}

// NewWithPool constructs a store from an existing pool (primarily for testing).
func NewWithPool(pool execCloser, table string) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if table == "" {
		table = "results"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &Store{pool: pool, table: table}, nil
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// Save upserts the record. Re-running the same entity replaces the stored row.
func (s *Store) Save(ctx context.Context, record scout.ResultRecord) (string, error) {
	if s == nil || s.pool == nil {
		return "", fmt.Errorf("result store is not configured")
	}
	if record.Entity.Name == "" {
		return "", fmt.Errorf("entity name is required")
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}
	key := store.ObjectKey(record.Entity.Name)
	query := fmt.Sprintf(`
INSERT INTO %s (
	entity_key,
	entity_name,
	website,
	record,
	scraped_at
) VALUES (
	$1,$2,$3,$4,$5
)
ON CONFLICT (entity_key) DO UPDATE SET
	entity_name = EXCLUDED.entity_name,
	website = EXCLUDED.website,
	record = EXCLUDED.record,
	scraped_at = EXCLUDED.scraped_at`, s.table)

	args := []any{
		key,
		record.Entity.Name,
		record.Website,
		payload,
		record.ScrapedAt,
	}
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return "", fmt.Errorf("upsert result: %w", err)
	}
	return fmt.Sprintf("postgres://%s/%s", s.table, key), nil
}
