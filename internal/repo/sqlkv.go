package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
)

// Dialect holds the SQL that differs between drivers.
type Dialect struct {
	Name   string
	Get    string
	Upsert string
	Schema string
}

// Postgres is the dialect for github.com/lib/pq. The table is created by migrations.
var Postgres = Dialect{
	Name:   "postgres",
	Get:    `SELECT value FROM kv_store WHERE key = $1`,
	Upsert: `INSERT INTO kv_store (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
}

// SQLite is the dialect for modernc.org/sqlite.
var SQLite = Dialect{
	Name:   "sqlite",
	Get:    `SELECT value FROM kv_store WHERE key = ?`,
	Upsert: `INSERT INTO kv_store (key, value) VALUES (?, ?) ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
	Schema: `CREATE TABLE IF NOT EXISTS kv_store (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

// ========================
// REPOSITORY STRUCT
// ========================

// SQLStore keeps KV pairs in the kv_store table.
type SQLStore struct {
	DB      *sql.DB
	dialect Dialect
}

// NewSQLStore wraps db. When the dialect carries a schema it is applied first.
func NewSQLStore(ctx context.Context, db *sql.DB, dialect Dialect) (*SQLStore, error) {
	if dialect.Schema != "" {
		if _, err := db.ExecContext(ctx, dialect.Schema); err != nil {
			return nil, fmt.Errorf("create kv_store: %w", err)
		}
	}
	return &SQLStore{DB: db, dialect: dialect}, nil
}

// ========================
// GET VALUE
// ========================

func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.DB.QueryRowContext(ctx, s.dialect.Get, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

// ========================
// PUT VALUES (ONE TRANSACTION)
// ========================

func (s *SQLStore) Put(ctx context.Context, entries map[string]string) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	// Sorted so writes happen in a stable order.
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if _, err := tx.ExecContext(ctx, s.dialect.Upsert, k, entries[k]); err != nil {
			return fmt.Errorf("put %q: %w", k, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func (s *SQLStore) Close() error {
	return s.DB.Close()
}
