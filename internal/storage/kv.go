package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var _ KeyValueStore = (*SQLiteKV)(nil)

// SQLiteKV is a KeyValueStore over the kv table
type SQLiteKV struct {
	db *DB
}

// NewKVStore creates a key-value store
func NewKVStore(db *DB) *SQLiteKV {
	return &SQLiteKV{db: db}
}

// Get returns the value stored at key
func (s *SQLiteKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return value, true, nil
}

// Set upserts value at key
func (s *SQLiteKV) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}
