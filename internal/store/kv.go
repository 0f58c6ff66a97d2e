package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const kvSchema = `
CREATE TABLE IF NOT EXISTS preferences (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// KVStore is a durable string key-value store scoped to one client.
type KVStore struct {
	db *sql.DB
}

// NewKVStore opens the key-value store at path.
func NewKVStore(ctx context.Context, path string) (*KVStore, error) {
	db, err := openSQLite(ctx, path, kvSchema)
	if err != nil {
		return nil, err
	}
	return &KVStore{db: db}, nil
}

// Get returns the value for key and whether it was present.
func (s *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

// Set overwrites the value for key.
func (s *KVStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Delete removes the given keys; missing keys are ignored.
func (s *KVStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	if _, err := s.db.ExecContext(ctx, `DELETE FROM preferences WHERE key IN (`+placeholders+`)`, args...); err != nil {
		return fmt.Errorf("delete preferences: %w", err)
	}
	return nil
}

func (s *KVStore) Close() error {
	return s.db.Close()
}
