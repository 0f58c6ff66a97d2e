package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/i474232898/grow-planner/internal/grow"
)

const profileSchema = `
CREATE TABLE IF NOT EXISTS profiles (
	username   TEXT PRIMARY KEY,
	pot_volume REAL NOT NULL,
	watts      REAL NOT NULL,
	city       TEXT NOT NULL DEFAULT '',
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// ProfileStore persists one grow profile per authenticated user.
type ProfileStore struct {
	db *sql.DB
}

// NewProfileStore opens the profile database at path.
func NewProfileStore(ctx context.Context, path string) (*ProfileStore, error) {
	db, err := openSQLite(ctx, path, profileSchema)
	if err != nil {
		return nil, err
	}
	return &ProfileStore{db: db}, nil
}

// GetOrCreate returns the user's profile, creating it with defaults on first access.
func (s *ProfileStore) GetOrCreate(ctx context.Context, username string) (grow.GrowProfile, error) {
	def := grow.DefaultProfile()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (username, pot_volume, watts, city) VALUES (?, ?, ?, ?) ON CONFLICT(username) DO NOTHING`,
		username, def.PotLiters, def.Wattage, def.City); err != nil {
		return grow.GrowProfile{}, fmt.Errorf("create profile for %s: %w", username, err)
	}

	var p grow.GrowProfile
	err := s.db.QueryRowContext(ctx,
		`SELECT pot_volume, watts, city FROM profiles WHERE username = ?`, username,
	).Scan(&p.PotLiters, &p.Wattage, &p.City)
	if errors.Is(err, sql.ErrNoRows) {
		return grow.GrowProfile{}, fmt.Errorf("profile for %s vanished", username)
	}
	if err != nil {
		return grow.GrowProfile{}, fmt.Errorf("load profile for %s: %w", username, err)
	}
	return p, nil
}

// Save overwrites the user's profile.
func (s *ProfileStore) Save(ctx context.Context, username string, p grow.GrowProfile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (username, pot_volume, watts, city, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(username) DO UPDATE SET
			pot_volume = excluded.pot_volume,
			watts      = excluded.watts,
			city       = excluded.city,
			updated_at = excluded.updated_at`,
		username, p.PotLiters, p.Wattage, p.City)
	if err != nil {
		return fmt.Errorf("save profile for %s: %w", username, err)
	}
	return nil
}

func (s *ProfileStore) Close() error {
	return s.db.Close()
}
