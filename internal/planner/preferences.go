package planner

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/i474232898/grow-planner/internal/grow"
)

// Keys of the durable local store.
const (
	KeyPot   = "pot"
	KeyWatts = "watts"
	KeyCity  = "city"
)

// LocalStore is the durable per-client key-value store.
type LocalStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// PreferenceStore reconciles built-in defaults, local preferences and the
// server profile into the active GrowProfile, and writes changes back locally.
type PreferenceStore struct {
	defaults grow.GrowProfile
	local    LocalStore
	session  SessionContext
	logger   *zap.Logger
}

func NewPreferenceStore(local LocalStore, session SessionContext, logger *zap.Logger) *PreferenceStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PreferenceStore{
		defaults: grow.DefaultProfile(),
		local:    local,
		session:  session,
		logger:   logger,
	}
}

// Resolve picks each field independently: a present, non-empty server value
// when authenticated, else a usable local value, else the default.
func (p *PreferenceStore) Resolve(ctx context.Context) grow.GrowProfile {
	return grow.GrowProfile{
		PotLiters: p.resolveNumber(ctx, KeyPot, p.session.Profile.Pot, p.defaults.PotLiters),
		Wattage:   p.resolveNumber(ctx, KeyWatts, p.session.Profile.Watts, p.defaults.Wattage),
		City:      p.resolveText(ctx, KeyCity, p.session.Profile.City, p.defaults.City),
	}
}

func (p *PreferenceStore) resolveNumber(ctx context.Context, key string, server *float64, def float64) float64 {
	if p.session.Authenticated && server != nil && *server != 0 && !math.IsNaN(*server) {
		return *server
	}
	if raw, ok := p.readLocal(ctx, key); ok {
		if v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil && !math.IsInf(v, 0) && !math.IsNaN(v) {
			return v
		}
		p.logger.Debug("ignoring unparsable local preference", zap.String("key", key), zap.String("value", raw))
	}
	return def
}

func (p *PreferenceStore) resolveText(ctx context.Context, key string, server *string, def string) string {
	if p.session.Authenticated && server != nil && *server != "" {
		return *server
	}
	if raw, ok := p.readLocal(ctx, key); ok && raw != "" {
		return raw
	}
	return def
}

func (p *PreferenceStore) readLocal(ctx context.Context, key string) (string, bool) {
	raw, ok, err := p.local.Get(ctx, key)
	if err != nil {
		p.logger.Warn("reading local preference failed", zap.String("key", key), zap.Error(err))
		return "", false
	}
	return raw, ok
}

// Save overwrites all three local keys.
func (p *PreferenceStore) Save(ctx context.Context, profile grow.GrowProfile) error {
	return errors.Join(
		p.local.Set(ctx, KeyPot, formatNumber(profile.PotLiters)),
		p.local.Set(ctx, KeyWatts, formatNumber(profile.Wattage)),
		p.local.Set(ctx, KeyCity, profile.City),
	)
}

// Clear removes every persisted preference.
func (p *PreferenceStore) Clear(ctx context.Context) error {
	return p.local.Delete(ctx, KeyPot, KeyWatts, KeyCity)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
