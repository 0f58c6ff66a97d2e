package main

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/i474232898/grow-planner/internal/config"
	"github.com/i474232898/grow-planner/internal/planner"
	"github.com/i474232898/grow-planner/internal/store"
)

var errOffline = errors.New("weather lookups need the server; drop --offline")

// workspace is everything a command needs, wired once per invocation.
type workspace struct {
	store   *store.KVStore
	client  *planner.Client
	session planner.SessionContext
	prefs   *planner.PreferenceStore
	planner *planner.Planner
}

func loadConfig() (*config.ClientConfig, error) {
	cfg, err := config.LoadClient()
	if err != nil {
		return nil, err
	}
	if serverURL != "" {
		cfg.ServerURL = serverURL
	}
	if token != "" {
		cfg.Token = token
	}
	if statePath != "" {
		cfg.StatePath = statePath
	}
	return cfg, nil
}

// openWorkspace opens the local store, reads the session context once and
// builds the planner. A server that cannot be reached degrades to an
// anonymous session.
func openWorkspace(ctx context.Context, online bool) (*workspace, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	kv, err := store.NewKVStore(ctx, cfg.StatePath)
	if err != nil {
		return nil, err
	}
	ws := &workspace{store: kv, session: planner.Anonymous}

	var (
		source planner.WeatherSource
		remote planner.Remote
	)
	if online {
		client, err := planner.NewClient(cfg.ServerURL, cfg.Token, &http.Client{Timeout: cfg.Timeout})
		if err != nil {
			_ = kv.Close()
			return nil, err
		}
		ws.client = client
		source, remote = client, client

		session, err := client.Session(ctx)
		if err != nil {
			logger.Warn("session unavailable, continuing anonymously",
				zap.String("server", cfg.ServerURL), zap.Error(err))
		} else {
			ws.session = session
		}
	}

	ws.prefs = planner.NewPreferenceStore(kv, ws.session, logger)
	ws.planner = planner.New(ws.prefs, planner.NewSyncPolicy(remote, ws.session, logger), source, logger)
	ws.planner.Hydrate(ctx)
	return ws, nil
}

// Close waits for pending profile syncs before closing the local store.
func (w *workspace) Close() {
	w.planner.Wait()
	if err := w.store.Close(); err != nil {
		logger.Warn("closing local store", zap.Error(err))
	}
}
