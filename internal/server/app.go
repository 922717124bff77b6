package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"Hearthlight/internal/dialogue"
)

const shutdownTimeout = 5 * time.Second

// resolveStore loads the configured content directory, or the built-in seed
// content when none is set.
func resolveStore(cfg AppConfig, logger zerolog.Logger) (dialogue.Store, error) {
	if cfg.ContentDir == "" {
		store := dialogue.SeedStore()
		logger.Info().Int("nodes", len(store)).Msg("no content dir configured, using seed dialogue")
		return store, nil
	}
	store, err := dialogue.LoadDir(cfg.ContentDir)
	if err != nil {
		return nil, err
	}
	for _, ref := range store.DanglingRefs() {
		logger.Warn().
			Str("node", ref.Node).
			Int("option", ref.Option).
			Str("next", ref.Next).
			Msg("dialogue option links to a missing node")
	}
	logger.Info().Str("dir", cfg.ContentDir).Int("nodes", len(store)).Msg("dialogue content loaded")
	return store, nil
}

// StartApp serves dialogue sessions until ctx is cancelled or the listener fails.
func StartApp(ctx context.Context, cfg AppConfig, logger zerolog.Logger) error {
	store, err := resolveStore(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to load dialogue content: %w", err)
	}
	hub := NewHub(store)

	g, gCtx := errgroup.WithContext(ctx)

	if cfg.ContentDir != "" && cfg.WatchContent {
		reloader, err := NewReloader(cfg.ContentDir, hub, cfg.ReloadDebounce, logger)
		if err != nil {
			return err
		}
		g.Go(func() error {
			return reloader.Run(gCtx)
		})
	}

	srv := newHTTPServer(cfg.Addr, newRouter(hub, logger.With().Str("component", "http").Logger()))
	g.Go(func() error {
		logger.Info().Str("addr", cfg.Addr).Msg("starting web server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
