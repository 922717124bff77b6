package server

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"Hearthlight/internal/dialogue"
)

// Reloader watches a content directory and pushes freshly loaded stores into
// the hub. A store that fails to load is logged and discarded; sessions keep
// the last good content.
type Reloader struct {
	dir      string
	hub      *Hub
	debounce time.Duration
	logger   zerolog.Logger
	watcher  *fsnotify.Watcher
	reloaded chan struct{}
}

func NewReloader(dir string, hub *Hub, debounce time.Duration, logger zerolog.Logger) (*Reloader, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create content watcher: %w", err)
	}
	r := &Reloader{
		dir:      dir,
		hub:      hub,
		debounce: debounce,
		logger:   logger.With().Str("component", "reloader").Logger(),
		watcher:  fsw,
		reloaded: make(chan struct{}, 1),
	}
	if err := r.addRecursive(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return r, nil
}

// Reloaded is signalled after each attempted reload.
func (r *Reloader) Reloaded() <-chan struct{} {
	return r.reloaded
}

func (r *Reloader) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip inaccessible paths
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := r.watcher.Add(path); err != nil {
			return fmt.Errorf("watch %q: %w", path, err)
		}
		return nil
	})
}

// Run processes filesystem events until ctx is cancelled.
func (r *Reloader) Run(ctx context.Context) error {
	defer r.watcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-r.watcher.Events:
			if !ok {
				return nil
			}
			if !r.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(r.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(r.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			r.reload()

		case err, ok := <-r.watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn().Err(err).Msg("content watcher error")
		}
	}
}

func (r *Reloader) relevant(event fsnotify.Event) bool {
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	if event.Has(fsnotify.Create) {
		// New subdirectories need their own watch.
		_ = r.addRecursive(event.Name)
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	if dialogue.SupportedExtensions[ext] {
		return true
	}
	// Removing or renaming a directory drops its files too.
	return event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

func (r *Reloader) reload() {
	defer func() {
		select {
		case r.reloaded <- struct{}{}:
		default:
		}
	}()

	store, err := dialogue.LoadDir(r.dir)
	if err != nil {
		r.logger.Error().Err(err).Msg("content reload failed, keeping previous content")
		return
	}
	sessions := r.hub.Reload(store)
	r.logger.Info().
		Int("nodes", len(store)).
		Int("sessions", sessions).
		Int("dangling", len(store.DanglingRefs())).
		Msg("dialogue content reloaded")
}
