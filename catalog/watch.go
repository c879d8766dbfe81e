package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/syssam/asenum"
)

// DefaultDebounce is the quiet period after the last file event before
// a directory is reloaded.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads a catalog directory into a registry whenever one of
// its catalog files changes. A failed reload keeps the previously
// registered definitions.
type Watcher struct {
	dir          string
	registry     *asenum.Registry
	translations *asenum.Translations
	logger       *slog.Logger
	debounce     time.Duration
	onReload     func([]asenum.Entry, error)
	fsw          *fsnotify.Watcher
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher) error

// WithRegistry sets the registry updated on reload. Defaults to
// asenum.DefaultRegistry.
func WithRegistry(r *asenum.Registry) WatchOption {
	return func(w *Watcher) error {
		if r == nil {
			return errors.New("catalog: nil registry")
		}
		w.registry = r
		return nil
	}
}

// WithTranslations sets the translations updated on reload. Defaults to
// asenum.DefaultTranslations.
func WithTranslations(t *asenum.Translations) WatchOption {
	return func(w *Watcher) error {
		w.translations = t
		return nil
	}
}

// WithLogger sets the logger of the watcher.
func WithLogger(l *slog.Logger) WatchOption {
	return func(w *Watcher) error {
		if l == nil {
			return errors.New("catalog: nil logger")
		}
		w.logger = l
		return nil
	}
}

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) error {
		if d < 0 {
			return fmt.Errorf("catalog: negative debounce %s", d)
		}
		w.debounce = d
		return nil
	}
}

// WithOnReload registers a hook called after every reload attempt.
func WithOnReload(fn func([]asenum.Entry, error)) WatchOption {
	return func(w *Watcher) error {
		w.onReload = fn
		return nil
	}
}

// NewWatcher returns a watcher of dir. Call Run to start watching.
func NewWatcher(dir string, opts ...WatchOption) (*Watcher, error) {
	w := &Watcher{
		dir:          dir,
		registry:     asenum.DefaultRegistry,
		translations: asenum.DefaultTranslations,
		logger:       slog.Default(),
		debounce:     DefaultDebounce,
	}
	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("catalog: create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("catalog: watch %s: %w", dir, err)
	}
	w.fsw = fsw
	return w, nil
}

// Run loads the directory once and then reloads it on change, until ctx
// is done or the watcher is closed. The initial load error is returned.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()
	if _, err := w.Reload(ctx); err != nil {
		return err
	}
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !isCatalogFile(filepath.Base(ev.Name)) || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) {
				continue
			}
			w.logger.Debug("catalog file changed", "file", ev.Name, "op", ev.Op.String())
			timer.Reset(w.debounce)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("catalog watcher error", "dir", w.dir, "error", err)
		case <-timer.C:
			// Errors are logged and reported to the hook.
			_, _ = w.Reload(ctx)
		}
	}
}

// Reload loads the directory and registers its definitions.
func (w *Watcher) Reload(ctx context.Context) ([]asenum.Entry, error) {
	start := time.Now()
	entries, err := w.reload(ctx)
	if err != nil {
		w.logger.Error("catalog reload failed", "dir", w.dir, "error", err)
	} else {
		w.logger.Info("catalog reloaded", "dir", w.dir, "definitions", len(entries), "duration", time.Since(start))
	}
	if w.onReload != nil {
		w.onReload(entries, err)
	}
	return entries, err
}

func (w *Watcher) reload(ctx context.Context) ([]asenum.Entry, error) {
	c, err := LoadDir(ctx, w.dir)
	if err != nil {
		return nil, err
	}
	return c.Register(w.registry, w.translations)
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
