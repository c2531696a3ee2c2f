package llm

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// CatalogWatcher reloads a Catalog whenever its YAML file changes.
type CatalogWatcher struct {
	path    string
	catalog *Catalog
	watcher *fsnotify.Watcher
}

// NewCatalogWatcher starts watching the directory holding path. Editors often
// replace files by rename, so the directory is watched rather than the file.
func NewCatalogWatcher(path string, catalog *Catalog) (*CatalogWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve catalog path: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	return &CatalogWatcher{path: abs, catalog: catalog, watcher: w}, nil
}

// Run reloads the catalog on every write, create or rename of the file until
// ctx is done. Invalid files are logged and ignored.
func (w *CatalogWatcher) Run(ctx context.Context) error {
	defer func() {
		_ = w.watcher.Close()
	}()

	slog.InfoContext(ctx, "model catalog watcher started", slog.String("path", w.path))

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "model catalog watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := w.catalog.Reload(w.path); err != nil {
				slog.WarnContext(ctx, "model catalog reload failed, keeping previous catalog",
					slog.String("path", w.path),
					slog.Any("error", err))
				continue
			}
			slog.InfoContext(ctx, "model catalog reloaded",
				slog.String("path", w.path),
				slog.Int("models", len(w.catalog.Models())))

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			slog.ErrorContext(ctx, "model catalog watcher error", slog.Any("error", err))
		}
	}
}
