package panelfile

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/phenoage-cli/internal/core/domain"
	"github.com/custodia-labs/phenoage-cli/internal/logger"
)

// Watch monitors path and calls onChange with the freshly decoded panel
// each time the file is written or replaced. It runs until ctx is cancelled.
//
// A reload that fails to decode is passed to onError (if non-nil) and
// onChange is not called; watching continues. Both callbacks run on the
// watcher goroutine.
func Watch(ctx context.Context, path string, onChange func(domain.Extraction), onError func(error)) error {
	if _, err := FormatFromPath(path); err != nil {
		return err
	}

	if _, err := os.Stat(path); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory: an atomic save renames a new file over path, and
	// a watch on the old inode never sees it.
	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return err
	}

	logger.Info("Watching panel file %s", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			e, err := Load(path)
			if err != nil {
				logger.Warn("Panel reload failed: %v", err)
				if onError != nil {
					onError(err)
				}
				continue
			}

			logger.Debug("Panel reloaded: %s", path)
			onChange(e)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}
