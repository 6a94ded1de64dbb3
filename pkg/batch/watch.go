package batch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/macropower/kbatch/pkg/log"
)

// WatchDebounce is how long [Watch] waits after the last change before
// calling its callback.
var WatchDebounce = 100 * time.Millisecond

// Watch calls fn whenever one of the files in paths is written, created or
// renamed, until ctx is done. Parent directories are watched so that
// editors which save by renaming are noticed. Errors returned by fn are
// logged and do not stop the watch.
func Watch(ctx context.Context, paths []string, fn func(context.Context) error) error {
	logger := log.WithContext(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	defer func() {
		err := watcher.Close()
		if err != nil {
			logger.Error("close watcher", slog.Any("err", err))
		}
	}()

	files := make([]string, 0, len(paths))
	dirs := []string{}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", p, err)
		}

		files = append(files, abs)

		dir := filepath.Dir(abs)
		if slices.Contains(dirs, dir) {
			continue
		}

		dirs = append(dirs, dir)

		err = watcher.Add(dir)
		if err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	timer := time.NewTimer(WatchDebounce)
	timer.Stop()

	defer timer.Stop()

	logger.InfoContext(ctx, "watching for changes", slog.Any("files", files))

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !evt.Has(fsnotify.Write | fsnotify.Create | fsnotify.Rename) {
				continue
			}

			if !slices.Contains(files, filepath.Clean(evt.Name)) {
				continue
			}

			logger.DebugContext(ctx, "file changed",
				slog.String("path", evt.Name),
				slog.String("op", evt.Op.String()),
			)
			timer.Reset(WatchDebounce)

		case <-timer.C:
			err := fn(ctx)
			if err != nil {
				logger.ErrorContext(ctx, "regenerate", slog.Any("err", err))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			logger.ErrorContext(ctx, "watch", slog.Any("err", err))
		}
	}
}
