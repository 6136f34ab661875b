package preview

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/kirlent/internal/foundation/errors"
	"git.home.luguber.info/inful/kirlent/internal/logfields"
)

// watchDirs watches dirs (non-recursively) and calls trigger for every
// relevant change until ctx is done.
func watchDirs(ctx context.Context, dirs []string, trigger func(), log *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "fsnotify").Build()
	}
	defer func() { _ = w.Close() }()

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "cannot watch "+dir).
				WithContext("path", dir).
				Build()
		}
		log.Debug("Watching directory", logfields.Path(dir))
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			log.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
			trigger()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod || shouldIgnore(ev.Name) {
		return false
	}
	if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
		return false
	}
	return true
}

// shouldIgnore reports hidden, editor swap and lock files.
func shouldIgnore(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".swx"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db":
		return true
	}
	return false
}
