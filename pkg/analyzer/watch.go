package analyzer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/simonhull/firebird-suite/heron/pkg/logger"
	"github.com/simonhull/firebird-suite/heron/pkg/workspace"
)

// DefaultDebounce is how long Watch waits for a burst of edits to settle
const DefaultDebounce = 250 * time.Millisecond

// WatchOptions configures Watch
type WatchOptions struct {
	Walk     workspace.WalkOptions
	Debounce time.Duration
}

// Watch analyzes root, then re-analyzes it whenever a build or settings
// file changes, calling onResult after every pass. Every pass discovers
// and builds a fresh graph; unchanged build files are served from the
// facts cache. Watch returns nil once ctx is cancelled.
func (a *Analyzer) Watch(ctx context.Context, root string, opts WatchOptions, onResult func(*Analysis, error)) error {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolving workspace root: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watchTree(watcher, absRoot, opts.Walk); err != nil {
		return err
	}

	run := func() {
		analysis, err := a.AnalyzeDir(ctx, absRoot, opts.Walk)
		if ctx.Err() != nil {
			return
		}
		onResult(analysis, err)
	}

	run()

	timer := time.NewTimer(debounce)
	timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			relevant := IsGradleFile(event.Name) ||
				(event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)) && filepath.Ext(event.Name) == ""

			if event.Has(fsnotify.Create) {
				info, err := os.Stat(event.Name)
				if err == nil && info.IsDir() && !opts.Walk.Skips(info.Name()) {
					if err := watchTree(watcher, event.Name, opts.Walk); err != nil {
						a.logger.Warn("Failed to watch directory", logger.F("path", event.Name), logger.F("error", err))
					}
					relevant = true
				}
			}

			if !relevant {
				continue
			}

			a.logger.Debug("Workspace change", logger.F("path", event.Name), logger.F("op", event.Op.String()))
			pending = true
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("Watcher error", logger.F("error", err))

		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			run()
		}
	}
}

// IsGradleFile reports whether path names a Groovy or Kotlin build script
func IsGradleFile(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(base, ".gradle") || strings.HasSuffix(base, ".gradle.kts")
}

// watchTree adds dir and every directory below it that discovery would scan
func watchTree(watcher *fsnotify.Watcher, dir string, walk workspace.WalkOptions) error {
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	err := workspace.WalkDirs(dir, walk, func(path string) error {
		if err := watcher.Add(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
