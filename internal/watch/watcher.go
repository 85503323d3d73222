// Package watch re-runs generation when crate exports or the configuration change.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// FileWatcher watches a fixed set of files and reports changes in batches.
// Parent directories are watched rather than the files themselves, so a
// file replaced by rename (as rustdoc and most editors do) keeps being seen.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]bool
	debounce time.Duration
	onChange func(paths []string)
	logger   zerolog.Logger
}

// NewFileWatcher creates a watcher for files. onChange receives the sorted
// set of changed files once no further event arrived for debounce.
func NewFileWatcher(files []string, debounce time.Duration, onChange func(paths []string), logger zerolog.Logger) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	fw := &FileWatcher{
		watcher:  watcher,
		files:    make(map[string]bool, len(files)),
		debounce: debounce,
		onChange: onChange,
		logger:   logger.With().Str("component", "watch").Logger(),
	}

	dirs := make(map[string]bool)
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", file, err)
		}
		fw.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}

	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
		fw.logger.Debug().Str("dir", dir).Msg("watching directory")
	}

	return fw, nil
}

// Start blocks, delivering change batches until ctx is done
func (fw *FileWatcher) Start(ctx context.Context) error {
	return fw.run(ctx, fw.watcher.Events, fw.watcher.Errors)
}

func (fw *FileWatcher) run(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) error {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	pending := make(map[string]bool)

	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-events:
			if !ok {
				return fmt.Errorf("watcher channel closed")
			}
			path, ok := fw.match(event)
			if !ok {
				continue
			}

			fw.logger.Debug().Str("path", path).Str("op", event.Op.String()).Msg("file changed")
			pending[path] = true
			if timer == nil {
				timer = time.NewTimer(fw.debounce)
			} else {
				timer.Reset(fw.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			paths := make([]string, 0, len(pending))
			for path := range pending {
				paths = append(paths, path)
			}
			sort.Strings(paths)
			clear(pending)
			fw.onChange(paths)

		case err, ok := <-errs:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			if err != nil {
				// Log error but continue watching
				fw.logger.Warn().Err(err).Msg("watcher error")
			}
		}
	}
}

// match returns the absolute path of the watched file event concerns
func (fw *FileWatcher) match(event fsnotify.Event) (string, bool) {
	if event.Op == fsnotify.Chmod {
		return "", false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return "", false
	}
	return abs, fw.files[abs]
}

// Close stops the watcher
func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}
