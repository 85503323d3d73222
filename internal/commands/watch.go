package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/okra-platform/typegen/internal/config"
	"github.com/okra-platform/typegen/internal/watch"
)

// Watcher delivers batches of changed files until Start's context is done
type Watcher interface {
	Start(ctx context.Context) error
	Close() error
}

// WatcherFactory creates a watcher for files
type WatcherFactory func(files []string, debounce time.Duration, onChange func(paths []string), logger zerolog.Logger) (Watcher, error)

func defaultWatcherFactory(files []string, debounce time.Duration, onChange func(paths []string), logger zerolog.Logger) (Watcher, error) {
	return watch.NewFileWatcher(files, debounce, onChange, logger)
}

// WatchCommand regenerates whenever a crate export or the configuration changes
type WatchCommand struct {
	deps       Dependencies
	newWatcher WatcherFactory
	configPath string
	targets    []string
}

// NewWatchCommand creates a watch command with default dependencies
func NewWatchCommand(configPath string, targets []string, logger zerolog.Logger) *WatchCommand {
	return &WatchCommand{
		deps:       defaultDependencies(logger),
		newWatcher: defaultWatcherFactory,
		configPath: configPath,
		targets:    targets,
	}
}

// WithDependencies allows injecting custom dependencies for testing
func (wc *WatchCommand) WithDependencies(deps Dependencies, factory WatcherFactory) *WatchCommand {
	wc.deps = deps
	wc.newWatcher = factory
	return wc
}

// Execute runs the watch command until interrupted
func (wc *WatchCommand) Execute(ctx context.Context) error {
	cfg, configFile, err := wc.deps.ConfigLoader.Load(wc.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w\n\nRun 'typegen init' to create one", err)
	}

	wc.deps.Output.Printf("👀 Watching %d target(s) of %s\n", len(cfg.Targets), configFile)

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	wc.deps.SignalNotifier.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer wc.deps.SignalNotifier.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			wc.deps.Output.Println("\n👋 Stopping watch mode...")
			cancel()
		case <-ctx.Done():
		}
	}()

	wc.regenerate(ctx, cfg, configFile)

	for {
		next, err := wc.watchUntilReload(ctx, cfg, configFile)
		if err != nil {
			return err
		}
		if next == nil {
			return nil
		}
		cfg = next
	}
}

// watchUntilReload watches the crate exports and the configuration file. It
// returns the new configuration when the file changed, or nil once ctx is done.
func (wc *WatchCommand) watchUntilReload(ctx context.Context, cfg *config.Config, configFile string) (*config.Config, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	changes := make(chan []string, 1)
	files := append(newRunner(wc.deps, cfg, configFile, nil).CratePaths(), configFile)

	w, err := wc.newWatcher(files, cfg.Watch.Debounce.Std(), func(paths []string) {
		select {
		case changes <- paths:
		case <-ctx.Done():
		}
	}, wc.deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to start watcher: %w", err)
	}
	defer w.Close()

	errc := make(chan error, 1)
	go func() { errc <- w.Start(ctx) }()

	for {
		select {
		case <-ctx.Done():
			return nil, nil

		case err := <-errc:
			if err == nil || errors.Is(err, context.Canceled) {
				return nil, nil
			}
			return nil, fmt.Errorf("watcher error: %w", err)

		case paths := <-changes:
			wc.deps.Logger.Debug().Strs("paths", paths).Msg("change detected")

			if !slices.Contains(paths, configFile) {
				wc.regenerate(ctx, cfg, configFile)
				continue
			}

			next, _, err := wc.deps.ConfigLoader.Load(configFile)
			if err != nil {
				// keep watching with the previous configuration
				wc.deps.Output.Printf("❌ %v\n", err)
				continue
			}
			wc.deps.Output.Println("🔄 Configuration changed, reloading")
			wc.regenerate(ctx, next, configFile)
			return next, nil
		}
	}
}

// regenerate runs all targets, reporting failures instead of returning them
func (wc *WatchCommand) regenerate(ctx context.Context, cfg *config.Config, configFile string) {
	results, err := newRunner(wc.deps, cfg, configFile, wc.targets).Run(ctx)
	if err != nil {
		wc.deps.Output.Printf("❌ %v\n", err)
		return
	}
	report(wc.deps.Output, results)
}
