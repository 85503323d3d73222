package commands

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/okra-platform/typegen/internal/config"
	"github.com/okra-platform/typegen/internal/generate"
)

// Dependencies of the generate, watch and paths commands
type Dependencies struct {
	ConfigLoader   ConfigLoader
	SignalNotifier SignalNotifier
	Output         Output
	FileSystem     generate.FileSystem
	Stdout         io.Writer
	Logger         zerolog.Logger
}

// Interfaces for dependency injection
type ConfigLoader interface {
	// Load reads the configuration at path, or searches the working
	// directory and its parents when path is empty. It also returns the
	// absolute path of the configuration file.
	Load(path string) (*config.Config, string, error)
}

type SignalNotifier interface {
	Notify(c chan<- os.Signal, sig ...os.Signal)
	Stop(c chan<- os.Signal)
}

// Output receives progress messages. Generated code never goes through it.
type Output interface {
	Printf(format string, args ...interface{})
	Println(args ...interface{})
}

// Default implementations
type defaultConfigLoader struct{}

func (l *defaultConfigLoader) Load(path string) (*config.Config, string, error) {
	if path != "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, "", fmt.Errorf("failed to resolve %s: %w", path, err)
		}
		cfg, err := config.LoadConfigFromPath(abs)
		if err != nil {
			return nil, "", err
		}
		return cfg, abs, nil
	}

	cfg, dir, err := config.LoadConfig()
	if err != nil {
		return nil, "", err
	}
	file, _ := config.FindConfigFile(dir)
	return cfg, file, nil
}

type defaultSignalNotifier struct{}

func (n *defaultSignalNotifier) Notify(c chan<- os.Signal, sig ...os.Signal) {
	signal.Notify(c, sig...)
}

func (n *defaultSignalNotifier) Stop(c chan<- os.Signal) {
	signal.Stop(c)
}

// defaultOutput prints to stderr so that stdout stays reserved for generated code
type defaultOutput struct{}

func (o *defaultOutput) Printf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
}

func (o *defaultOutput) Println(args ...interface{}) {
	fmt.Fprintln(os.Stderr, args...)
}

func defaultDependencies(logger zerolog.Logger) Dependencies {
	return Dependencies{
		ConfigLoader:   &defaultConfigLoader{},
		SignalNotifier: &defaultSignalNotifier{},
		Output:         &defaultOutput{},
		FileSystem:     generate.OSFileSystem{},
		Stdout:         os.Stdout,
		Logger:         logger,
	}
}

// newRunner creates a runner whose relative paths resolve next to the configuration file
func newRunner(deps Dependencies, cfg *config.Config, configFile string, targets []string) *generate.Runner {
	return generate.NewRunner(cfg, filepath.Dir(configFile), deps.Logger).
		WithFileSystem(deps.FileSystem).
		WithStdout(deps.Stdout).
		WithTargets(targets...)
}

// report prints one line per generated target
func report(out Output, results []generate.Result) {
	for _, r := range results {
		warnings := ""
		if n := len(r.Diagnostics.Warnings); n > 0 {
			warnings = fmt.Sprintf(" (%d warnings)", n)
		}
		out.Printf("✅ %s: %d declarations -> %s%s\n", r.Target, r.Declarations, r.Output, warnings)
	}
}
