package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/okra-platform/typegen/internal/schema"
)

// FileNames are the configuration file names, in lookup order
var FileNames = []string{"typegen.json", "typegen.yaml", "typegen.yml"}

const (
	// StdoutOutput makes a target print to standard output
	StdoutOutput = "-"

	DefaultLanguage = "typescript"
	DefaultDebounce = 200 * time.Millisecond
)

var (
	// ErrNoConfig is returned when no configuration file is found
	ErrNoConfig = errors.New("no typegen configuration found")

	// ErrInvalidConfig is returned when a configuration fails validation
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Root kinds a target may select
var rootKinds = map[string]bool{"struct": true, "enum": true, "typedef": true}

// IsRootKind reports whether declarations of kind can be selected as roots
func IsRootKind(kind string) bool {
	return rootKinds[kind]
}

// Config represents the typegen.json / typegen.yaml configuration file
type Config struct {
	Name     string         `json:"name" yaml:"name"`
	Language string         `json:"language" yaml:"language"`
	Helpers  string         `json:"helpers" yaml:"helpers"`
	Targets  []TargetConfig `json:"targets" yaml:"targets"`
	Watch    WatchConfig    `json:"watch" yaml:"watch"`
}

// TargetConfig selects the roots of one crate export and where to write them
type TargetConfig struct {
	Name   string       `json:"name" yaml:"name"`
	Crate  string       `json:"crate" yaml:"crate"`
	Output string       `json:"output" yaml:"output"`
	Roots  []RootConfig `json:"roots" yaml:"roots"`
}

// RootConfig names a root declaration by its full Rust path. Crate
// overrides the origin crate taken from the first path segment.
type RootConfig struct {
	Crate string `json:"crate,omitempty" yaml:"crate,omitempty"`
	Path  string `json:"path" yaml:"path"`
	Kind  string `json:"kind" yaml:"kind"`
}

// WatchConfig contains watch mode configuration
type WatchConfig struct {
	Debounce Duration `json:"debounce" yaml:"debounce"`
}

// Root converts the configuration entry into a schema root
func (r RootConfig) Root() (schema.Root, error) {
	root, err := schema.ParseRoot(r.Path, r.Kind)
	if err != nil {
		return schema.Root{}, err
	}
	if r.Crate != "" {
		root.Crate = r.Crate
	}
	return root, nil
}

// SchemaRoots converts all roots of the target
func (t TargetConfig) SchemaRoots() ([]schema.Root, error) {
	roots := make([]schema.Root, 0, len(t.Roots))
	for _, r := range t.Roots {
		root, err := r.Root()
		if err != nil {
			return nil, fmt.Errorf("target %s: %w", t.Name, err)
		}
		roots = append(roots, root)
	}
	return roots, nil
}

// LoadConfig loads the configuration from the current directory or a parent directory
func LoadConfig() (*Config, string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get current directory: %w", err)
	}

	return loadConfigFromDir(dir)
}

// LoadConfigFromPath loads a configuration file. The format follows the
// file extension: .yaml and .yml are YAML, everything else JSON.
func LoadConfigFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if isYAML(path) {
		err = yaml.Unmarshal(data, &config)
	} else {
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Language == "" {
		c.Language = DefaultLanguage
	}
	if c.Watch.Debounce <= 0 {
		c.Watch.Debounce = Duration(DefaultDebounce)
	}
	for i := range c.Targets {
		t := &c.Targets[i]
		if t.Output == "" {
			t.Output = StdoutOutput
		}
		if t.Name == "" {
			t.Name = strings.TrimSuffix(filepath.Base(t.Crate), filepath.Ext(t.Crate))
		}
	}
}

// Validate reports every problem of the configuration at once
func (c *Config) Validate() error {
	var errs []error
	if len(c.Targets) == 0 {
		errs = append(errs, errors.New("at least one target is required"))
	}

	for i, t := range c.Targets {
		label := fmt.Sprintf("target %d", i)
		if t.Name != "" {
			label = "target " + t.Name
		}
		if t.Crate == "" {
			errs = append(errs, fmt.Errorf("%s: crate is required", label))
		}
		if len(t.Roots) == 0 {
			errs = append(errs, fmt.Errorf("%s: at least one root is required", label))
		}
		for _, r := range t.Roots {
			if !rootKinds[r.Kind] {
				errs = append(errs, fmt.Errorf("%s: root %s has unsupported kind %q", label, r.Path, r.Kind))
			}
			if _, err := r.Root(); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", label, err))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Encode renders the configuration as YAML or JSON, chosen by the extension of path
func (c *Config) Encode(path string) ([]byte, error) {
	if isYAML(path) {
		data, err := yaml.Marshal(c)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal config: %w", err)
		}
		return data, nil
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return append(data, '\n'), nil
}

// Save writes the configuration to path
func (c *Config) Save(path string) error {
	data, err := c.Encode(path)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// FindConfigFile returns the configuration file in dir, if any
func FindConfigFile(dir string) (string, bool) {
	for _, name := range FileNames {
		configPath := filepath.Join(dir, name)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, true
		}
	}
	return "", false
}

// loadConfigFromDir searches for a configuration file in the given directory and its parents
func loadConfigFromDir(startDir string) (*Config, string, error) {
	dir := startDir
	for {
		if configPath, ok := FindConfigFile(dir); ok {
			config, err := LoadConfigFromPath(configPath)
			if err != nil {
				return nil, "", err
			}
			return config, dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}

	return nil, "", fmt.Errorf("%w in %s or any parent directory", ErrNoConfig, startDir)
}
