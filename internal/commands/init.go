package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/okra-platform/typegen/internal/config"
)

type InitOptions struct {
	Name    string
	Crate   string
	Roots   string
	Helpers string
	Output  string
	Format  string
}

type FileSystem interface {
	Stat(name string) (os.FileInfo, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
}

type osFileSystem struct{}

func (fs *osFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (fs *osFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

type InitCommand struct {
	filesystem FileSystem
	output     Output
	workDir    string
	// For testing: if set, skip prompting
	testOptions *InitOptions
}

func NewInitCommand() *InitCommand {
	return &InitCommand{
		filesystem: &osFileSystem{},
		output:     &defaultOutput{},
		workDir:    ".",
	}
}

func (ic *InitCommand) Run(ctx context.Context) error {
	return ic.RunWithOptions(ctx)
}

func (ic *InitCommand) RunWithOptions(ctx context.Context, opts ...tea.ProgramOption) error {
	for _, name := range config.FileNames {
		existing := filepath.Join(ic.workDir, name)
		if _, err := ic.filesystem.Stat(existing); err == nil {
			return fmt.Errorf("%s already exists", existing)
		}
	}

	var options *InitOptions
	var err error

	// For testing: use provided options instead of prompting
	if ic.testOptions != nil {
		options = ic.testOptions
	} else {
		options, err = ic.promptInitOptions(opts...)
		if err != nil {
			return fmt.Errorf("failed to get init options: %w", err)
		}
	}

	cfg, err := buildConfig(options)
	if err != nil {
		return err
	}

	path := filepath.Join(ic.workDir, "typegen."+options.Format)
	data, err := cfg.Encode(path)
	if err != nil {
		return err
	}
	if err := ic.filesystem.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	ic.output.Printf("✅ Created %s with %d root(s). Run 'typegen generate' to emit declarations.\n", path, len(cfg.Targets[0].Roots))
	return nil
}

// buildConfig turns the answers into a validated single-target configuration
func buildConfig(options *InitOptions) (*config.Config, error) {
	roots, err := parseRoots(options.Roots)
	if err != nil {
		return nil, err
	}

	output := strings.TrimSpace(options.Output)
	if output == "" {
		output = config.StdoutOutput
	}

	cfg := &config.Config{
		Name:     options.Name,
		Language: config.DefaultLanguage,
		Helpers:  strings.TrimSpace(options.Helpers),
		Targets: []config.TargetConfig{
			{
				Name:   options.Name,
				Crate:  strings.TrimSpace(options.Crate),
				Output: output,
				Roots:  roots,
			},
		},
		Watch: config.WatchConfig{Debounce: config.Duration(config.DefaultDebounce)},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseRoots reads one "<kind> <path>" pair per line, skipping blank lines
func parseRoots(text string) ([]config.RootConfig, error) {
	var roots []config.RootConfig
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("root %q: expected \"<kind> <path>\"", strings.TrimSpace(line))
		}
		if !config.IsRootKind(fields[0]) {
			return nil, fmt.Errorf("root %q: kind must be struct, enum or typedef", strings.TrimSpace(line))
		}
		roots = append(roots, config.RootConfig{Kind: fields[0], Path: fields[1]})
	}

	if len(roots) == 0 {
		return nil, fmt.Errorf("at least one root is required")
	}
	return roots, nil
}

func (ic *InitCommand) promptInitOptions(opts ...tea.ProgramOption) (*InitOptions, error) {
	options := &InitOptions{
		Output: config.StdoutOutput,
		Format: "json",
	}

	form := ic.createInitForm(options)

	if len(opts) > 0 {
		// For testing: run with provided options
		program := tea.NewProgram(form, opts...)
		if _, err := program.Run(); err != nil {
			return nil, err
		}
	} else {
		// Normal execution
		if err := form.Run(); err != nil {
			return nil, err
		}
	}

	return options, nil
}

func (ic *InitCommand) createInitForm(options *InitOptions) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project name").
				Description("Name of the generated declarations").
				Value(&options.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("project name cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Title("Crate export").
				Description("rustdoc JSON file, e.g. target/doc/my_crate.json").
				Value(&options.Crate).
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					if s == "" {
						return fmt.Errorf("crate export cannot be empty")
					}
					if !strings.HasSuffix(s, ".json") {
						return fmt.Errorf("crate export must be a .json file")
					}
					return nil
				}),

			huh.NewText().
				Title("Roots").
				Description("One per line: <kind> <path>, e.g. enum my_crate::Event").
				Value(&options.Roots).
				Validate(func(s string) error {
					_, err := parseRoots(s)
					return err
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Helper namespace").
				Description("Provides longnum and NotModeled; leave empty to define them in the output").
				Value(&options.Helpers),

			huh.NewInput().
				Title("Output").
				Description("File to write, or - for standard output").
				Value(&options.Output),

			huh.NewSelect[string]().
				Title("Format").
				Description("Configuration file format").
				Options(
					huh.NewOption("JSON", "json"),
					huh.NewOption("YAML", "yaml"),
				).
				Value(&options.Format),
		),
	)
}
