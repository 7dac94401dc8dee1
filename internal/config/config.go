// Package config loads the YAML analysis configuration.
package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/mouse-blink/suspect/internal/controller"
	"github.com/mouse-blink/suspect/internal/domain"
	m "github.com/mouse-blink/suspect/internal/model"
)

// DefaultFile is the configuration read from the working directory when
// no file is named explicitly.
const DefaultFile = "suspect.yaml"

//go:embed schema.json
var schemaJSON string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// Config is the analysis configuration document.
type Config struct {
	Target   Target   `yaml:"target"`
	Analysis Analysis `yaml:"analysis"`
	Runs     Runs     `yaml:"runs"`
	Output   Output   `yaml:"output"`
	Parallel int      `yaml:"parallel"`
}

// Target locates the analyzed sources.
type Target struct {
	// Path is the base directory used to expand functions, loops and
	// branches into source lines.
	Path string `yaml:"path"`
}

// Analysis selects what is analyzed and how it is ranked.
type Analysis struct {
	Kinds   []string `yaml:"kinds"`
	Metrics []string `yaml:"metrics"`
}

// Runs lists event-log files or directories. A trailing "/..." walks a
// directory recursively.
type Runs struct {
	Passing []string `yaml:"passing"`
	Failing []string `yaml:"failing"`
}

// Output configures report persistence and rendering.
type Output struct {
	Reports string `yaml:"reports"`
	Format  string `yaml:"format"`
}

// Load reads, validates and parses the file at path. Relative paths in the
// file are resolved against the file's directory.
func Load(path m.Path) (Config, error) {
	// #nosec G304 - the configuration path is chosen by the user
	data, err := os.ReadFile(string(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	cfg.resolve(filepath.Dir(string(path)))

	return cfg, nil
}

// Parse validates data against the configuration schema and decodes it.
func Parse(data []byte) (Config, error) {
	if err := validate(data); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, &domain.ConfigError{Field: "config", Reason: err.Error()}
	}

	return cfg, nil
}

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("suspect.schema.json", schemaJSON)
	})

	return schema, schemaErr
}

// validate checks the YAML document against the embedded JSON schema. The
// document is round-tripped through JSON so the validator sees JSON types.
func validate(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return &domain.ConfigError{Field: "config", Reason: err.Error()}
	}

	if doc == nil {
		return nil
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return &domain.ConfigError{Field: "config", Reason: err.Error()}
	}

	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return &domain.ConfigError{Field: "config", Reason: err.Error()}
	}

	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	if err := s.Validate(payload); err != nil {
		return &domain.ConfigError{Field: "config", Reason: err.Error()}
	}

	return nil
}

func (c *Config) resolve(dir string) {
	c.Target.Path = resolvePath(dir, c.Target.Path)
	c.Output.Reports = resolvePath(dir, c.Output.Reports)

	for i, p := range c.Runs.Passing {
		c.Runs.Passing[i] = resolvePath(dir, p)
	}

	for i, p := range c.Runs.Failing {
		c.Runs.Failing[i] = resolvePath(dir, p)
	}
}

func resolvePath(dir, path string) string {
	if path == "" || filepath.IsAbs(path) || path[0] == '~' {
		return path
	}

	return filepath.Join(dir, path)
}

// AnalyzeArgs converts the configuration into workflow arguments, parsing
// kinds, metrics and the output format.
func (c Config) AnalyzeArgs() (domain.AnalyzeArgs, error) {
	kinds, err := domain.ParseKinds(c.Analysis.Kinds)
	if err != nil {
		return domain.AnalyzeArgs{}, err
	}

	metrics, err := domain.ParseMetrics(c.Analysis.Metrics)
	if err != nil {
		return domain.AnalyzeArgs{}, err
	}

	format := controller.FormatTable
	if c.Output.Format != "" {
		var ok bool
		if format, ok = controller.ParseFormat(c.Output.Format); !ok {
			return domain.AnalyzeArgs{}, &domain.ConfigError{Field: "output.format", Reason: "unknown format " + c.Output.Format}
		}
	}

	return domain.AnalyzeArgs{
		Failing:  toPaths(c.Runs.Failing),
		Passing:  toPaths(c.Runs.Passing),
		Kinds:    kinds,
		Metrics:  metrics,
		BaseDir:  m.Path(c.Target.Path),
		Parallel: c.Parallel,
		Reports:  m.Path(c.Output.Reports),
		Format:   format,
	}, nil
}

func toPaths(values []string) []m.Path {
	if len(values) == 0 {
		return nil
	}

	paths := make([]m.Path, len(values))
	for i, v := range values {
		paths[i] = m.Path(v)
	}

	return paths
}
