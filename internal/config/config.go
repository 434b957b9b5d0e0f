package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"qtermsim/state"
)

// DefaultDir is where the CLI looks for its config file when none is given.
var DefaultDir = filepath.Join(os.Getenv("HOME"), ".qsim")

// DefaultPath is the config file used when --config is not set.
var DefaultPath = filepath.Join(DefaultDir, "config.yaml")

var ErrInvalidConfig = errors.New("invalid config")

// Output formats for CLI results.
const (
	OutputTable = "table"
	OutputYAML  = "yaml"
)

type Logging struct {
	Debug bool `yaml:"debug"`
	// Dir enables the rotating file logger when set.
	Dir  string `yaml:"dir,omitempty"`
	File string `yaml:"file,omitempty"`
}

type Config struct {
	Shots int `yaml:"shots"`
	// Seed fixes the sampler when non-zero.
	Seed      uint64  `yaml:"seed,omitempty"`
	MaxQubits int     `yaml:"maxQubits"`
	Output    string  `yaml:"output"`
	Logging   Logging `yaml:"logging"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Shots:     1024,
		MaxQubits: 24,
		Output:    OutputTable,
	}
}

// Load reads the YAML file at path over the defaults. A missing file yields
// the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Save writes the config to path, creating the directory if needed.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create config directory")
	}
	return errors.Wrap(os.WriteFile(path, data, 0o644), "write config")
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Shots <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "shots must be positive, got %d", c.Shots)
	}
	if c.MaxQubits < 1 || c.MaxQubits > state.MaxQubits {
		return errors.Wrapf(ErrInvalidConfig, "maxQubits must be in 1..%d, got %d", state.MaxQubits, c.MaxQubits)
	}
	switch c.Output {
	case OutputTable, OutputYAML:
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown output format %q", c.Output)
	}
	return nil
}
