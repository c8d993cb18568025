package engine

import (
	"os"
	"runtime"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/wildfunctions/formula/pkg/compiler"
	"github.com/wildfunctions/formula/pkg/expr"
)

// Config holds the parameters shared by batch, sweep, and fuzz runs.
type Config struct {
	Backend   string                 `yaml:"backend" json:"backend"`
	Workers   int                    `yaml:"workers" json:"workers"`
	Format    string                 `yaml:"format" json:"format"` // "text" or "json"
	Pool      string                 `yaml:"pool" json:"pool"`
	Trees     int                    `yaml:"trees" json:"trees"`
	Mutations int                    `yaml:"mutations" json:"mutations"`
	MaxDepth  int                    `yaml:"max_depth" json:"max_depth"`
	Seed      int64                  `yaml:"seed" json:"seed"`
	Vars      map[string]interface{} `yaml:"vars,omitempty" json:"vars,omitempty"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Backend:   compiler.DefaultBackend,
		Workers:   runtime.NumCPU(),
		Format:    "text",
		Pool:      "arith",
		Trees:     1000,
		Mutations: 2,
		MaxDepth:  5,
		Seed:      0, // 0 = random
	}
}

// LoadConfig reads a YAML config file over DefaultConfig. Keys absent from
// the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "reading config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config %s", path)
	}
	return cfg, cfg.Validate()
}

// Validate checks the fields that have a fixed set of legal values.
func (c Config) Validate() error {
	if _, err := compiler.Get(c.Backend); err != nil {
		return err
	}
	switch c.Format {
	case "text", "json":
	default:
		return errors.Errorf("unknown format %q (want text or json)", c.Format)
	}
	if c.Mutations < 0 {
		return errors.Errorf("mutations must not be negative, got %d", c.Mutations)
	}
	if c.MaxDepth < 1 {
		return errors.Errorf("max depth must be at least 1, got %d", c.MaxDepth)
	}
	return nil
}

// Binding converts the configured base variables to a Binding.
func (c Config) Binding() (expr.Binding, error) {
	return ParseBinding(c.Vars)
}
