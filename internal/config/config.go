// Package config loads and validates the YAML engine configuration.
package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/rxtech-lab/argo-signal/internal/strategy"
	"github.com/rxtech-lab/argo-signal/internal/version"
	"github.com/rxtech-lab/argo-signal/pkg/errors"
)

// StrategyConfig selects one strategy variant from the registry with its
// construction parameters.
type StrategyConfig struct {
	Name   string          `yaml:"name" json:"name" jsonschema:"title=Strategy Name,description=Registry name of the strategy variant,required" validate:"required"`
	Params strategy.Params `yaml:"params" json:"params,omitempty" jsonschema:"title=Parameters,description=Construction parameters; omitted fields use the variant defaults"`
}

// StoreConfig configures the DuckDB signal store. An empty path disables
// persistence.
type StoreConfig struct {
	Path string `yaml:"path" json:"path,omitempty" jsonschema:"title=Store Path,description=DuckDB database file; empty disables persistence"`
}

// ServerConfig configures the HTTP/WebSocket signal server.
type ServerConfig struct {
	Listen string `yaml:"listen" json:"listen,omitempty" jsonschema:"title=Listen Address,description=host:port for the signal server; empty disables it"`
}

// Config is the top-level engine configuration.
type Config struct {
	Version    string           `yaml:"version" json:"version" jsonschema:"title=Config Version,description=Version of the engine this config was written for,required" validate:"required"`
	Symbols    []string         `yaml:"symbols" json:"symbols,omitempty" jsonschema:"title=Symbols,description=Symbols to subscribe or replay"`
	Strategies []StrategyConfig `yaml:"strategies" json:"strategies" jsonschema:"title=Strategies,description=Strategy variants to evaluate,required" validate:"required,min=1,dive"`
	Store      StoreConfig      `yaml:"store" json:"store,omitempty"`
	Server     ServerConfig     `yaml:"server" json:"server,omitempty"`
}

// Parse decodes, validates, and version-checks a raw YAML config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	if err := version.CheckVersionCompatibility(version.Version, cfg.Version); err != nil {
		return nil, errors.Wrap(errors.ErrCodeVersionMismatch, "config version incompatible with engine", err)
	}

	return &cfg, nil
}

// Load reads and parses the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config %s", path)
	}

	return Parse(data)
}

// BuildStrategies constructs the configured strategy set from the registry.
// Constructed names must be unique; the engine rejects duplicates anyway,
// but failing here attributes the problem to the config.
func (c *Config) BuildStrategies() ([]strategy.Strategy, error) {
	strategies := make([]strategy.Strategy, 0, len(c.Strategies))
	seen := make(map[string]bool, len(c.Strategies))

	for _, sc := range c.Strategies {
		s, err := strategy.New(sc.Name, sc.Params)
		if err != nil {
			return nil, err
		}

		if seen[s.Name()] {
			return nil, errors.Newf(errors.ErrCodeDuplicateStrategy, "duplicate strategy %q", s.Name())
		}

		seen[s.Name()] = true
		strategies = append(strategies, s)
	}

	return strategies, nil
}
