// Command generate writes the JSON schema for the engine config and a sample
// config next to it, so editors with yaml-language-server get completion and
// validation.
package main

import (
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/rxtech-lab/argo-signal/internal/config"
	"github.com/rxtech-lab/argo-signal/internal/version"
)

// sampleParams mirrors strategy.Params with interval and budget as strings,
// which is how the config file spells them.
type sampleParams struct {
	Period         int     `yaml:"period,omitempty"`
	FastPeriod     int     `yaml:"fast_period,omitempty"`
	SlowPeriod     int     `yaml:"slow_period,omitempty"`
	Threshold      float64 `yaml:"threshold,omitempty"`
	Interval       string  `yaml:"interval,omitempty"`
	TargetPosition int     `yaml:"target_position,omitempty"`
	Budget         string  `yaml:"budget,omitempty"`
}

type sampleStrategy struct {
	Name   string       `yaml:"name"`
	Params sampleParams `yaml:"params"`
}

type sampleConfig struct {
	Version    string           `yaml:"version"`
	Symbols    []string         `yaml:"symbols"`
	Strategies []sampleStrategy `yaml:"strategies"`
	Store      struct {
		Path string `yaml:"path"`
	} `yaml:"store"`
	Server struct {
		Listen string `yaml:"listen"`
	} `yaml:"server"`
}

func buildSampleConfig() sampleConfig {
	sample := sampleConfig{
		Version: version.Version,
		Symbols: []string{"AAPL", "MSFT"},
		Strategies: []sampleStrategy{
			{Name: "sma_cross", Params: sampleParams{FastPeriod: 10, SlowPeriod: 30}},
			{Name: "donchian", Params: sampleParams{Period: 20}},
			{Name: "dca", Params: sampleParams{Interval: "24h", TargetPosition: 10, Budget: "100.00"}},
		},
	}
	sample.Store.Path = "signals.duckdb"
	sample.Server.Listen = ":8080"

	return sample
}

func main() {
	schemaJSON, err := config.GenerateSchema()
	if err != nil {
		log.Fatalf("Failed to generate schema: %v", err)
	}

	schemaName := "argo-signal-config.json"
	schemaPath := filepath.Join("./config", schemaName)
	sampleConfigPath := filepath.Join("./config", "argo-signal-config.yaml")

	if err := os.MkdirAll(filepath.Dir(schemaPath), 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	if err := os.WriteFile(schemaPath, []byte(schemaJSON), 0644); err != nil {
		log.Fatalf("Failed to write schema to file: %v", err)
	}

	// Write a sample config only when none exists, so a hand-edited one is
	// never clobbered.
	if _, err := os.Stat(sampleConfigPath); os.IsNotExist(err) {
		yamlBytes, err := yaml.Marshal(buildSampleConfig())
		if err != nil {
			log.Fatalf("Failed to marshal sample config to yaml: %v", err)
		}

		yamlBytes = append([]byte("# yaml-language-server: $schema="+schemaName+"\n"), yamlBytes...)

		if err := os.WriteFile(sampleConfigPath, yamlBytes, 0644); err != nil {
			log.Fatalf("Failed to write sample config to file: %v", err)
		}

		log.Printf("Sample config successfully generated at %s", sampleConfigPath)
	}

	log.Printf("Schema successfully generated at %s", schemaPath)
}
