// Copyright SolrCell Go Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/leseb/solrcell/pkg/command"
	"github.com/leseb/solrcell/pkg/schema/locator"
)

// Config represents the main configuration
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Server   ServerConfig   `yaml:"server"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Solr     locator.Config `yaml:"solr"`
	Source   BackendConfig  `yaml:"source"`
	Sink     BackendConfig  `yaml:"sink"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Pipeline []command.Spec `yaml:"pipeline"`
}

// LogConfig contains logging configuration
type LogConfig struct {
	Level  string `yaml:"level"`  // "trace", "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "text" (default) or "json"
}

// ServerConfig contains HTTP extraction server configuration
type ServerConfig struct {
	Address string        `yaml:"address"` // e.g. ":8080"; empty runs a batch ingest instead
	Timeout time.Duration `yaml:"timeout"`
}

// MetricsConfig contains the Prometheus endpoint configuration
type MetricsConfig struct {
	Address string `yaml:"address"` // e.g. ":9090"; empty disables the endpoint
}

// BackendConfig selects a registered source or sink implementation
type BackendConfig struct {
	Type   string            `yaml:"type"`
	Params map[string]string `yaml:"params"`
}

// IngestConfig contains ingest runner configuration
type IngestConfig struct {
	Concurrency int  `yaml:"concurrency"`
	FailFast    bool `yaml:"fail_fast"`
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	return &cfg, nil
}

// Default returns default configuration
func Default() *Config {
	cfg := &Config{}
	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg
}

// applyEnv overrides file settings with environment variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}

	// Solr env overrides
	if v := os.Getenv("SOLR_URL"); v != "" {
		cfg.Solr.SolrURL = v
	}
	if v := os.Getenv("SOLR_ZK_HOST"); v != "" {
		cfg.Solr.ZkHost = v
	}
	if v := os.Getenv("SOLR_COLLECTION"); v != "" {
		cfg.Solr.Collection = v
	}

	// Sink env overrides
	if v := os.Getenv("DATABASE_URL"); v != "" {
		if cfg.Sink.Params == nil {
			cfg.Sink.Params = map[string]string{}
		}
		cfg.Sink.Params["dsn"] = v
		cfg.Sink.Type = "postgres"
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	applySourceDefaults(&cfg.Source)
	applySinkDefaults(&cfg.Sink)
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 60 * time.Second
	}
	if cfg.Ingest.Concurrency <= 0 {
		cfg.Ingest.Concurrency = 4
	}
}

func applySourceDefaults(cfg *BackendConfig) {
	if cfg.Type == "" {
		cfg.Type = "filesystem"
	}
	if cfg.Params == nil {
		cfg.Params = map[string]string{}
	}
	if cfg.Type == "filesystem" && cfg.Params["root"] == "" {
		cfg.Params["root"] = "."
	}
}

func applySinkDefaults(cfg *BackendConfig) {
	if cfg.Type == "" {
		cfg.Type = "jsonl"
	}
	if cfg.Params == nil {
		cfg.Params = map[string]string{}
	}
}

// Validate reports configuration that cannot produce a working pipeline.
func (c *Config) Validate() error {
	if len(c.Pipeline) == 0 {
		return fmt.Errorf("pipeline: at least one command is required")
	}
	for i, spec := range c.Pipeline {
		if spec.Name == "" {
			return fmt.Errorf("pipeline[%d]: name is required", i)
		}
	}
	return nil
}
