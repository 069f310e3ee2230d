package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// config holds the defaults loomctl reads from an optional YAML config
// file (--config), overridable by the usual per-command flags. Only
// log_level and log_format are applied; table_size is parsed but no
// subcommand reads it.
type config struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	TableSize uint32 `yaml:"table_size"`
}

func loadConfig(path string) (*config, error) {
	if path == "" {
		return &config{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
