package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the file-based server configuration. Command line flags
// override anything set here.
type Config struct {
	Addr        string `yaml:"addr"`
	DataDir     string `yaml:"data_dir"`
	EventBuffer int    `yaml:"event_buffer"`
}

// defaultConfig returns the built-in defaults.
func defaultConfig() Config {
	return Config{
		Addr: "localhost:6060",
	}
}

// loadConfig reads a YAML config file on top of the defaults. An empty
// path returns the defaults untouched.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
