package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set defaults if necessary
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Presence.FetchTimeout == 0 {
		cfg.Presence.FetchTimeout = 10 * time.Second
	}
	if cfg.Presence.SteadyInterval == 0 {
		cfg.Presence.SteadyInterval = 120 * time.Second
	}
	if cfg.Presence.MaxRetries == 0 {
		cfg.Presence.MaxRetries = 10
	}
	if cfg.Redis.SnapshotKey == "" {
		cfg.Redis.SnapshotKey = "presence:latest"
	}
	if cfg.Redis.SnapshotTTL == 0 {
		cfg.Redis.SnapshotTTL = 10 * time.Minute
	}

	return &cfg, nil
}
