package config

import (
	"fmt"
	"os"

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
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "memory"
	}
	if cfg.Storage.Variant == "" {
		cfg.Storage.Variant = "partitioned"
	}
	if cfg.Auth.Token == "" {
		cfg.Auth.Token = os.Getenv("INDEXER_SECRET")
	}

	switch cfg.Storage.Backend {
	case "memory", "redis", "postgres":
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	switch cfg.Storage.Variant {
	case "paged", "partitioned":
	default:
		return nil, fmt.Errorf("unknown storage variant %q", cfg.Storage.Variant)
	}

	return &cfg, nil
}
