package config

import (
	"github.com/vietddude/arbstats/internal/infra/storage/postgres"
	"github.com/vietddude/arbstats/internal/infra/storage/redisstore"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server  ServerConfig  `yaml:"server"`
	Auth    AuthConfig    `yaml:"auth"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// AuthConfig guards the ingestion endpoints.
type AuthConfig struct {
	Token string `yaml:"token"`
}

// StorageConfig selects the blob backend and the partition layout.
type StorageConfig struct {
	Backend  string            `yaml:"backend"`   // memory, redis, postgres
	Variant  string            `yaml:"variant"`   // paged, partitioned
	PageSize int               `yaml:"page_size"` // paged variant only
	Redis    redisstore.Config `yaml:"redis"`
	Database postgres.Config   `yaml:"database"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}
