package config

// Config represents the full application configuration
type Config struct {
	Version string `yaml:"version" mapstructure:"version"`

	// Database configuration
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`

	// Remote seed configuration
	Seed SeedConfig `yaml:"seed" mapstructure:"seed"`

	// Web API server configuration
	Server ServerConfig `yaml:"server" mapstructure:"server"`

	// Logging configuration
	Log LogConfig `yaml:"log" mapstructure:"log"`
}

// DatabaseConfig configures the local task store
type DatabaseConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// SeedConfig configures the first-run remote seed
type SeedConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	URL     string `yaml:"url" mapstructure:"url"`
}

// ServerConfig configures the JSON API server
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// LogConfig configures structured logging
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}
