package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: "1",
		Database: DatabaseConfig{
			Path: defaultDatabasePath(),
		},
		Seed: SeedConfig{
			Enabled: true,
			URL:     "https://dummyjson.com/todos",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// WriteDefault writes the default configuration as YAML to the given path,
// creating parent directories as needed. Existing files are not touched.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s: %w", path, os.ErrExist)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func defaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tasks/tasks.db"
	}
	return filepath.Join(home, ".tasks", "tasks.db")
}
