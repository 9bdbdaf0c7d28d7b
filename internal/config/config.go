// Package config holds server configuration, loaded from an optional TOML
// file with flag overrides applied by the caller.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config holds all server options.
type Config struct {
	// Address the HTTP/WebSocket listener binds to
	Addr string `toml:"addr"`
	// Path of the SQLite database file; ":memory:" for an ephemeral store
	DatabasePath string `toml:"database_path"`
	// Minimum log level (zerolog level names)
	LogLevel string `toml:"log_level"`
	// Optional log file; stderr when empty
	LogPath string `toml:"log_path"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Addr:         ":5000",
		DatabasePath: "casewire.db",
		LogLevel:     "info",
	}
}

// Load returns the defaults overlaid with the TOML file at path, if given.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	if _, err := toml.DecodeFile(path, c); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return c, nil
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("listen address is required")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database path is required")
	}
	return nil
}
