// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/bethropolis/treesync/internal/logger"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger LoggerConfig `toml:"logger"` // [logger] table
	Sync   SyncConfig   `toml:"sync"`   // [sync] table
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	LogLevel    string `toml:"log_level"`
	LogFilePath string `toml:"log_file"`
}

// SyncConfig holds tracking settings.
type SyncConfig struct {
	// Languages restricts which registered grammars may be enabled.
	// Empty means all registered grammars are eligible.
	Languages []string `toml:"languages"`
}

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: LoggerConfig{
			LogLevel:    "info",
			LogFilePath: "",
		},
		Sync: SyncConfig{},
	}
}

// Load returns the defaults merged with the TOML file at filePath, if any.
// A missing file is not an error.
func Load(filePath string) (*Config, error) {
	cfg := NewDefaultConfig()
	if filePath == "" {
		return cfg, nil
	}

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		logger.Debugf("Config file not found: %s", filePath)
		return cfg, nil
	} else if err != nil {
		return cfg, fmt.Errorf("error checking config file '%s': %w", filePath, err)
	}

	metadata, err := toml.DecodeFile(filePath, cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	if len(metadata.Undecoded()) > 0 {
		logger.Warnf("Config file '%s': Unrecognized keys: %v", filePath, metadata.Undecoded())
	}
	return cfg, nil
}

// AllowsLanguage reports whether the config permits enabling the named grammar.
func (c *Config) AllowsLanguage(name string) bool {
	if len(c.Sync.Languages) == 0 {
		return true
	}
	for _, n := range c.Sync.Languages {
		if n == name {
			return true
		}
	}
	return false
}
