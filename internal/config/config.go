// ABOUTME: Centralized configuration for the message vault
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/adrg/xdg"
)

// Config holds all configuration for the message vault
type Config struct {
	// Storage settings
	DataDir string
	DBName  string

	// Search settings
	SearchLimit int

	// Cleanup settings
	DefaultRetentionDays int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		DataDir:              getEnv("MSGVAULT_DATA_DIR", filepath.Join(xdg.DataHome, "msgvault")),
		DBName:               getEnv("MSGVAULT_DB_NAME", "msgvault.db"),
		SearchLimit:          getEnvInt("MSGVAULT_SEARCH_LIMIT", 50),
		DefaultRetentionDays: getEnvInt("MSGVAULT_RETENTION_DAYS", 0),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("MSGVAULT_DATA_DIR must not be empty")
	}
	if c.SearchLimit < 1 || c.SearchLimit > 1000 {
		return fmt.Errorf("MSGVAULT_SEARCH_LIMIT must be 1-1000, got %d", c.SearchLimit)
	}
	if c.DefaultRetentionDays < 0 {
		return fmt.Errorf("MSGVAULT_RETENTION_DAYS must not be negative, got %d", c.DefaultRetentionDays)
	}
	return nil
}

// DBPath returns the full path to the database file
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, c.DBName)
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}
