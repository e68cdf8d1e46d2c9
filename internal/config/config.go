// Package config holds the process-wide docxir settings read from the
// environment (and an optional .env file).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/lumina-note/docxir/internal/logging"
)

// Config contains all configuration options for docxir
type Config struct {
	// LogLevel controls the verbosity of logging (debug, info, warn, error, off)
	LogLevel string `validate:"oneof=debug info warn error off"`
	// LogFormat selects the console encoder ("console") or JSON lines ("json").
	LogFormat string `validate:"oneof=console json"`
	// LogFile adds a rotated file sink when non-empty.
	LogFile string
	// MaxParts caps the number of zip entries accepted when opening a package.
	MaxParts int `validate:"gte=0"`
	// MaxPartSize caps the uncompressed size of a single zip entry, in bytes.
	MaxPartSize int64 `validate:"gte=0"`
	// MaxTotalSize caps the summed uncompressed size of all entries, in bytes.
	MaxTotalSize int64 `validate:"gte=0,gtefield=MaxPartSize"`
	// StrictMedia turns an unreadable media entry into a format error.
	StrictMedia bool
	// MaxSessions caps the number of open editing sessions. 0 means no limit.
	MaxSessions int `validate:"gte=0"`
}

var (
	globalConfig      *Config
	globalConfigMutex sync.RWMutex
	configOnce        sync.Once

	validate = validator.New()
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		LogLevel:     "warn",
		LogFormat:    "console",
		MaxParts:     4096,
		MaxPartSize:  64 << 20,
		MaxTotalSize: 512 << 20,
	}
}

// Load reads a .env file (if any of the given paths exist) into the process
// environment and then builds the configuration from it.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	var existing []string
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) > 0 {
		if err := godotenv.Load(existing...); err != nil {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	}

	cfg := ConfigFromEnvironment()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigFromEnvironment creates a configuration from environment variables
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()

	if val := os.Getenv("DOCXIR_LOG_LEVEL"); val != "" {
		config.LogLevel = strings.ToLower(strings.TrimSpace(val))
	}

	if val := os.Getenv("DOCXIR_LOG_FORMAT"); val != "" {
		config.LogFormat = strings.ToLower(strings.TrimSpace(val))
	}

	if val := os.Getenv("DOCXIR_LOG_FILE"); val != "" {
		config.LogFile = val
	}

	if val := os.Getenv("DOCXIR_MAX_PARTS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			config.MaxParts = n
		}
	}

	if val := os.Getenv("DOCXIR_MAX_PART_SIZE"); val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			config.MaxPartSize = n
		}
	}

	if val := os.Getenv("DOCXIR_MAX_TOTAL_SIZE"); val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			config.MaxTotalSize = n
		}
	}

	if val := os.Getenv("DOCXIR_STRICT_MEDIA"); val != "" {
		config.StrictMedia = parseBool(val)
	}

	if val := os.Getenv("DOCXIR_MAX_SESSIONS"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			config.MaxSessions = n
		}
	}

	return config
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Logger builds a logger matching the configured level, format and file sink.
func (c *Config) Logger() *logging.Logger {
	return logging.New(logging.Options{
		Level:    logging.ParseLevel(c.LogLevel),
		Format:   c.LogFormat,
		FilePath: c.LogFile,
	})
}

// GetGlobalConfig returns a copy of the global configuration, reading the
// environment on first use.
func GetGlobalConfig() *Config {
	configOnce.Do(func() {
		globalConfigMutex.Lock()
		if globalConfig == nil {
			globalConfig = ConfigFromEnvironment()
		}
		globalConfigMutex.Unlock()
	})

	globalConfigMutex.RLock()
	defer globalConfigMutex.RUnlock()
	configCopy := *globalConfig
	return &configCopy
}

// SetGlobalConfig sets the global configuration and reconfigures the global
// logger from it.
func SetGlobalConfig(config *Config) {
	if config == nil {
		config = DefaultConfig()
	}
	configOnce.Do(func() {})
	globalConfigMutex.Lock()
	globalConfig = config
	globalConfigMutex.Unlock()

	logging.SetLogger(config.Logger())
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}
