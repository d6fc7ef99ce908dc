// Package config handles configuration loading and validation for parlor.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/hay-kot/criterio"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	// Server is the base URL of the chat backend, e.g. http://localhost:8000.
	Server string `yaml:"server"`

	// HistoryLimit is how many messages the activation snapshot requests.
	HistoryLimit int `yaml:"history_limit"`

	// Timeout bounds every REST call.
	Timeout time.Duration `yaml:"timeout"`

	// CopyCommand overrides the clipboard integration with a shell pipe
	// command. Empty uses the platform clipboard.
	CopyCommand string `yaml:"copy_command"`

	// DataDir is set by the caller, not from the config file.
	DataDir string `yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Server:       "http://localhost:8000",
		HistoryLimit: 50,
		Timeout:      10 * time.Second,
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the
// provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Server == "" {
		c.Server = defaults.Server
	}
	if c.HistoryLimit == 0 {
		c.HistoryLimit = defaults.HistoryLimit
	}
	if c.Timeout == 0 {
		c.Timeout = defaults.Timeout
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	var errs criterio.FieldErrorsBuilder

	u, err := url.Parse(c.Server)
	switch {
	case err != nil:
		errs = errs.Append("server", fmt.Errorf("invalid URL: %w", err))
	case u.Scheme != "http" && u.Scheme != "https":
		errs = errs.Append("server", fmt.Errorf("scheme must be http or https, got %q", u.Scheme))
	case u.Host == "":
		errs = errs.Append("server", fmt.Errorf("missing host"))
	}

	if c.HistoryLimit < 1 {
		errs = errs.Append("history_limit", fmt.Errorf("must be at least 1"))
	}
	if c.Timeout < time.Second {
		errs = errs.Append("timeout", fmt.Errorf("must be at least 1s"))
	}
	if c.DataDir == "" {
		errs = errs.Append("data_dir", fmt.Errorf("data directory cannot be empty"))
	}

	return errs.ToError()
}

// StateFile returns the path to the persisted client state JSON file.
func (c *Config) StateFile() string {
	return filepath.Join(c.DataDir, "state.json")
}
