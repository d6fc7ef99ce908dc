package commands

import (
	"os"
	"path/filepath"

	"github.com/hay-kot/parlor/internal/chat"
	"github.com/hay-kot/parlor/internal/client"
	"github.com/hay-kot/parlor/internal/core/config"
	"github.com/hay-kot/parlor/internal/store/jsonfile"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config

	// Client is the REST/WebSocket transport
	Client *client.Client

	// Service is the chat core orchestrating session, feeds, and rooms
	Service *chat.Service

	// State is the persisted client state (session cookie, last room)
	State *jsonfile.StateStore
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "parlor", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "parlor")
}
