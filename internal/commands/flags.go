package commands

import (
	"os"
	"path/filepath"

	"github.com/hay-kot/skillshop/internal/apiclient"
	"github.com/hay-kot/skillshop/internal/core/config"
	"github.com/hay-kot/skillshop/internal/core/storage"
	"github.com/hay-kot/skillshop/internal/marketplace"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string
	APIURL     string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config

	// Service orchestrates the session, the cart and the API client
	Service *marketplace.Service

	// Store is the durable key-value store backing session and cart
	Store storage.Store

	// API is the HTTP client shared by the service and health checks
	API *apiclient.Client
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "skillshop", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "skillshop")
}
