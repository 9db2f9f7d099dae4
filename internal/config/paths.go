// ABOUTME: XDG-aware locations for promptlib configuration and data.
// ABOUTME: Config lives under XDG_CONFIG_HOME, records under XDG_DATA_HOME.

package config

import (
	"os"
	"path/filepath"
)

const (
	// AppName names the config and data directories.
	AppName = "promptlib"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"
)

// ConfigDir returns the configuration directory path.
func ConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, AppName)
}

// ConfigPath returns the path to the default config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), ConfigFileName)
}

// DataDir returns the directory holding the record store and logs.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, AppName)
}
