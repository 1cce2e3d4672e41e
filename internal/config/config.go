package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.duetrc, $XDG_CONFIG_HOME/duet/config.toml, ~/.config/duet/config.toml
func Load() (*Config, error) {
	cfg := &Config{}

	// Try loading from file
	path := findConfigFile()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	// Apply defaults, then environment variable overrides
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// findConfigFile returns the first existing config file path.
func findConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	paths := []string{
		filepath.Join(home, ".duetrc"),
	}

	// XDG_CONFIG_HOME or default
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	paths = append(paths, filepath.Join(xdgConfig, "duet", "config.toml"))

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	// Spotify
	if v := os.Getenv("DUET_SPOTIFY_CLIENT_ID"); v != "" {
		cfg.Spotify.ClientID = v
	}
	if v := os.Getenv("DUET_SPOTIFY_REDIRECT_URI"); v != "" {
		cfg.Spotify.RedirectURI = v
	}
	if v := os.Getenv("DUET_SPOTIFY_DEVICE"); v != "" {
		cfg.Spotify.Device = v
	}

	// AI
	if v := os.Getenv("DUET_AI_MODEL"); v != "" {
		cfg.AI.Model = v
	}
	if v := os.Getenv("DUET_AI_BASE_URL"); v != "" {
		cfg.AI.BaseURL = v
	}
	if v := os.Getenv("DUET_AI_PERSONA"); v != "" {
		cfg.AI.Persona = v
	}

	// Session
	if v := os.Getenv("DUET_SESSION_RECENCY_LIMIT"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Session.RecencyLimit = i
		}
	}

	// Storage
	if v := os.Getenv("DUET_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}

	// TUI
	if v := os.Getenv("DUET_TUI_REFRESH_INTERVAL"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.TUI.RefreshInterval = i
		}
	}

	// Log
	if v := os.Getenv("DUET_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("DUET_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}

// StoragePath returns the configured storage path, or the default location
// under the user config directory.
func (c *Config) StoragePath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "duet-data"
	}
	return filepath.Join(configDir, "duet", "data")
}
