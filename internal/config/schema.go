package config

// Config is the root configuration structure.
type Config struct {
	Spotify SpotifyConfig `toml:"spotify"`
	AI      AIConfig      `toml:"ai"`
	Session SessionConfig `toml:"session"`
	Storage StorageConfig `toml:"storage"`
	TUI     TUIConfig     `toml:"tui"`
	Log     LogConfig     `toml:"log"`
}

// SpotifyConfig holds Spotify API settings.
type SpotifyConfig struct {
	ClientID    string `toml:"client_id"`
	RedirectURI string `toml:"redirect_uri"`
	Device      string `toml:"device"`
}

// AIConfig holds settings for the AI DJ persona.
type AIConfig struct {
	Model       string  `toml:"model"`
	BaseURL     string  `toml:"base_url"`
	Persona     string  `toml:"persona"`
	Temperature float64 `toml:"temperature"`
	MaxAttempts int     `toml:"max_attempts"`
}

// SessionConfig holds turn-session settings.
type SessionConfig struct {
	RecencyLimit    int `toml:"recency_limit"`
	SearchLimit     int `toml:"search_limit"`
	EnqueueTimeout  int `toml:"enqueue_timeout"`  // seconds
	EnqueueInterval int `toml:"enqueue_interval"` // milliseconds
}

// StorageConfig holds embedded database settings.
type StorageConfig struct {
	Path string `toml:"path"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	RefreshInterval int `toml:"refresh_interval"` // milliseconds
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}
