package config

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Spotify: SpotifyConfig{
			RedirectURI: "http://127.0.0.1:8888/callback",
		},
		AI: AIConfig{
			Model:       "gpt-4o-mini",
			Persona:     "an adventurous DJ with deep crate knowledge who trades tracks with a friend",
			Temperature: 0.9,
			MaxAttempts: 3,
		},
		Session: SessionConfig{
			RecencyLimit:    50,
			SearchLimit:     10,
			EnqueueTimeout:  5,
			EnqueueInterval: 100,
		},
		TUI: TUIConfig{
			RefreshInterval: 1000,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Spotify
	if c.Spotify.RedirectURI == "" {
		c.Spotify.RedirectURI = d.Spotify.RedirectURI
	}

	// AI
	if c.AI.Model == "" {
		c.AI.Model = d.AI.Model
	}
	if c.AI.Persona == "" {
		c.AI.Persona = d.AI.Persona
	}
	if c.AI.Temperature == 0 {
		c.AI.Temperature = d.AI.Temperature
	}
	if c.AI.MaxAttempts == 0 {
		c.AI.MaxAttempts = d.AI.MaxAttempts
	}

	// Session
	if c.Session.RecencyLimit == 0 {
		c.Session.RecencyLimit = d.Session.RecencyLimit
	}
	if c.Session.SearchLimit == 0 {
		c.Session.SearchLimit = d.Session.SearchLimit
	}
	if c.Session.EnqueueTimeout == 0 {
		c.Session.EnqueueTimeout = d.Session.EnqueueTimeout
	}
	if c.Session.EnqueueInterval == 0 {
		c.Session.EnqueueInterval = d.Session.EnqueueInterval
	}

	// TUI
	if c.TUI.RefreshInterval == 0 {
		c.TUI.RefreshInterval = d.TUI.RefreshInterval
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}
