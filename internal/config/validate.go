package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Spotify.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("spotify: %w", err))
	}
	if err := c.AI.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("ai: %w", err))
	}
	if err := c.Session.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("session: %w", err))
	}
	if err := c.TUI.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tui: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}

	return errors.Join(errs...)
}

// Validate checks SpotifyConfig for errors.
func (c *SpotifyConfig) Validate() error {
	if c.RedirectURI != "" {
		if _, err := url.Parse(c.RedirectURI); err != nil {
			return fmt.Errorf("invalid redirect_uri: %w", err)
		}
	}
	return nil
}

// Validate checks AIConfig for errors.
func (c *AIConfig) Validate() error {
	if c.Temperature < 0 || c.Temperature > 2 {
		return errors.New("temperature must be between 0 and 2")
	}
	if c.MaxAttempts < 1 {
		return errors.New("max_attempts must be at least 1")
	}
	return nil
}

// Validate checks SessionConfig for errors.
func (c *SessionConfig) Validate() error {
	if c.RecencyLimit < 0 {
		return errors.New("recency_limit must be non-negative")
	}
	if c.SearchLimit < 1 {
		return errors.New("search_limit must be at least 1")
	}
	if c.EnqueueTimeout < 1 {
		return errors.New("enqueue_timeout must be at least 1 second")
	}
	if c.EnqueueInterval < 1 {
		return errors.New("enqueue_interval must be at least 1 millisecond")
	}
	return nil
}

// Validate checks TUIConfig for errors.
func (c *TUIConfig) Validate() error {
	if c.RefreshInterval < 0 {
		return errors.New("refresh_interval must be non-negative")
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}
	return nil
}
