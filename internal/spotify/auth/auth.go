package auth

import (
	"net/url"
	"strings"
)

const (
	// SpotifyAuthURL is the Spotify authorization endpoint.
	SpotifyAuthURL = "https://accounts.spotify.com/authorize"

	// SpotifyTokenURL is the Spotify token endpoint.
	SpotifyTokenURL = "https://accounts.spotify.com/api/token"

	// DefaultRedirectURI is the default callback URI for the local server.
	DefaultRedirectURI = "http://127.0.0.1:8888/callback"
)

// DefaultScopes are the Spotify scopes duet needs: reading and steering the
// playback queue. Search needs no scope.
var DefaultScopes = []string{
	"user-read-playback-state",
	"user-modify-playback-state",
	"user-read-currently-playing",
}

// Config holds the OAuth configuration.
type Config struct {
	ClientID    string
	RedirectURI string
	Scopes      []string
}

// NewConfig creates a new OAuth configuration with defaults.
func NewConfig(clientID string) *Config {
	return &Config{
		ClientID:    clientID,
		RedirectURI: DefaultRedirectURI,
		Scopes:      DefaultScopes,
	}
}

// BuildAuthURL constructs the Spotify authorization URL with PKCE parameters.
func (c *Config) BuildAuthURL(pkce *PKCE) string {
	u, _ := url.Parse(SpotifyAuthURL)

	q := u.Query()
	q.Set("client_id", c.ClientID)
	q.Set("response_type", "code")
	q.Set("redirect_uri", c.RedirectURI)
	q.Set("code_challenge_method", "S256")
	q.Set("code_challenge", pkce.Challenge)
	q.Set("state", pkce.State)
	if len(c.Scopes) > 0 {
		q.Set("scope", strings.Join(c.Scopes, " "))
	}

	u.RawQuery = q.Encode()
	return u.String()
}
