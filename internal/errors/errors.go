// Package errors defines error types and sentinel errors used throughout duet.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrNotAuthenticated indicates the user needs to authenticate with Spotify.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNoActiveDevice indicates no Spotify playback device is available.
	ErrNoActiveDevice = errors.New("no active playback device")

	// ErrTrackNotFound indicates a track could not be found in the catalog.
	ErrTrackNotFound = errors.New("track not found")

	// ErrNoMatch indicates no catalog result matched a recommendation
	// confidently enough to accept.
	ErrNoMatch = errors.New("no confident match")

	// ErrSelectionFailed indicates a pick attempt exhausted its retries
	// without producing a song.
	ErrSelectionFailed = errors.New("selection failed")

	// ErrSelectionPending indicates a pick for the same persona is already
	// in flight.
	ErrSelectionPending = errors.New("selection already in progress")

	// ErrQueueDesync indicates the external player queue no longer reflects
	// what the session expects.
	ErrQueueDesync = errors.New("player queue out of sync")

	// ErrNotYourTurn indicates a pick was requested out of turn.
	ErrNotYourTurn = errors.New("not your turn")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrNetworkError indicates a network communication failure.
	ErrNetworkError = errors.New("network error")

	// ErrTimeout indicates an operation timed out.
	ErrTimeout = errors.New("operation timed out")

	// ErrConfigNotFound indicates no configuration file was found.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidConfig indicates the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// DuetError wraps an error with a user-facing suggestion.
type DuetError struct {
	Err        error
	Suggestion string
}

// Error implements the error interface.
func (e *DuetError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *DuetError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a suggestion for the user.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &DuetError{Err: err, Suggestion: suggestion}
}

// GetSuggestion extracts the suggestion from an error, if any. Known
// sentinel errors carry a default suggestion.
func GetSuggestion(err error) string {
	var de *DuetError
	if errors.As(err, &de) && de.Suggestion != "" {
		return de.Suggestion
	}

	switch {
	case errors.Is(err, ErrNotAuthenticated):
		return "Run 'duet auth login' to authenticate with Spotify"
	case errors.Is(err, ErrNoActiveDevice):
		return "Open Spotify on a device and start playback, then try again"
	case errors.Is(err, ErrQueueDesync):
		return "Run 'duet session reset' to rebuild the queue"
	case errors.Is(err, ErrConfigNotFound):
		return "Run 'duet config init' to create a configuration file"
	case errors.Is(err, ErrRateLimited):
		return "Wait a moment and try again"
	}
	return ""
}

// Format formats an error for display, including any suggestion.
func Format(err error) string {
	if err == nil {
		return ""
	}
	msg := fmt.Sprintf("Error: %s", err.Error())
	if suggestion := GetSuggestion(err); suggestion != "" {
		msg += fmt.Sprintf("\n\n%s", suggestion)
	}
	return msg
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// New returns an error that formats as the given text.
func New(text string) error {
	return errors.New(text)
}
