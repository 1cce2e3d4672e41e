package client

import (
	"context"
)

// PlayOptions configures a play request.
type PlayOptions struct {
	ContextURI string      `json:"context_uri,omitempty"`
	URIs       []string    `json:"uris,omitempty"`
	Offset     *PlayOffset `json:"offset,omitempty"`
	PositionMS int         `json:"position_ms,omitempty"`
}

// PlayOffset specifies where to start playback in a context.
type PlayOffset struct {
	Position int    `json:"position,omitempty"` // Track index
	URI      string `json:"uri,omitempty"`      // Track URI
}

// Play starts or resumes playback.
// If opts is nil, resumes current playback.
// If deviceID is empty, uses the currently active device.
func (c *Client) Play(ctx context.Context, deviceID string, opts *PlayOptions) error {
	path := "/me/player/play"
	if deviceID != "" {
		path = BuildURL(path, map[string]string{"device_id": deviceID})
	}
	// Spotify requires a JSON body even for resume - send empty object if no options
	body := opts
	if body == nil {
		body = &PlayOptions{}
	}
	return c.Put(ctx, path, body, nil)
}

// Pause pauses playback.
func (c *Client) Pause(ctx context.Context, deviceID string) error {
	path := "/me/player/pause"
	if deviceID != "" {
		path = BuildURL(path, map[string]string{"device_id": deviceID})
	}
	return c.Put(ctx, path, nil, nil)
}

// Next skips to the next track.
func (c *Client) Next(ctx context.Context, deviceID string) error {
	path := "/me/player/next"
	if deviceID != "" {
		path = BuildURL(path, map[string]string{"device_id": deviceID})
	}
	return c.Post(ctx, path, nil, nil)
}

// Previous skips to the previous track.
func (c *Client) Previous(ctx context.Context, deviceID string) error {
	path := "/me/player/previous"
	if deviceID != "" {
		path = BuildURL(path, map[string]string{"device_id": deviceID})
	}
	return c.Post(ctx, path, nil, nil)
}

// GetQueue returns the user's playback queue.
func (c *Client) GetQueue(ctx context.Context) (*Queue, error) {
	var queue Queue
	if err := c.Get(ctx, "/me/player/queue", &queue); err != nil {
		return nil, err
	}
	return &queue, nil
}

// AddToQueue adds a track to the playback queue.
func (c *Client) AddToQueue(ctx context.Context, uri string, deviceID string) error {
	params := map[string]string{
		"uri": uri,
	}
	if deviceID != "" {
		params["device_id"] = deviceID
	}
	return c.Post(ctx, BuildURL("/me/player/queue", params), nil, nil)
}
