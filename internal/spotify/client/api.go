package client

import (
	"context"
	"fmt"
	"strconv"
)

// GetDevices returns the user's available playback devices.
func (c *Client) GetDevices(ctx context.Context) ([]Device, error) {
	var resp DevicesResponse
	if err := c.Get(ctx, "/me/player/devices", &resp); err != nil {
		return nil, err
	}
	return resp.Devices, nil
}

// GetPlaybackState returns the current playback state, or nil if nothing is
// playing on any device.
func (c *Client) GetPlaybackState(ctx context.Context) (*PlaybackState, error) {
	var state PlaybackState
	if err := c.Get(ctx, "/me/player", &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// SearchTracks performs a track search. Results arrive in Spotify's own
// relevance order, best first.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) (*SearchTracks, error) {
	if query == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}

	params := map[string]string{
		"q":    query,
		"type": "track",
	}
	if limit > 0 {
		params["limit"] = strconv.Itoa(limit)
	}

	var resp SearchResponse
	if err := c.Get(ctx, BuildURL("/search", params), &resp); err != nil {
		return nil, err
	}
	if resp.Tracks == nil {
		return &SearchTracks{}, nil
	}
	return resp.Tracks, nil
}
