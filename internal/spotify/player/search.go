package player

import (
	"context"
	"time"

	"github.com/tessro/duet/internal/core"
	"github.com/tessro/duet/internal/spotify/client"
)

// Search implements core.CatalogSearch over the Spotify Web API.
type Search struct {
	client *client.Client
}

// NewSearch creates a catalog search backed by the Spotify client.
func NewSearch(c *client.Client) *Search {
	return &Search{client: c}
}

// SearchTracks finds tracks matching the query, in Spotify's relevance order.
func (s *Search) SearchTracks(ctx context.Context, query string, limit int) ([]core.Track, error) {
	results, err := s.client.SearchTracks(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	tracks := make([]core.Track, 0, len(results.Items))
	for i := range results.Items {
		tracks = append(tracks, convertTrack(&results.Items[i]))
	}
	return tracks, nil
}

// convertTrack converts a Spotify track to a core track.
func convertTrack(t *client.Track) core.Track {
	if t == nil {
		return core.Track{}
	}

	artists := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		artists[i] = a.Name
	}

	artist := ""
	if len(artists) > 0 {
		artist = artists[0]
	}

	return core.Track{
		ID:       t.ID,
		URI:      t.URI,
		Title:    t.Name,
		Artist:   artist,
		Artists:  artists,
		Album:    t.Album.Name,
		Duration: time.Duration(t.DurationMS) * time.Millisecond,
	}
}

// convertEntry converts a Spotify track to a queue entry. Tracks without an
// id are still resolving on the player side.
func convertEntry(t *client.Track) core.QueueEntry {
	if t == nil || t.ID == "" {
		return core.QueueEntry{Transient: true}
	}
	return core.QueueEntry{Track: convertTrack(t)}
}

// Ensure Search implements core.CatalogSearch
var _ core.CatalogSearch = (*Search)(nil)
