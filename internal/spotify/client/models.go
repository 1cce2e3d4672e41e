package client

// Device represents a Spotify playback device.
type Device struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	IsActive      bool   `json:"is_active"`
	IsRestricted  bool   `json:"is_restricted"`
	VolumePercent *int   `json:"volume_percent"` // Nullable
}

// DevicesResponse is the response from the devices endpoint.
type DevicesResponse struct {
	Devices []Device `json:"devices"`
}

// PlaybackState represents the current playback state.
type PlaybackState struct {
	Device               Device `json:"device"`
	Timestamp            int64  `json:"timestamp"`
	ProgressMS           int    `json:"progress_ms"`
	IsPlaying            bool   `json:"is_playing"`
	Item                 *Track `json:"item"`
	CurrentlyPlayingType string `json:"currently_playing_type"` // track, episode, ad, unknown
}

// Track represents a Spotify track.
type Track struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	URI        string   `json:"uri"`
	DurationMS int      `json:"duration_ms"`
	IsPlayable bool     `json:"is_playable"`
	Popularity int      `json:"popularity"`
	Artists    []Artist `json:"artists"`
	Album      Album    `json:"album"`
}

// Artist represents a Spotify artist.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// Album represents a Spotify album.
type Album struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	URI         string `json:"uri"`
	AlbumType   string `json:"album_type"`
	ReleaseDate string `json:"release_date"`
}

// SearchResponse represents the response from a search query.
type SearchResponse struct {
	Tracks *SearchTracks `json:"tracks"`
}

// SearchTracks contains track search results.
type SearchTracks struct {
	Items  []Track `json:"items"`
	Total  int     `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}

// Queue represents the user's playback queue.
type Queue struct {
	CurrentlyPlaying *Track  `json:"currently_playing"`
	Queue            []Track `json:"queue"`
}
