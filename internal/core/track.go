package core

import "time"

// Track represents a playable catalog track. Identity is owned by the
// catalog; duet never invents or mutates track fields.
type Track struct {
	ID       string        `json:"id"`
	URI      string        `json:"uri"`
	Title    string        `json:"title"`
	Artist   string        `json:"artist"`
	Artists  []string      `json:"artists"`
	Album    string        `json:"album"`
	Duration time.Duration `json:"duration"`
}

// Same reports whether two tracks refer to the same catalog identity.
func (t Track) Same(other Track) bool {
	return t.ID != "" && t.ID == other.ID
}
