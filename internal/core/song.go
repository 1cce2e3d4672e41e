package core

import "time"

// TurnType identifies which party a turn or pick belongs to.
type TurnType string

const (
	TurnUser TurnType = "user"
	TurnAI   TurnType = "ai"
)

// Opposite returns the other party.
func (t TurnType) Opposite() TurnType {
	if t == TurnUser {
		return TurnAI
	}
	return TurnUser
}

// QueueStatus describes where a session song sits in its lifecycle.
type QueueStatus string

const (
	// StatusPlayed marks a song whose playback has finished.
	StatusPlayed QueueStatus = "played"

	// StatusPlaying marks the song currently playing. At most one song
	// across history and queue carries this status.
	StatusPlaying QueueStatus = "playing"

	// StatusUpNext marks a committed next pick; queuing it takes a turn.
	StatusUpNext QueueStatus = "up_next"

	// StatusQueuedIfSkipped marks an AI backup pick that only plays if the
	// human does not act. Queuing it does not take a turn.
	StatusQueuedIfSkipped QueueStatus = "queued_if_skipped"
)

// SessionSong is a track bound into the session: who picked it, why, and
// where it is in the play lifecycle. Owned exclusively by the session state;
// it lives in the queue or the history, never both.
type SessionSong struct {
	ID         string      `json:"id"`
	Track      Track       `json:"track"`
	SelectedBy TurnType    `json:"selected_by"`
	SelectedAt time.Time   `json:"selected_at"`
	Rationale  string      `json:"rationale,omitempty"`
	Status     QueueStatus `json:"status"`
}
