package core

import "context"

// QueueEntry is one slot in the external player queue. An entry may be
// transient while the player is still resolving it (metadata fetch, URI
// lookup); transient entries are not yet safely playable and must be
// ignored by advance detection.
type QueueEntry struct {
	Track     Track
	Transient bool
}

// QueueChange is a notification that the external player queue changed in
// some way. The payload carries the current entry at the time of the change;
// consumers diff against their own last-observed state.
type QueueChange struct {
	Current QueueEntry
}

// PlayerQueue is the externally-driven playback queue. The player advances
// through it on its own schedule; duet only ever observes, appends, rebuilds,
// and steps relative to the current position.
type PlayerQueue interface {
	// IsEmpty reports whether the queue holds no entries.
	IsEmpty(ctx context.Context) (bool, error)

	// Entries returns the queue contents in play order, current entry first.
	Entries(ctx context.Context) ([]QueueEntry, error)

	// CurrentEntry returns the entry at the play position. The entry may be
	// transient.
	CurrentEntry(ctx context.Context) (QueueEntry, error)

	// Append adds a track to the queue tail.
	Append(ctx context.Context, track Track) error

	// SetInitial replaces the queue contents and prepares playback from the
	// first track.
	SetInitial(ctx context.Context, tracks []Track) error

	// SkipNext advances playback by one entry.
	SkipNext(ctx context.Context) error

	// SkipPrevious steps playback back by one entry.
	SkipPrevious(ctx context.Context) error

	// ChangeNotifications delivers queue change events until ctx is
	// cancelled. The channel is closed when delivery stops.
	ChangeNotifications(ctx context.Context) (<-chan QueueChange, error)
}
