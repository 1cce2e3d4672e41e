package playersync

import (
	"context"

	"github.com/tessro/duet/internal/core"
	"github.com/tessro/duet/internal/logger"
)

// AdvanceEvent reports that the player moved on to a new track.
type AdvanceEvent struct {
	Track core.Track
}

// Watch subscribes to the player's change notifications and distills them
// into advance events: one event per transition to a new, fully resolved
// track. Transient entries are skipped (the player is still resolving
// them), and repeated reports of the same track are dropped, so consumers
// see each advance exactly once. The returned channel closes when ctx is
// cancelled or the player stops notifying.
func (s *Synchronizer) Watch(ctx context.Context) (<-chan AdvanceEvent, error) {
	changes, err := s.player.ChangeNotifications(ctx)
	if err != nil {
		return nil, err
	}

	events := make(chan AdvanceEvent, 16)
	go func() {
		defer close(events)

		var lastID string
		for change := range changes {
			entry := change.Current
			if entry.Transient || entry.Track.ID == "" {
				continue
			}
			if entry.Track.ID == lastID {
				continue
			}
			lastID = entry.Track.ID

			select {
			case events <- AdvanceEvent{Track: entry.Track}:
			default:
				// A stalled consumer loses the oldest news first. State
				// reconciliation downstream is idempotent, so a dropped
				// event costs a beat of staleness, not corruption.
				logger.Warn("dropping advance event, consumer not keeping up",
					logger.String("track_id", entry.Track.ID))
			}
		}
	}()
	return events, nil
}
