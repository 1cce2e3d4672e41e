// Package playersync bridges the session's logical queue to the external
// player queue, which advances on its own schedule.
package playersync

import (
	"context"
	"fmt"
	"time"

	"github.com/tessro/duet/internal/core"
	duetErrors "github.com/tessro/duet/internal/errors"
	"github.com/tessro/duet/internal/logger"
)

const (
	// DefaultPollInterval is how often a transient entry is re-checked.
	DefaultPollInterval = 100 * time.Millisecond

	// DefaultResolveTimeout bounds the wait for a transient entry to
	// resolve. Past it the enqueue fails rather than reporting false
	// success.
	DefaultResolveTimeout = 5 * time.Second
)

// Synchronizer keeps the session's view of playback consistent with the
// external player queue.
type Synchronizer struct {
	player core.PlayerQueue

	pollInterval   time.Duration
	resolveTimeout time.Duration
}

// Option adjusts Synchronizer timing. Used by tests to avoid real waits.
type Option func(*Synchronizer)

// WithPollInterval overrides the transient-resolution poll interval.
func WithPollInterval(d time.Duration) Option {
	return func(s *Synchronizer) { s.pollInterval = d }
}

// WithResolveTimeout overrides the transient-resolution timeout.
func WithResolveTimeout(d time.Duration) Option {
	return func(s *Synchronizer) { s.resolveTimeout = d }
}

// New creates a Synchronizer over the given player queue.
func New(player core.PlayerQueue, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		player:         player,
		pollInterval:   DefaultPollInterval,
		resolveTimeout: DefaultResolveTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Enqueue pushes a track onto the external queue. An empty queue is
// initialized and started from the track; otherwise the track is appended.
// Enqueue returns only after the player has resolved the new entry, so a
// success here means the track is genuinely playable.
func (s *Synchronizer) Enqueue(ctx context.Context, track core.Track) error {
	empty, err := s.player.IsEmpty(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", duetErrors.ErrQueueDesync, err)
	}

	if empty {
		if err := s.player.SetInitial(ctx, []core.Track{track}); err != nil {
			return fmt.Errorf("%w: %v", duetErrors.ErrQueueDesync, err)
		}
	} else {
		if err := s.player.Append(ctx, track); err != nil {
			return fmt.Errorf("%w: %v", duetErrors.ErrQueueDesync, err)
		}
	}

	if err := s.awaitResolution(ctx, track.ID); err != nil {
		return err
	}

	logger.Debug("track enqueued to player",
		logger.String("title", track.Title),
		logger.Bool("initial", empty))
	return nil
}

// awaitResolution polls until the entry for trackID is present and no
// longer transient, or the timeout passes.
func (s *Synchronizer) awaitResolution(ctx context.Context, trackID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.resolveTimeout)
	defer cancel()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		entries, err := s.player.Entries(ctx)
		if err == nil {
			for _, entry := range entries {
				if entry.Track.ID == trackID && !entry.Transient {
					return nil
				}
			}
		}

		select {
		case <-ctx.Done():
			logger.Warn("queue entry never resolved",
				logger.String("track_id", trackID),
				logger.Duration("timeout", s.resolveTimeout))
			return fmt.Errorf("%w: entry for track %s did not resolve", duetErrors.ErrQueueDesync, trackID)
		case <-ticker.C:
		}
	}
}

// RemoveTrack drops a pending track from the external queue. The player
// offers no arbitrary removal, so the queue is rebuilt as the current entry
// followed by every remaining track except the victim. Removing the
// currently-playing track is not supported.
func (s *Synchronizer) RemoveTrack(ctx context.Context, trackID string) error {
	entries, err := s.player.Entries(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", duetErrors.ErrQueueDesync, err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("%w: queue is empty", duetErrors.ErrQueueDesync)
	}

	if entries[0].Track.ID == trackID {
		return fmt.Errorf("cannot remove the currently playing track")
	}

	found := false
	rebuilt := make([]core.Track, 0, len(entries)-1)
	for _, entry := range entries {
		if entry.Track.ID == trackID {
			found = true
			continue
		}
		rebuilt = append(rebuilt, entry.Track)
	}
	if !found {
		return fmt.Errorf("track %s is not in the player queue", trackID)
	}

	if err := s.player.SetInitial(ctx, rebuilt); err != nil {
		return fmt.Errorf("%w: %v", duetErrors.ErrQueueDesync, err)
	}

	logger.Debug("rebuilt player queue without track",
		logger.String("track_id", trackID),
		logger.Int("remaining", len(rebuilt)))
	return nil
}

// SkipToIndex moves playback from the current position to the entry at the
// target position. The player only steps relatively, so the absolute target
// is translated into repeated next or previous skips.
func (s *Synchronizer) SkipToIndex(ctx context.Context, current, target int) error {
	entries, err := s.player.Entries(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", duetErrors.ErrQueueDesync, err)
	}
	if target < 0 || target >= len(entries) {
		return fmt.Errorf("index %d out of range (queue has %d entries)", target, len(entries))
	}

	steps := target - current
	skip := s.player.SkipNext
	if steps < 0 {
		steps = -steps
		skip = s.player.SkipPrevious
	}

	for i := 0; i < steps; i++ {
		if err := skip(ctx); err != nil {
			return fmt.Errorf("%w: skip %d of %d failed: %v", duetErrors.ErrQueueDesync, i+1, steps, err)
		}
	}
	return nil
}
