package player

import (
	"context"
	"time"

	"github.com/tessro/duet/internal/core"
	"github.com/tessro/duet/internal/spotify/client"
)

// PollInterval is how often the change-notification stream samples the
// player state.
const PollInterval = time.Second

// Player implements core.PlayerQueue over the Spotify Web API. Spotify
// exposes no push notifications, so queue changes are detected by polling
// the playback state.
type Player struct {
	client   *client.Client
	deviceID string // Optional: target device ID
	interval time.Duration
}

// New creates a new Spotify player queue.
func New(c *client.Client) *Player {
	return &Player{client: c, interval: PollInterval}
}

// SetDevice sets the target device for playback commands.
func (p *Player) SetDevice(deviceID string) {
	p.deviceID = deviceID
}

// SetPollInterval overrides the change-notification poll interval.
func (p *Player) SetPollInterval(d time.Duration) {
	if d > 0 {
		p.interval = d
	}
}

// IsEmpty reports whether nothing is playing and nothing is queued.
func (p *Player) IsEmpty(ctx context.Context) (bool, error) {
	queue, err := p.client.GetQueue(ctx)
	if err != nil {
		return false, err
	}
	return queue.CurrentlyPlaying == nil && len(queue.Queue) == 0, nil
}

// Entries returns the player queue in play order, current entry first.
func (p *Player) Entries(ctx context.Context) ([]core.QueueEntry, error) {
	queue, err := p.client.GetQueue(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]core.QueueEntry, 0, len(queue.Queue)+1)
	if queue.CurrentlyPlaying != nil {
		entries = append(entries, convertEntry(queue.CurrentlyPlaying))
	}
	for i := range queue.Queue {
		entries = append(entries, convertEntry(&queue.Queue[i]))
	}
	return entries, nil
}

// CurrentEntry returns the entry at the play position. During track
// transitions Spotify reports no item or a non-track item; both surface as
// a transient entry.
func (p *Player) CurrentEntry(ctx context.Context) (core.QueueEntry, error) {
	state, err := p.client.GetPlaybackState(ctx)
	if err != nil {
		return core.QueueEntry{}, err
	}
	if state == nil || state.Item == nil || state.Item.ID == "" {
		return core.QueueEntry{Transient: true}, nil
	}
	if state.CurrentlyPlayingType != "" && state.CurrentlyPlayingType != "track" {
		return core.QueueEntry{Transient: true}, nil
	}
	return core.QueueEntry{Track: convertTrack(state.Item)}, nil
}

// Append adds a track to the queue tail.
func (p *Player) Append(ctx context.Context, track core.Track) error {
	return p.client.AddToQueue(ctx, track.URI, p.deviceID)
}

// SetInitial replaces the queue contents and starts playback from the first
// track.
func (p *Player) SetInitial(ctx context.Context, tracks []core.Track) error {
	uris := make([]string, len(tracks))
	for i, t := range tracks {
		uris[i] = t.URI
	}
	return p.client.Play(ctx, p.deviceID, &client.PlayOptions{URIs: uris})
}

// SkipNext advances playback by one entry.
func (p *Player) SkipNext(ctx context.Context) error {
	return p.client.Next(ctx, p.deviceID)
}

// SkipPrevious steps playback back by one entry.
func (p *Player) SkipPrevious(ctx context.Context) error {
	return p.client.Previous(ctx, p.deviceID)
}

// ChangeNotifications polls the playback state and delivers a change event
// whenever the current entry differs from the last sample. The channel is
// closed when ctx is cancelled.
func (p *Player) ChangeNotifications(ctx context.Context) (<-chan core.QueueChange, error) {
	changes := make(chan core.QueueChange, 16)

	go func() {
		defer close(changes)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		var last *core.QueueEntry

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				curr, err := p.CurrentEntry(ctx)
				if err != nil {
					continue
				}
				if last != nil && entriesEqual(*last, curr) {
					continue
				}
				last = &curr
				select {
				case changes <- core.QueueChange{Current: curr}:
				default:
					// Drop event if channel is full
				}
			}
		}
	}()

	return changes, nil
}

func entriesEqual(a, b core.QueueEntry) bool {
	return a.Transient == b.Transient && a.Track.ID == b.Track.ID
}

// Ensure Player implements core.PlayerQueue
var _ core.PlayerQueue = (*Player)(nil)
