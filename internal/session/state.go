// Package session implements the turn and queue state machine for a duet
// listening session, and the orchestrator that drives it.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tessro/duet/internal/core"
	"github.com/tessro/duet/internal/logger"
)

// snapshotKey is where the session snapshot lives in the store.
const snapshotKey = "session/current"

// ErrSongNotFound indicates a queue operation referenced an unknown song id.
var ErrSongNotFound = errors.New("song not found in queue")

// State is the single source of truth for session history, the pending
// queue, whose turn it is, and what is currently playing. All methods are
// safe for concurrent use; every transition runs under one mutex so the
// invariants hold at each step:
//
//   - at most one song across history and queue has StatusPlaying
//   - a song moves queue to history exactly once, never back
//   - the turn flips only when a song is committed, never on enqueue
type State struct {
	mu                 sync.Mutex
	history            []*core.SessionSong
	queue              []*core.SessionSong
	currentTurn        core.TurnType
	aiThinking         bool
	currentlyPlayingID string
}

// NewState creates a session in its initial state: user's turn, idle.
func NewState() *State {
	return &State{currentTurn: core.TurnUser}
}

// CurrentTurn returns whose turn it is.
func (s *State) CurrentTurn() core.TurnType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentTurn
}

// IsAIThinking reports whether an AI selection is in flight.
func (s *State) IsAIThinking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aiThinking
}

// SetAIThinking sets the AI-thinking flag.
func (s *State) SetAIThinking(thinking bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aiThinking = thinking
}

// History returns a copy of the session history, oldest first.
func (s *State) History() []core.SessionSong {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySongs(s.history)
}

// Queue returns a copy of the pending queue in FIFO order.
func (s *State) Queue() []core.SessionSong {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySongs(s.queue)
}

// CurrentlyPlaying returns the history entry that is playing, if any.
func (s *State) CurrentlyPlaying() *core.SessionSong {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentlyPlayingID == "" {
		return nil
	}
	for _, song := range s.history {
		if song.ID == s.currentlyPlayingID {
			clone := *song
			return &clone
		}
	}
	return nil
}

// AddToHistory appends a song directly to history. If the status is
// StatusPlaying the song becomes the current track and the turn advances.
func (s *State) AddToHistory(track core.Track, selectedBy core.TurnType, rationale string, status core.QueueStatus) core.SessionSong {
	s.mu.Lock()
	defer s.mu.Unlock()

	song := newSong(track, selectedBy, rationale, status)
	if status == core.StatusPlaying {
		s.markPlayingDone()
		s.currentlyPlayingID = song.ID
	}
	s.history = append(s.history, song)
	s.advanceTurn(selectedBy, status)

	logger.Debug("added song to history",
		logger.String("title", track.Title),
		logger.String("selected_by", string(selectedBy)),
		logger.String("status", string(status)))
	return *song
}

// QueueSong appends a song to the queue tail. Enqueueing is not taking a
// turn, so the turn does not advance here.
func (s *State) QueueSong(track core.Track, selectedBy core.TurnType, rationale string, status core.QueueStatus) core.SessionSong {
	s.mu.Lock()
	defer s.mu.Unlock()

	song := newSong(track, selectedBy, rationale, status)
	s.queue = append(s.queue, song)

	logger.Debug("queued song",
		logger.String("title", track.Title),
		logger.String("selected_by", string(selectedBy)),
		logger.String("status", string(status)))
	return *song
}

// MoveQueuedSongToHistory commits a queued song: it leaves the queue,
// becomes the current playing track, and the turn advances according to the
// status it was queued with.
func (s *State) MoveQueuedSongToHistory(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitQueued(id)
}

// commitQueued is MoveQueuedSongToHistory without the lock. Callers hold mu.
func (s *State) commitQueued(id string) error {
	idx := -1
	for i, song := range s.queue {
		if song.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrSongNotFound, id)
	}

	song := s.queue[idx]
	s.queue = append(s.queue[:idx:idx], s.queue[idx+1:]...)

	// The turn rule keys off the status the song was queued with, not the
	// StatusPlaying it is about to get.
	queuedStatus := song.Status

	s.markPlayingDone()
	song.Status = core.StatusPlaying
	s.currentlyPlayingID = song.ID
	s.history = append(s.history, song)
	s.advanceTurn(song.SelectedBy, queuedStatus)

	logger.Debug("committed queued song",
		logger.String("title", song.Track.Title),
		logger.String("selected_by", string(song.SelectedBy)),
		logger.String("queued_status", string(queuedStatus)))
	return nil
}

// UpdateCurrentlyPlaying reconciles an externally reported track change into
// session state. History is checked first so repeated reports of the same
// track are no-ops. A queued match is committed via the normal transition.
// An unknown id is silently ignored, which is the expected case for the
// first track of a session.
func (s *State) UpdateCurrentlyPlaying(externalTrackID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, song := range s.history {
		if song.Track.ID != externalTrackID {
			continue
		}
		if song.Status == core.StatusPlaying && s.currentlyPlayingID == song.ID {
			return
		}
		// A history entry replaying (the user skipped back). The turn was
		// already consumed when this song first committed, so only the
		// playing marker moves.
		s.markPlayingDone()
		song.Status = core.StatusPlaying
		s.currentlyPlayingID = song.ID
		logger.Debug("reconciled playing track from history",
			logger.String("title", song.Track.Title))
		return
	}

	for _, song := range s.queue {
		if song.Track.ID == externalTrackID {
			if err := s.commitQueued(song.ID); err != nil {
				logger.Warn("failed to commit queued song",
					logger.String("id", song.ID),
					logger.ErrorField(err))
			}
			return
		}
	}

	logger.Debug("ignoring unknown playing track",
		logger.String("track_id", externalTrackID))
}

// NextQueuedSong returns the song that should play next: a committed UpNext
// pick outranks any conditional backup.
func (s *State) NextQueuedSong() *core.SessionSong {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, song := range s.queue {
		if song.Status == core.StatusUpNext {
			clone := *song
			return &clone
		}
	}
	for _, song := range s.queue {
		if song.Status == core.StatusQueuedIfSkipped {
			clone := *song
			return &clone
		}
	}
	return nil
}

// DetermineNextQueueStatus returns the status an AI pick should be queued
// with right now. On the user's turn the AI may only stage a backup; on its
// own turn the pick is the committed next track.
func (s *State) DetermineNextQueueStatus() core.QueueStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentTurn == core.TurnUser {
		return core.StatusQueuedIfSkipped
	}
	return core.StatusUpNext
}

// Reset returns the session to its initial state.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = nil
	s.queue = nil
	s.currentTurn = core.TurnUser
	s.aiThinking = false
	s.currentlyPlayingID = ""

	logger.Info("session reset")
}

// advanceTurn is the single place the turn changes. Committing an UpNext or
// Playing song flips the turn away from whoever picked it. Committing a
// backup pick hands the turn back to the user: their turn was used up by
// not acting, so it is immediately theirs again.
func (s *State) advanceTurn(selectedBy core.TurnType, status core.QueueStatus) {
	switch status {
	case core.StatusPlaying, core.StatusUpNext:
		s.currentTurn = selectedBy.Opposite()
	case core.StatusQueuedIfSkipped:
		s.currentTurn = core.TurnUser
	}
}

// markPlayingDone demotes whichever song is currently playing to Played.
func (s *State) markPlayingDone() {
	for _, song := range s.history {
		if song.Status == core.StatusPlaying {
			song.Status = core.StatusPlayed
		}
	}
	s.currentlyPlayingID = ""
}

func newSong(track core.Track, selectedBy core.TurnType, rationale string, status core.QueueStatus) *core.SessionSong {
	return &core.SessionSong{
		ID:         uuid.NewString(),
		Track:      track,
		SelectedBy: selectedBy,
		SelectedAt: time.Now(),
		Rationale:  rationale,
		Status:     status,
	}
}

func copySongs(songs []*core.SessionSong) []core.SessionSong {
	out := make([]core.SessionSong, len(songs))
	for i, song := range songs {
		out[i] = *song
	}
	return out
}

// snapshot is the persisted form of the session.
type snapshot struct {
	History            []core.SessionSong `json:"history"`
	Queue              []core.SessionSong `json:"queue"`
	CurrentTurn        core.TurnType      `json:"current_turn"`
	CurrentlyPlayingID string             `json:"currently_playing_id,omitempty"`
	SavedAt            time.Time          `json:"saved_at"`
}

// Save writes a best-effort snapshot of the session to the store.
func (s *State) Save(store core.Store) error {
	s.mu.Lock()
	snap := snapshot{
		History:            copySongs(s.history),
		Queue:              copySongs(s.queue),
		CurrentTurn:        s.currentTurn,
		CurrentlyPlayingID: s.currentlyPlayingID,
		SavedAt:            time.Now(),
	}
	s.mu.Unlock()

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode session snapshot: %w", err)
	}
	if err := store.Save(snapshotKey, data); err != nil {
		return fmt.Errorf("failed to save session snapshot: %w", err)
	}
	return nil
}

// Restore replaces the session contents with the stored snapshot. A missing
// snapshot leaves the session untouched and returns core.ErrNotFound.
func (s *State) Restore(store core.Store) error {
	data, err := store.Load(snapshotKey)
	if err != nil {
		return err
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to decode session snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = make([]*core.SessionSong, len(snap.History))
	for i := range snap.History {
		song := snap.History[i]
		s.history[i] = &song
	}
	s.queue = make([]*core.SessionSong, len(snap.Queue))
	for i := range snap.Queue {
		song := snap.Queue[i]
		s.queue[i] = &song
	}
	s.currentTurn = snap.CurrentTurn
	s.currentlyPlayingID = snap.CurrentlyPlayingID
	s.aiThinking = false
	return nil
}

// Discard removes any stored snapshot.
func (s *State) Discard(store core.Store) error {
	return store.Delete(snapshotKey)
}
