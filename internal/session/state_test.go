package session

import (
	"errors"
	"testing"

	"github.com/tessro/duet/internal/core"
)

func track(id, title, artist string) core.Track {
	return core.Track{
		ID:     id,
		URI:    "spotify:track:" + id,
		Title:  title,
		Artist: artist,
	}
}

func countPlaying(s *State) int {
	n := 0
	for _, song := range s.History() {
		if song.Status == core.StatusPlaying {
			n++
		}
	}
	for _, song := range s.Queue() {
		if song.Status == core.StatusPlaying {
			n++
		}
	}
	return n
}

func TestInitialState(t *testing.T) {
	s := NewState()
	if s.CurrentTurn() != core.TurnUser {
		t.Errorf("expected initial turn to be user, got %s", s.CurrentTurn())
	}
	if s.IsAIThinking() {
		t.Error("expected AI thinking to start false")
	}
	if len(s.History()) != 0 || len(s.Queue()) != 0 {
		t.Error("expected empty history and queue")
	}
}

func TestTurnAlternation(t *testing.T) {
	s := NewState()

	// Each committed song flips the turn away from whoever picked it.
	s.AddToHistory(track("1", "A", "X"), core.TurnUser, "", core.StatusPlaying)
	if s.CurrentTurn() != core.TurnAI {
		t.Errorf("after user commit, expected AI turn, got %s", s.CurrentTurn())
	}

	s.AddToHistory(track("2", "B", "Y"), core.TurnAI, "", core.StatusPlaying)
	if s.CurrentTurn() != core.TurnUser {
		t.Errorf("after AI commit, expected user turn, got %s", s.CurrentTurn())
	}

	song := s.QueueSong(track("3", "C", "Z"), core.TurnUser, "", core.StatusUpNext)
	if err := s.MoveQueuedSongToHistory(song.ID); err != nil {
		t.Fatal(err)
	}
	if s.CurrentTurn() != core.TurnAI {
		t.Errorf("after committing user's UpNext pick, expected AI turn, got %s", s.CurrentTurn())
	}
}

func TestQueueDoesNotAdvanceTurn(t *testing.T) {
	s := NewState()

	s.QueueSong(track("1", "A", "X"), core.TurnAI, "", core.StatusQueuedIfSkipped)
	if s.CurrentTurn() != core.TurnUser {
		t.Errorf("enqueue should not change the turn, got %s", s.CurrentTurn())
	}
}

func TestBackupCommitForcesUserTurn(t *testing.T) {
	// Committing a backup pick always hands the turn back to the user,
	// regardless of whose turn it was.
	for _, start := range []core.TurnType{core.TurnUser, core.TurnAI} {
		s := NewState()
		s.currentTurn = start

		song := s.QueueSong(track("1", "A", "X"), core.TurnAI, "", core.StatusQueuedIfSkipped)
		if err := s.MoveQueuedSongToHistory(song.ID); err != nil {
			t.Fatal(err)
		}
		if s.CurrentTurn() != core.TurnUser {
			t.Errorf("starting from %s turn: backup commit should force user turn, got %s",
				start, s.CurrentTurn())
		}
	}
}

func TestAtMostOnePlaying(t *testing.T) {
	s := NewState()

	s.AddToHistory(track("1", "A", "X"), core.TurnUser, "", core.StatusPlaying)
	s.AddToHistory(track("2", "B", "Y"), core.TurnAI, "", core.StatusPlaying)
	song := s.QueueSong(track("3", "C", "Z"), core.TurnUser, "", core.StatusUpNext)
	if err := s.MoveQueuedSongToHistory(song.ID); err != nil {
		t.Fatal(err)
	}

	if got := countPlaying(s); got != 1 {
		t.Errorf("expected exactly 1 playing song, got %d", got)
	}
	playing := s.CurrentlyPlaying()
	if playing == nil || playing.Track.ID != "3" {
		t.Errorf("expected track 3 playing, got %+v", playing)
	}
}

func TestMoveQueuedSongToHistoryRoundTrip(t *testing.T) {
	s := NewState()

	song := s.QueueSong(track("1", "A", "X"), core.TurnUser, "", core.StatusUpNext)
	s.QueueSong(track("2", "B", "Y"), core.TurnAI, "", core.StatusQueuedIfSkipped)

	if err := s.MoveQueuedSongToHistory(song.ID); err != nil {
		t.Fatal(err)
	}

	hist := s.History()
	if len(hist) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(hist))
	}
	if hist[0].Status != core.StatusPlaying {
		t.Errorf("expected committed song to be playing, got %s", hist[0].Status)
	}
	if len(s.Queue()) != 1 {
		t.Errorf("expected unrelated queued song to remain, got %d entries", len(s.Queue()))
	}
}

func TestMoveUnknownSong(t *testing.T) {
	s := NewState()
	err := s.MoveQueuedSongToHistory("nope")
	if !errors.Is(err, ErrSongNotFound) {
		t.Errorf("expected ErrSongNotFound, got %v", err)
	}
}

func TestUpdateCurrentlyPlayingFromQueue(t *testing.T) {
	s := NewState()

	s.QueueSong(track("t1", "A", "X"), core.TurnUser, "", core.StatusUpNext)
	s.UpdateCurrentlyPlaying("t1")

	if len(s.Queue()) != 0 {
		t.Error("expected queue drained")
	}
	playing := s.CurrentlyPlaying()
	if playing == nil || playing.Track.ID != "t1" {
		t.Errorf("expected t1 playing, got %+v", playing)
	}
	if s.CurrentTurn() != core.TurnAI {
		t.Errorf("expected turn advanced to AI, got %s", s.CurrentTurn())
	}
}

func TestUpdateCurrentlyPlayingIdempotent(t *testing.T) {
	s := NewState()

	s.QueueSong(track("t1", "A", "X"), core.TurnUser, "", core.StatusUpNext)
	s.UpdateCurrentlyPlaying("t1")
	turnAfterFirst := s.CurrentTurn()
	histAfterFirst := len(s.History())

	// A repeated report of the same track changes nothing.
	s.UpdateCurrentlyPlaying("t1")
	if s.CurrentTurn() != turnAfterFirst {
		t.Errorf("repeat report changed turn: %s -> %s", turnAfterFirst, s.CurrentTurn())
	}
	if len(s.History()) != histAfterFirst {
		t.Errorf("repeat report changed history length")
	}
	if got := countPlaying(s); got != 1 {
		t.Errorf("expected 1 playing song, got %d", got)
	}
}

func TestUpdateCurrentlyPlayingUnknownTrack(t *testing.T) {
	s := NewState()
	s.QueueSong(track("t1", "A", "X"), core.TurnUser, "", core.StatusUpNext)

	// Unknown ids are ignored. This is the normal case for the first track
	// of a session started over existing playback.
	s.UpdateCurrentlyPlaying("mystery")

	if len(s.Queue()) != 1 || len(s.History()) != 0 {
		t.Error("unknown track report should not change state")
	}
	if s.CurrentTurn() != core.TurnUser {
		t.Errorf("unknown track report should not change turn, got %s", s.CurrentTurn())
	}
}

func TestUpdateCurrentlyPlayingSkipBack(t *testing.T) {
	s := NewState()

	s.AddToHistory(track("t1", "A", "X"), core.TurnUser, "", core.StatusPlaying)
	s.AddToHistory(track("t2", "B", "Y"), core.TurnAI, "", core.StatusPlaying)
	turnBefore := s.CurrentTurn()

	// The user skipped back to an already-played song. The playing marker
	// moves but no turn is consumed.
	s.UpdateCurrentlyPlaying("t1")

	playing := s.CurrentlyPlaying()
	if playing == nil || playing.Track.ID != "t1" {
		t.Errorf("expected t1 playing again, got %+v", playing)
	}
	if got := countPlaying(s); got != 1 {
		t.Errorf("expected 1 playing song, got %d", got)
	}
	if s.CurrentTurn() != turnBefore {
		t.Errorf("skip-back should not change turn: %s -> %s", turnBefore, s.CurrentTurn())
	}
}

func TestNextQueuedSongPriority(t *testing.T) {
	s := NewState()

	s.QueueSong(track("backup", "B", "Y"), core.TurnAI, "", core.StatusQueuedIfSkipped)
	s.QueueSong(track("pick", "A", "X"), core.TurnUser, "", core.StatusUpNext)

	// The committed pick outranks the earlier-queued backup.
	next := s.NextQueuedSong()
	if next == nil || next.Track.ID != "pick" {
		t.Errorf("expected the UpNext pick first, got %+v", next)
	}
}

func TestNextQueuedSongFallsBackToBackup(t *testing.T) {
	s := NewState()
	s.QueueSong(track("backup", "B", "Y"), core.TurnAI, "", core.StatusQueuedIfSkipped)

	next := s.NextQueuedSong()
	if next == nil || next.Track.ID != "backup" {
		t.Errorf("expected the backup pick, got %+v", next)
	}
}

func TestNextQueuedSongEmpty(t *testing.T) {
	s := NewState()
	if next := s.NextQueuedSong(); next != nil {
		t.Errorf("expected nil for empty queue, got %+v", next)
	}
}

func TestDetermineNextQueueStatus(t *testing.T) {
	s := NewState()

	// User's turn: the AI may only stage a backup.
	if got := s.DetermineNextQueueStatus(); got != core.StatusQueuedIfSkipped {
		t.Errorf("on user turn expected QueuedIfSkipped, got %s", got)
	}

	s.AddToHistory(track("1", "A", "X"), core.TurnUser, "", core.StatusPlaying)

	// AI's turn: its pick is the committed next track.
	if got := s.DetermineNextQueueStatus(); got != core.StatusUpNext {
		t.Errorf("on AI turn expected UpNext, got %s", got)
	}
}

func TestReset(t *testing.T) {
	s := NewState()
	s.AddToHistory(track("1", "A", "X"), core.TurnUser, "", core.StatusPlaying)
	s.QueueSong(track("2", "B", "Y"), core.TurnAI, "", core.StatusUpNext)
	s.SetAIThinking(true)

	s.Reset()

	if len(s.History()) != 0 || len(s.Queue()) != 0 {
		t.Error("expected empty history and queue after reset")
	}
	if s.CurrentTurn() != core.TurnUser {
		t.Errorf("expected user turn after reset, got %s", s.CurrentTurn())
	}
	if s.IsAIThinking() {
		t.Error("expected AI thinking cleared after reset")
	}
	if s.CurrentlyPlaying() != nil {
		t.Error("expected nothing playing after reset")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	store := newFakeStore()

	s := NewState()
	s.AddToHistory(track("1", "A", "X"), core.TurnUser, "nice opener", core.StatusPlaying)
	s.QueueSong(track("2", "B", "Y"), core.TurnAI, "keeps the mood", core.StatusUpNext)

	if err := s.Save(store); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	restored := NewState()
	if err := restored.Restore(store); err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	if restored.CurrentTurn() != s.CurrentTurn() {
		t.Errorf("turn not restored: %s != %s", restored.CurrentTurn(), s.CurrentTurn())
	}
	if len(restored.History()) != 1 || len(restored.Queue()) != 1 {
		t.Errorf("collections not restored: %d history, %d queue",
			len(restored.History()), len(restored.Queue()))
	}
	playing := restored.CurrentlyPlaying()
	if playing == nil || playing.Track.ID != "1" {
		t.Errorf("playing marker not restored: %+v", playing)
	}
	if restored.History()[0].Rationale != "nice opener" {
		t.Errorf("rationale not restored")
	}
}

func TestRestoreMissingSnapshot(t *testing.T) {
	s := NewState()
	err := s.Restore(newFakeStore())
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected core.ErrNotFound, got %v", err)
	}
}
