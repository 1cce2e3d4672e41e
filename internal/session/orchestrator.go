package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/tessro/duet/internal/core"
	duetErrors "github.com/tessro/duet/internal/errors"
	"github.com/tessro/duet/internal/logger"
	"github.com/tessro/duet/internal/match"
	"github.com/tessro/duet/internal/recency"
	"github.com/tessro/duet/internal/retry"
)

// Enqueuer pushes a track into the external player queue. Implemented by
// playersync.Synchronizer.
type Enqueuer interface {
	Enqueue(ctx context.Context, track core.Track) error
}

// OrchestratorOptions configures an Orchestrator.
type OrchestratorOptions struct {
	PersonaID    string
	PersonaStyle string
	MaxAttempts  int
	SearchLimit  int

	// Store, when set, receives a session snapshot after every committed
	// mutation. Best effort.
	Store core.Store
}

// Orchestrator drives one full turn cycle: it accepts the user's picks,
// runs the AI selection pipeline when the AI owes a track, and feeds both
// into the session state and the player queue.
type Orchestrator struct {
	state       *State
	recency     *recency.Cache
	recommender core.Recommender
	search      core.CatalogSearch
	matcher     *match.Matcher
	enqueuer    Enqueuer

	opts OrchestratorOptions

	mu         sync.Mutex
	pending    map[string]bool
	generation uint64
}

// selection is the result of one AI pick attempt.
type selection struct {
	track core.Track
	rec   core.Recommendation
}

// NewOrchestrator wires the session components together.
func NewOrchestrator(state *State, cache *recency.Cache, recommender core.Recommender, search core.CatalogSearch, enqueuer Enqueuer, opts OrchestratorOptions) *Orchestrator {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 3
	}
	if opts.SearchLimit < 1 {
		opts.SearchLimit = 10
	}
	return &Orchestrator{
		state:       state,
		recency:     cache,
		recommender: recommender,
		search:      search,
		matcher:     match.New(),
		enqueuer:    enqueuer,
		opts:        opts,
		pending:     make(map[string]bool),
	}
}

// State exposes the underlying session state for read access.
func (o *Orchestrator) State() *State {
	return o.state
}

// RequestUserTurn queues the user's pick as the committed next track and
// pushes it to the player. Fails if it is not the user's turn.
func (o *Orchestrator) RequestUserTurn(ctx context.Context, track core.Track) error {
	if o.state.CurrentTurn() != core.TurnUser {
		return duetErrors.ErrNotYourTurn
	}

	song := o.state.QueueSong(track, core.TurnUser, "", core.StatusUpNext)
	if err := o.enqueuer.Enqueue(ctx, track); err != nil {
		// The pick stays queued; playback will lag until the queue is
		// rebuilt, but the session itself is still consistent.
		logger.Warn("failed to push user pick to player",
			logger.String("title", track.Title),
			logger.ErrorField(err))
		o.snapshot()
		return fmt.Errorf("failed to queue %q: %w", track.Title, err)
	}

	logger.Info("user picked a track",
		logger.String("title", track.Title),
		logger.String("artist", track.Artist),
		logger.String("song_id", song.ID))
	o.snapshot()
	return nil
}

// RequestAITurnIfDue runs one AI selection if the AI owes a track: a
// committed pick on its own turn, or a backup pick staged behind the user's
// turn. At most one selection per persona runs at a time; a request made
// while one is in flight returns ErrSelectionPending and is otherwise
// dropped. The call blocks through the retry loop; run it from a goroutine
// when the caller must stay responsive.
func (o *Orchestrator) RequestAITurnIfDue(ctx context.Context) error {
	// The AI owes at most one pending pick at a time.
	for _, song := range o.state.Queue() {
		if song.SelectedBy == core.TurnAI {
			return nil
		}
	}

	o.mu.Lock()
	if o.pending[o.opts.PersonaID] {
		o.mu.Unlock()
		return duetErrors.ErrSelectionPending
	}
	o.pending[o.opts.PersonaID] = true
	generation := o.generation
	o.mu.Unlock()

	o.state.SetAIThinking(true)
	defer func() {
		o.mu.Lock()
		delete(o.pending, o.opts.PersonaID)
		o.mu.Unlock()
		o.state.SetAIThinking(false)
	}()

	sel, ok, err := o.selectSong(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", duetErrors.ErrSelectionFailed, err)
	}
	if !ok {
		logger.Warn("no usable recommendation after retries",
			logger.String("persona", o.opts.PersonaID),
			logger.Int("attempts", o.opts.MaxAttempts))
		return duetErrors.ErrSelectionFailed
	}

	// A reset while the selection was in flight makes the result stale.
	o.mu.Lock()
	stale := generation != o.generation
	o.mu.Unlock()
	if stale {
		logger.Debug("discarding stale AI selection",
			logger.String("title", sel.track.Title))
		o.recency.Remove(o.opts.PersonaID, sel.rec.Artist, sel.rec.Title)
		return nil
	}

	status := o.state.DetermineNextQueueStatus()
	song := o.state.QueueSong(sel.track, core.TurnAI, sel.rec.Rationale, status)
	if err := o.enqueuer.Enqueue(ctx, sel.track); err != nil {
		logger.Warn("failed to push AI pick to player",
			logger.String("title", sel.track.Title),
			logger.ErrorField(err))
		o.snapshot()
		return fmt.Errorf("failed to queue %q: %w", sel.track.Title, err)
	}

	logger.Info("AI picked a track",
		logger.String("title", sel.track.Title),
		logger.String("artist", sel.track.Artist),
		logger.String("status", string(status)),
		logger.String("song_id", song.ID))
	o.snapshot()
	return nil
}

// selectSong runs the recommend, search, match pipeline under bounded
// retry. Unusable results (no recommendation, empty search, no confident
// match) trigger another attempt with a widened exclusion set; only the
// final attempt's error surfaces.
func (o *Orchestrator) selectSong(ctx context.Context) (selection, bool, error) {
	exclusions := o.recency.Exclusions(o.opts.PersonaID)

	attempt := func(ctx context.Context) (selection, bool, error) {
		rec, err := o.recommender.Recommend(ctx, o.opts.PersonaStyle, o.state.History(), exclusions)
		if err != nil {
			return selection{}, false, err
		}
		if rec.Artist == "" || rec.Title == "" {
			logger.Debug("recommendation missing artist or title")
			return selection{}, false, nil
		}

		// Record the pick immediately so a concurrent session does not
		// hand the same persona the same idea. Undone below on rejection.
		o.recency.Record(o.opts.PersonaID, rec.Artist, rec.Title)

		reject := func(reason string) {
			logger.Debug("rejecting recommendation",
				logger.String("artist", rec.Artist),
				logger.String("title", rec.Title),
				logger.String("reason", reason))
			o.recency.Remove(o.opts.PersonaID, rec.Artist, rec.Title)
			exclusions = append(exclusions, core.Exclusion{Artist: rec.Artist, Title: rec.Title})
		}

		query := fmt.Sprintf("%s %s", rec.Artist, rec.Title)
		candidates, err := o.search.SearchTracks(ctx, query, o.opts.SearchLimit)
		if err != nil {
			o.recency.Remove(o.opts.PersonaID, rec.Artist, rec.Title)
			return selection{}, false, err
		}
		if len(candidates) == 0 {
			reject("no search results")
			return selection{}, false, nil
		}

		result := o.matcher.Match(rec, candidates)
		if !result.OK {
			reject("no confident match")
			return selection{}, false, nil
		}

		logger.Debug("matched recommendation",
			logger.String("title", result.Track.Title),
			logger.String("artist", result.Track.Artist),
			logger.Any("confidence", result.Confidence))
		return selection{track: result.Track, rec: rec}, true, nil
	}

	return retry.Execute(ctx, retry.Config[selection]{
		Op:          attempt,
		MaxAttempts: o.opts.MaxAttempts,
		OnRetry: func(attempt int) {
			logger.Debug("retrying AI selection",
				logger.Int("attempt", attempt),
				logger.String("persona", o.opts.PersonaID))
		},
	})
}

// HandleAdvance reconciles an external "now playing" report into session
// state. It is the sole path by which player progress becomes turn state.
func (o *Orchestrator) HandleAdvance(trackID string) {
	o.state.UpdateCurrentlyPlaying(trackID)
	o.snapshot()
}

// Reset clears the session. Any in-flight AI selection keeps running but
// its result is discarded when it lands.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	o.generation++
	o.mu.Unlock()

	o.state.Reset()
	if o.opts.Store != nil {
		if err := o.state.Discard(o.opts.Store); err != nil {
			logger.Warn("failed to discard session snapshot", logger.ErrorField(err))
		}
	}
}

// snapshot persists the session best-effort.
func (o *Orchestrator) snapshot() {
	if o.opts.Store == nil {
		return
	}
	if err := o.state.Save(o.opts.Store); err != nil {
		logger.Warn("failed to save session snapshot", logger.ErrorField(err))
	}
}
