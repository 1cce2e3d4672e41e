package cli

import (
	"fmt"
	"os"
	"time"

	duetErrors "github.com/tessro/duet/internal/errors"
	"github.com/tessro/duet/internal/playersync"
	"github.com/tessro/duet/internal/recency"
	"github.com/tessro/duet/internal/recommend"
	"github.com/tessro/duet/internal/session"
	"github.com/tessro/duet/internal/spotify/auth"
	"github.com/tessro/duet/internal/spotify/client"
	"github.com/tessro/duet/internal/spotify/player"
	"github.com/tessro/duet/internal/storage"
)

// defaultPersonaID keys the recency cache. One persona per config for now.
const defaultPersonaID = "default"

// app bundles everything a session command needs.
type app struct {
	client       *client.Client
	player       *player.Player
	search       *player.Search
	store        *storage.Store
	state        *session.State
	cache        *recency.Cache
	sync         *playersync.Synchronizer
	orchestrator *session.Orchestrator
}

// newSpotifyClient builds an authenticated Spotify client or fails with a
// suggestion to log in.
func newSpotifyClient() (*client.Client, error) {
	if cfg.Spotify.ClientID == "" {
		return nil, fmt.Errorf("spotify.client_id not configured. Set it in ~/.duetrc or via DUET_SPOTIFY_CLIENT_ID")
	}

	tokenStorage, err := auth.NewTokenStorage("")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token storage: %w", err)
	}

	c := client.New(cfg.Spotify.ClientID, tokenStorage)
	if Verbose() {
		c.SetVerbose(true, func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		})
	}
	if err := c.LoadToken(); err != nil {
		return nil, duetErrors.ErrNotAuthenticated
	}
	return c, nil
}

// newApp wires a full session stack: Spotify client, storage, recency
// cache, synchronizer, and orchestrator. Call close when done.
func newApp() (*app, error) {
	c, err := newSpotifyClient()
	if err != nil {
		return nil, err
	}

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	recommender, err := recommend.New(recommend.Options{
		APIKey:      apiKey,
		BaseURL:     cfg.AI.BaseURL,
		Model:       cfg.AI.Model,
		Temperature: float32(cfg.AI.Temperature),
	})
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.StoragePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	p := player.New(c)
	if cfg.Spotify.Device != "" {
		p.SetDevice(cfg.Spotify.Device)
	}
	search := player.NewSearch(c)

	sync := playersync.New(p,
		playersync.WithPollInterval(time.Duration(cfg.Session.EnqueueInterval)*time.Millisecond),
		playersync.WithResolveTimeout(time.Duration(cfg.Session.EnqueueTimeout)*time.Second))

	cache := recency.New(cfg.Session.RecencyLimit, store)
	if err := cache.Load(defaultPersonaID); err != nil {
		store.Close()
		return nil, err
	}

	state := session.NewState()
	orchestrator := session.NewOrchestrator(state, cache, recommender, search, sync, session.OrchestratorOptions{
		PersonaID:    defaultPersonaID,
		PersonaStyle: cfg.AI.Persona,
		MaxAttempts:  cfg.AI.MaxAttempts,
		SearchLimit:  cfg.Session.SearchLimit,
		Store:        store,
	})

	return &app{
		client:       c,
		player:       p,
		search:       search,
		store:        store,
		state:        state,
		cache:        cache,
		sync:         sync,
		orchestrator: orchestrator,
	}, nil
}

// restore loads the previous session snapshot if one exists.
func (a *app) restore() bool {
	if err := a.state.Restore(a.store); err != nil {
		return false
	}
	return true
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to close storage: %v\n", err)
	}
}
