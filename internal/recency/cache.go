// Package recency remembers each persona's recent picks so the AI does not
// immediately repeat itself.
package recency

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tessro/duet/internal/core"
	"github.com/tessro/duet/internal/logger"
)

// DefaultLimit is the per-persona entry cap when none is configured.
const DefaultLimit = 50

// Entry is one remembered pick.
type Entry struct {
	Artist     string    `json:"artist"`
	Title      string    `json:"title"`
	SelectedAt time.Time `json:"selected_at"`
}

// Cache is a per-persona LRU of recent picks. Entries are kept in insertion
// order, oldest first; recording past the limit evicts from the front.
// Mutations persist through the store best-effort.
type Cache struct {
	mu      sync.Mutex
	limit   int
	entries map[string][]Entry
	store   core.Store
}

// New creates a cache with the given per-persona limit. A store of nil
// disables persistence. Limits below 1 fall back to DefaultLimit.
func New(limit int, store core.Store) *Cache {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Cache{
		limit:   limit,
		entries: make(map[string][]Entry),
		store:   store,
	}
}

// Load restores a persona's entries from the store. Lists longer than the
// current limit are trimmed to the newest entries, so a lowered limit takes
// effect retroactively.
func (c *Cache) Load(personaID string) error {
	if c.store == nil {
		return nil
	}

	data, err := c.store.Load(storeKey(personaID))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load recency entries: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to parse recency entries: %w", err)
	}

	if len(entries) > c.limit {
		entries = entries[len(entries)-c.limit:]
	}

	c.mu.Lock()
	c.entries[personaID] = entries
	c.mu.Unlock()
	return nil
}

// Record appends a pick to the persona's list, evicting the oldest entry
// when the list exceeds the limit.
func (c *Cache) Record(personaID, artist, title string) {
	c.mu.Lock()
	entries := append(c.entries[personaID], Entry{
		Artist:     artist,
		Title:      title,
		SelectedAt: time.Now(),
	})
	if len(entries) > c.limit {
		entries = entries[len(entries)-c.limit:]
	}
	c.entries[personaID] = entries
	c.mu.Unlock()

	c.persist(personaID)
}

// Recent returns the persona's current entries, oldest first.
func (c *Cache) Recent(personaID string) []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := c.entries[personaID]
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// Exclusions returns the persona's entries in the form the recommender
// expects.
func (c *Cache) Exclusions(personaID string) []core.Exclusion {
	entries := c.Recent(personaID)
	out := make([]core.Exclusion, len(entries))
	for i, e := range entries {
		out[i] = core.Exclusion{Artist: e.Artist, Title: e.Title}
	}
	return out
}

// Remove deletes the first exact artist/title match from the persona's
// list. Used to undo a recorded pick that a later stage rejected.
func (c *Cache) Remove(personaID, artist, title string) {
	c.mu.Lock()
	entries := c.entries[personaID]
	for i, e := range entries {
		if e.Artist == artist && e.Title == title {
			c.entries[personaID] = append(entries[:i:i], entries[i+1:]...)
			break
		}
	}
	c.mu.Unlock()

	c.persist(personaID)
}

// Clear drops all entries for a persona.
func (c *Cache) Clear(personaID string) {
	c.mu.Lock()
	delete(c.entries, personaID)
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.Delete(storeKey(personaID)); err != nil {
			logger.Warn("failed to clear persisted recency entries",
				logger.String("persona", personaID),
				logger.ErrorField(err))
		}
	}
}

// ClearAll drops all entries for every persona.
func (c *Cache) ClearAll() {
	c.mu.Lock()
	personas := make([]string, 0, len(c.entries))
	for p := range c.entries {
		personas = append(personas, p)
	}
	c.entries = make(map[string][]Entry)
	c.mu.Unlock()

	if c.store != nil {
		for _, p := range personas {
			if err := c.store.Delete(storeKey(p)); err != nil {
				logger.Warn("failed to clear persisted recency entries",
					logger.String("persona", p),
					logger.ErrorField(err))
			}
		}
	}
}

// persist writes the persona's list through the store. Persistence is best
// effort; failures are logged and the in-memory list stays authoritative.
func (c *Cache) persist(personaID string) {
	if c.store == nil {
		return
	}

	c.mu.Lock()
	entries := c.entries[personaID]
	data, err := json.Marshal(entries)
	c.mu.Unlock()

	if err != nil {
		logger.Warn("failed to marshal recency entries",
			logger.String("persona", personaID),
			logger.ErrorField(err))
		return
	}
	if err := c.store.Save(storeKey(personaID), data); err != nil {
		logger.Warn("failed to persist recency entries",
			logger.String("persona", personaID),
			logger.ErrorField(err))
	}
}

func storeKey(personaID string) string {
	return "recency/" + personaID
}
