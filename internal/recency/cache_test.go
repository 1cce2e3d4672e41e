package recency

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/tessro/duet/internal/core"
)

type fakeStore struct {
	data map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string][]byte)}
}

func (s *fakeStore) Load(key string) ([]byte, error) {
	v, ok := s.data[key]
	if !ok {
		return nil, core.ErrNotFound
	}
	return v, nil
}

func (s *fakeStore) Save(key string, value []byte) error {
	s.data[key] = value
	return nil
}

func (s *fakeStore) Delete(key string) error {
	delete(s.data, key)
	return nil
}

func (s *fakeStore) Close() error { return nil }

func TestRecordAndRecent(t *testing.T) {
	c := New(10, nil)
	c.Record("jazz", "Miles Davis", "So What")
	c.Record("jazz", "John Coltrane", "Giant Steps")

	got := c.Recent("jazz")
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Artist != "Miles Davis" || got[1].Artist != "John Coltrane" {
		t.Errorf("entries out of order: %v", got)
	}
}

func TestRecordEvictsOldest(t *testing.T) {
	c := New(3, nil)
	for i := 0; i < 5; i++ {
		c.Record("p", "Artist", fmt.Sprintf("Song %d", i))
	}

	got := c.Recent("p")
	if len(got) != 3 {
		t.Fatalf("expected 3 entries after eviction, got %d", len(got))
	}
	if got[0].Title != "Song 2" || got[2].Title != "Song 4" {
		t.Errorf("wrong entries survived eviction: %v", got)
	}
}

func TestPersonasAreIndependent(t *testing.T) {
	c := New(10, nil)
	c.Record("a", "Artist A", "Song A")
	c.Record("b", "Artist B", "Song B")

	if len(c.Recent("a")) != 1 || len(c.Recent("b")) != 1 {
		t.Errorf("personas should not share entries")
	}
	if c.Recent("a")[0].Artist != "Artist A" {
		t.Errorf("persona a got wrong entry: %v", c.Recent("a"))
	}
}

func TestRemove(t *testing.T) {
	c := New(10, nil)
	c.Record("p", "Artist", "Keep Me")
	c.Record("p", "Artist", "Drop Me")
	c.Record("p", "Artist", "Keep Me Too")

	c.Remove("p", "Artist", "Drop Me")

	got := c.Recent("p")
	if len(got) != 2 {
		t.Fatalf("expected 2 entries after remove, got %d", len(got))
	}
	if got[0].Title != "Keep Me" || got[1].Title != "Keep Me Too" {
		t.Errorf("wrong entries after remove: %v", got)
	}

	// Removing something absent is a no-op.
	c.Remove("p", "Artist", "Never Existed")
	if len(c.Recent("p")) != 2 {
		t.Errorf("remove of absent entry changed the list")
	}
}

func TestExclusions(t *testing.T) {
	c := New(10, nil)
	c.Record("p", "Radiohead", "Weird Fishes")

	excl := c.Exclusions("p")
	if len(excl) != 1 {
		t.Fatalf("expected 1 exclusion, got %d", len(excl))
	}
	if excl[0].Artist != "Radiohead" || excl[0].Title != "Weird Fishes" {
		t.Errorf("unexpected exclusion: %v", excl[0])
	}
}

func TestClear(t *testing.T) {
	store := newFakeStore()
	c := New(10, store)
	c.Record("p", "Artist", "Song")
	c.Record("q", "Artist", "Song")

	c.Clear("p")
	if len(c.Recent("p")) != 0 {
		t.Errorf("expected persona p cleared")
	}
	if len(c.Recent("q")) != 1 {
		t.Errorf("clear should not touch other personas")
	}
	if _, err := store.Load(storeKey("p")); err != core.ErrNotFound {
		t.Errorf("expected persisted entries deleted, got err=%v", err)
	}

	c.ClearAll()
	if len(c.Recent("q")) != 0 {
		t.Errorf("expected all personas cleared")
	}
}

func TestPersistAndLoad(t *testing.T) {
	store := newFakeStore()

	c := New(10, store)
	c.Record("p", "Nina Simone", "Feeling Good")
	c.Record("p", "Etta James", "At Last")

	// A fresh cache backed by the same store sees the entries.
	c2 := New(10, store)
	if err := c2.Load("p"); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	got := c2.Recent("p")
	if len(got) != 2 {
		t.Fatalf("expected 2 loaded entries, got %d", len(got))
	}
	if got[0].Artist != "Nina Simone" || got[1].Artist != "Etta James" {
		t.Errorf("loaded entries out of order: %v", got)
	}
}

func TestLoadTrimsToLimit(t *testing.T) {
	store := newFakeStore()

	entries := make([]Entry, 5)
	for i := range entries {
		entries[i] = Entry{
			Artist:     "Artist",
			Title:      fmt.Sprintf("Song %d", i),
			SelectedAt: time.Now(),
		}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save(storeKey("p"), data); err != nil {
		t.Fatal(err)
	}

	// A lowered limit trims retroactively, keeping the newest entries.
	c := New(2, store)
	if err := c.Load("p"); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	got := c.Recent("p")
	if len(got) != 2 {
		t.Fatalf("expected 2 entries after trim, got %d", len(got))
	}
	if got[0].Title != "Song 3" || got[1].Title != "Song 4" {
		t.Errorf("wrong entries survived trim: %v", got)
	}
}

func TestLoadMissingPersona(t *testing.T) {
	c := New(10, newFakeStore())
	if err := c.Load("nobody"); err != nil {
		t.Errorf("load of missing persona should be a no-op, got %v", err)
	}
	if len(c.Recent("nobody")) != 0 {
		t.Errorf("expected no entries")
	}
}

func TestDefaultLimit(t *testing.T) {
	c := New(0, nil)
	for i := 0; i < DefaultLimit+10; i++ {
		c.Record("p", "Artist", fmt.Sprintf("Song %d", i))
	}
	if got := len(c.Recent("p")); got != DefaultLimit {
		t.Errorf("expected %d entries, got %d", DefaultLimit, got)
	}
}
