package storage

import (
	"errors"
	"testing"

	"github.com/tessro/duet/internal/core"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndLoad(t *testing.T) {
	s := openTestStore(t)

	if err := s.Save("session/current", []byte(`{"turn":"user"}`)); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := s.Load("session/current")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if string(got) != `{"turn":"user"}` {
		t.Errorf("loaded wrong value: %s", got)
	}
}

func TestSaveOverwrites(t *testing.T) {
	s := openTestStore(t)

	if err := s.Save("k", []byte("old")); err != nil {
		t.Fatal(err)
	}
	if err := s.Save("k", []byte("new")); err != nil {
		t.Fatal(err)
	}

	got, err := s.Load("k")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new" {
		t.Errorf("expected overwritten value, got %s", got)
	}
}

func TestLoadMissingKey(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Load("nope")
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected core.ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)

	if err := s.Save("k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("k"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := s.Load("k"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected key gone, got err=%v", err)
	}

	// Deleting a missing key is fine.
	if err := s.Delete("never-existed"); err != nil {
		t.Errorf("delete of missing key should not error: %v", err)
	}
}

func TestPersistentStore(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	if err := s.Save("k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	// Reopen and verify the value survived.
	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer s2.Close()

	got, err := s2.Load("k")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "v" {
		t.Errorf("value did not survive reopen: %s", got)
	}
}
