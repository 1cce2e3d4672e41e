package auth

import (
	"path/filepath"
	"testing"
	"time"
)

func TestTokenStorage(t *testing.T) {
	tmpDir := t.TempDir()
	tokenPath := filepath.Join(tmpDir, "token.json")

	storage, err := NewTokenStorage(tokenPath)
	if err != nil {
		t.Fatalf("NewTokenStorage() error = %v", err)
	}

	if storage.Exists() {
		t.Error("Exists() = true, want false for new storage")
	}

	// Load should return nil for non-existent token
	token, err := storage.Load()
	if err != nil {
		t.Errorf("Load() error = %v", err)
	}
	if token != nil {
		t.Error("Load() should return nil for non-existent token")
	}

	testToken := &Token{
		AccessToken:  "access_123",
		TokenType:    "Bearer",
		Scope:        "user-read-playback-state",
		ExpiresIn:    3600,
		RefreshToken: "refresh_456",
		ExpiresAt:    time.Now().Add(1 * time.Hour),
	}

	if err := storage.Save(testToken); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if !storage.Exists() {
		t.Error("Exists() = false after save, want true")
	}

	loaded, err := storage.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.AccessToken != testToken.AccessToken {
		t.Errorf("AccessToken = %q, want %q", loaded.AccessToken, testToken.AccessToken)
	}
	if loaded.RefreshToken != testToken.RefreshToken {
		t.Errorf("RefreshToken = %q, want %q", loaded.RefreshToken, testToken.RefreshToken)
	}

	if err := storage.Delete(); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if storage.Exists() {
		t.Error("Exists() = true after delete, want false")
	}

	// Deleting again should not error
	if err := storage.Delete(); err != nil {
		t.Errorf("Delete() on missing file error = %v", err)
	}
}

func TestTokenIsExpired(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"future", time.Now().Add(1 * time.Hour), false},
		{"past", time.Now().Add(-1 * time.Hour), true},
		{"within buffer", time.Now().Add(30 * time.Second), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := &Token{ExpiresAt: tt.expiresAt}
			if got := tok.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}
