package match

import (
	"testing"

	"github.com/tessro/duet/internal/core"
)

func track(artist, title string) core.Track {
	return core.Track{
		ID:      artist + "/" + title,
		Title:   title,
		Artist:  artist,
		Artists: []string{artist},
	}
}

func TestNormalizeArtist(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"The Beatles", "beatles"},
		{"Beyoncé", "beyonce"},
		{"Simon & Garfunkel", "simon and garfunkel"},
		{"R.E.M.", "rem"},
		{"Mac DeMarco feat. Someone", "mac demarco"},
		{"Tyler, The Creator", "tyler, the creator"},
		{"  Spaced   Out  ", "spaced out"},
	}
	for _, tt := range tests {
		if got := NormalizeArtist(tt.in); got != tt.want {
			t.Errorf("NormalizeArtist(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Like A Rolling Stone (Remastered)", "like a rolling stone"},
		{"Dreams [2004 Remaster]", "dreams"},
		{"Breathe (In the Air)", "breathe"},
		{"The Chain", "chain"},
		{"Isn’t She Lovely", "isn't she lovely"},
		{"Echoes, Pt. 2", "echoes"},
		{"Moonlight Sonata Part III", "moonlight sonata"},
		{"Encore (feat. Someone)", "encore"},
	}
	for _, tt := range tests {
		if got := NormalizeTitle(tt.in); got != tt.want {
			t.Errorf("NormalizeTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMatchExactAfterNormalization(t *testing.T) {
	m := New()
	rec := core.Recommendation{Artist: "Bob Dylan", Title: "Like a Rolling Stone"}
	candidates := []core.Track{
		track("Bob Dylan", "Like A Rolling Stone (Remastered)"),
		track("Someone Else", "Like a Rolling Stone"),
	}

	result := m.Match(rec, candidates)
	if !result.OK {
		t.Fatal("Match() returned no match, want match")
	}
	if result.Track.Artist != "Bob Dylan" {
		t.Errorf("matched artist = %q, want Bob Dylan", result.Track.Artist)
	}
	if result.Confidence != 1.0 {
		t.Errorf("confidence = %v, want 1.0", result.Confidence)
	}
}

func TestMatchRejectsTitleOnlyMatch(t *testing.T) {
	m := New()

	// Title score alone would clear the total threshold, but the artist
	// shows no overlap at all, so this must be rejected.
	rec := core.Recommendation{Artist: "The Darling Dears", Title: "I Love You"}
	candidates := []core.Track{
		track("Trippie Redd", "I Love You"),
		track("Axwell", "I Love You"),
	}

	result := m.Match(rec, candidates)
	if result.OK {
		t.Errorf("Match() accepted %q by %q, want no match", result.Track.Title, result.Track.Artist)
	}
	if result.Confidence != 0 {
		t.Errorf("confidence = %v, want 0", result.Confidence)
	}
}

func TestMatchPartialBothSides(t *testing.T) {
	m := New()
	rec := core.Recommendation{Artist: "Dylan", Title: "Like a Rolling Stone"}
	candidates := []core.Track{
		track("Bob Dylan", "Like a Rolling Stone"),
	}

	result := m.Match(rec, candidates)
	if !result.OK {
		t.Fatal("Match() returned no match, want partial artist + exact title accepted")
	}
	// artist containment (50) + exact title (100) = 150
	if result.Confidence != 0.75 {
		t.Errorf("confidence = %v, want 0.75", result.Confidence)
	}
}

func TestMatchTwoStagePrefersTopRanked(t *testing.T) {
	m := New()
	rec := core.Recommendation{Artist: "Radiohead", Title: "Karma Police"}
	candidates := []core.Track{
		track("Radiohead", "Karma Police"),
		track("Radiohead Tribute Band", "Karma Police"),
		track("Filler", "Filler"),
		// A later exact match must not displace a qualifying top-3 result.
		track("Radiohead", "Karma Police (Live)"),
	}

	result := m.Match(rec, candidates)
	if !result.OK {
		t.Fatal("Match() returned no match")
	}
	if result.Track.ID != candidates[0].ID {
		t.Errorf("matched %q, want top-ranked candidate", result.Track.ID)
	}
}

func TestMatchFallsBackToFullList(t *testing.T) {
	m := New()
	rec := core.Recommendation{Artist: "Nick Drake", Title: "Pink Moon"}
	candidates := []core.Track{
		track("Cover Collective", "Moon Songs"),
		track("Various Artists", "Pink"),
		track("Nobody", "Nothing"),
		track("Nick Drake", "Pink Moon"),
	}

	result := m.Match(rec, candidates)
	if !result.OK {
		t.Fatal("Match() returned no match, want full-list fallback to find it")
	}
	if result.Track.Artist != "Nick Drake" {
		t.Errorf("matched artist = %q, want Nick Drake", result.Track.Artist)
	}
}

func TestMatchEmptyCandidates(t *testing.T) {
	m := New()
	result := m.Match(core.Recommendation{Artist: "A", Title: "B"}, nil)
	if result.OK {
		t.Error("Match() with no candidates should return no match")
	}
}

func TestMatchMultiArtistCredit(t *testing.T) {
	m := New()
	rec := core.Recommendation{Artist: "Kali Uchis", Title: "After the Storm"}
	candidates := []core.Track{
		{
			ID:      "x",
			Title:   "After the Storm",
			Artist:  "Tyler, The Creator",
			Artists: []string{"Tyler, The Creator", "Kali Uchis", "Bootsy Collins"},
		},
	}

	result := m.Match(rec, candidates)
	if !result.OK {
		t.Fatal("Match() should credit any listed artist")
	}
	if result.Confidence != 1.0 {
		t.Errorf("confidence = %v, want 1.0", result.Confidence)
	}
}
