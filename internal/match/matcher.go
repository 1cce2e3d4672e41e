// Package match resolves a free-text track recommendation against ranked
// catalog search results.
package match

import (
	"strings"

	"github.com/tessro/duet/internal/core"
)

const (
	scoreExact       = 100
	scoreContains    = 50
	scoreContainedIn = 25

	// A candidate is accepted when its combined score clears this and both
	// sides show at least a partial match. Requiring both prevents the
	// classic false positive: a title like "I Love You" matching across
	// unrelated artists.
	acceptTotal   = 100
	acceptPartial = 25

	// maxTotal is a perfect artist + title match.
	maxTotal = 200

	// topRanked is how many of the catalog's own top results the first
	// matching stage considers.
	topRanked = 3
)

// Result is the outcome of matching a recommendation against candidates.
type Result struct {
	Track      core.Track
	Confidence float64
	OK         bool
}

// candidate scores one catalog track against the recommendation.
type candidate struct {
	track       core.Track
	artistScore int
	titleScore  int
}

func (c candidate) total() int {
	return c.artistScore + c.titleScore
}

func (c candidate) qualifies() bool {
	return c.total() >= acceptTotal &&
		c.artistScore >= acceptPartial &&
		c.titleScore >= acceptPartial
}

// Matcher scores catalog candidates against AI recommendations.
type Matcher struct{}

// New creates a Matcher.
func New() *Matcher {
	return &Matcher{}
}

// Match finds the candidate that best matches the recommendation.
//
// Candidates must arrive in the catalog's own relevance order. Matching runs
// in two stages: first only the top-ranked candidates are scored, and only
// if none qualifies is the full list scored. A no-match result means the
// caller should ask for a different recommendation, not fall back to the
// first search result.
func (m *Matcher) Match(rec core.Recommendation, candidates []core.Track) Result {
	if len(candidates) == 0 {
		return Result{}
	}

	wantArtist := NormalizeArtist(rec.Artist)
	wantTitle := NormalizeTitle(rec.Title)

	head := candidates
	if len(head) > topRanked {
		head = head[:topRanked]
	}
	if r, ok := bestQualifying(wantArtist, wantTitle, head); ok {
		return r
	}
	if len(candidates) > topRanked {
		if r, ok := bestQualifying(wantArtist, wantTitle, candidates); ok {
			return r
		}
	}
	return Result{}
}

func bestQualifying(wantArtist, wantTitle string, tracks []core.Track) (Result, bool) {
	var best candidate
	found := false

	for _, t := range tracks {
		c := score(wantArtist, wantTitle, t)
		if !c.qualifies() {
			continue
		}
		if !found || c.total() > best.total() {
			best = c
			found = true
		}
	}

	if !found {
		return Result{}, false
	}
	return Result{
		Track:      best.track,
		Confidence: float64(best.total()) / maxTotal,
		OK:         true,
	}, true
}

func score(wantArtist, wantTitle string, t core.Track) candidate {
	c := candidate{track: t}
	c.titleScore = scoreField(wantTitle, NormalizeTitle(t.Title))

	// A track may credit several artists; take the best-scoring one.
	artists := t.Artists
	if len(artists) == 0 && t.Artist != "" {
		artists = []string{t.Artist}
	}
	for _, a := range artists {
		if s := scoreField(wantArtist, NormalizeArtist(a)); s > c.artistScore {
			c.artistScore = s
		}
	}
	return c
}

// scoreField compares a normalized wanted value against a normalized
// candidate value.
func scoreField(want, got string) int {
	if want == "" || got == "" {
		return 0
	}
	switch {
	case want == got:
		return scoreExact
	case strings.Contains(got, want):
		return scoreContains
	case strings.Contains(want, got):
		return scoreContainedIn
	default:
		return 0
	}
}
