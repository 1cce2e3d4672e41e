package session

import (
	"context"
	"sync"

	"github.com/tessro/duet/internal/core"
)

type fakeStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string][]byte)}
}

func (s *fakeStore) Load(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return nil, core.ErrNotFound
	}
	return v, nil
}

func (s *fakeStore) Save(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *fakeStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *fakeStore) Close() error { return nil }

// fakeRecommender returns canned recommendations in order, then repeats the
// last one. Errors are returned for attempts whose index is in errAt.
type fakeRecommender struct {
	mu      sync.Mutex
	recs    []core.Recommendation
	errAt   map[int]error
	calls   int
	gotExcl [][]core.Exclusion
}

func (r *fakeRecommender) Recommend(ctx context.Context, personaStyle string, history []core.SessionSong, exclusions []core.Exclusion) (core.Recommendation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	call := r.calls
	r.calls++
	excl := make([]core.Exclusion, len(exclusions))
	copy(excl, exclusions)
	r.gotExcl = append(r.gotExcl, excl)

	if err, ok := r.errAt[call]; ok {
		return core.Recommendation{}, err
	}
	if len(r.recs) == 0 {
		return core.Recommendation{}, nil
	}
	if call >= len(r.recs) {
		return r.recs[len(r.recs)-1], nil
	}
	return r.recs[call], nil
}

func (r *fakeRecommender) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// fakeSearch maps queries to canned results. Unknown queries return the
// default results.
type fakeSearch struct {
	mu      sync.Mutex
	results map[string][]core.Track
	def     []core.Track
	err     error
}

func (s *fakeSearch) SearchTracks(ctx context.Context, query string, limit int) ([]core.Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	if tracks, ok := s.results[query]; ok {
		return tracks, nil
	}
	return s.def, nil
}

// fakeEnqueuer records tracks handed to the player bridge.
type fakeEnqueuer struct {
	mu       sync.Mutex
	enqueued []core.Track
	err      error
}

func (e *fakeEnqueuer) Enqueue(ctx context.Context, track core.Track) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	e.enqueued = append(e.enqueued, track)
	return nil
}

func (e *fakeEnqueuer) tracks() []core.Track {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]core.Track, len(e.enqueued))
	copy(out, e.enqueued)
	return out
}
