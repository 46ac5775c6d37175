package interaction

import (
	"context"
	"sync"
	"time"

	"github.com/venturematch/venturematch/internal/domain"
)

// fakeStore is an in-memory Store so state machine tests can run whole
// like/block/unblock sequences. The mutex serializes individual operations
// the way the real store does, so concurrency tests see realistic
// interleavings.
type fakeStore struct {
	mu      sync.Mutex
	kinds   map[[2]string]domain.Kind
	matches map[[2]string]domain.Match

	recordErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		kinds:   map[[2]string]domain.Kind{},
		matches: map[[2]string]domain.Match{},
	}
}

func (f *fakeStore) Record(_ context.Context, actor, target string, kind domain.Kind, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recordErr != nil {
		return f.recordErr
	}
	f.kinds[[2]string{actor, target}] = kind
	return nil
}

func (f *fakeStore) Delete(_ context.Context, actor, target string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.kinds, [2]string{actor, target})
	return nil
}

func (f *fakeStore) GetKind(_ context.Context, actor, target string) (domain.Kind, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kind, ok := f.kinds[[2]string{actor, target}]
	return kind, ok, nil
}

func (f *fakeStore) PairBlocked(_ context.Context, userA, userB string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.kinds[[2]string{userA, userB}] == domain.KindBlock ||
		f.kinds[[2]string{userB, userA}] == domain.KindBlock, nil
}

func (f *fakeStore) HasMutualLike(_ context.Context, userA, userB string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.kinds[[2]string{userA, userB}] == domain.KindLike &&
		f.kinds[[2]string{userB, userA}] == domain.KindLike, nil
}

func (f *fakeStore) CreateMatch(_ context.Context, userA, userB string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, b := domain.CanonicalPair(userA, userB)
	if _, ok := f.matches[[2]string{a, b}]; ok {
		return false, nil
	}
	f.matches[[2]string{a, b}] = domain.Match{UserA: a, UserB: b, CreatedAt: at}
	return true, nil
}

func (f *fakeStore) ListMatches(_ context.Context, userID string) ([]domain.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Match
	for _, m := range f.matches {
		if m.UserA == userID || m.UserB == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeStore) ListBlockedBy(_ context.Context, userID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for pair, kind := range f.kinds {
		if kind == domain.KindBlock && pair[1] == userID {
			out = append(out, pair[0])
		}
	}
	return out, nil
}

func (f *fakeStore) ListLikedBy(_ context.Context, userID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for pair, kind := range f.kinds {
		if kind == domain.KindLike && pair[1] == userID {
			out = append(out, pair[0])
		}
	}
	return out, nil
}

func (f *fakeStore) ListInteractions(_ context.Context, actor string) (map[string]domain.Kind, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]domain.Kind{}
	for pair, kind := range f.kinds {
		if pair[0] == actor {
			out[pair[1]] = kind
		}
	}
	return out, nil
}

// matchCount reports the number of stored match rows.
func (f *fakeStore) matchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.matches)
}

type fakeProfiles struct {
	profiles map[string]domain.Profile
}

func (f *fakeProfiles) Exists(_ context.Context, userID string) (bool, error) {
	_, ok := f.profiles[userID]
	return ok, nil
}

func (f *fakeProfiles) GetMulti(_ context.Context, userIDs []string) (map[string]domain.Profile, error) {
	out := map[string]domain.Profile{}
	for _, id := range userIDs {
		if p, ok := f.profiles[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type fixture struct {
	store    *fakeStore
	profiles *fakeProfiles
	clock    time.Time
}

func newFixture(users ...string) *fixture {
	profiles := map[string]domain.Profile{}
	for _, u := range users {
		profiles[u] = domain.Profile{UserID: u, DisplayName: u}
	}
	return &fixture{
		store:    newFakeStore(),
		profiles: &fakeProfiles{profiles: profiles},
		clock:    time.UnixMilli(1700000000000),
	}
}

func (f *fixture) service(blockHidesMatches bool) *Service {
	s := NewService(f.store, f.profiles, blockHidesMatches)
	s.now = func() time.Time {
		f.clock = f.clock.Add(time.Second)
		return f.clock
	}
	return s
}
