package httpapi

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/venturematch/venturematch/internal/domain"
	discoveryuc "github.com/venturematch/venturematch/internal/usecase/discovery"
	embeddinguc "github.com/venturematch/venturematch/internal/usecase/embedding"
	healthuc "github.com/venturematch/venturematch/internal/usecase/health"
	interactionuc "github.com/venturematch/venturematch/internal/usecase/interaction"
	profileuc "github.com/venturematch/venturematch/internal/usecase/profile"
	settingsuc "github.com/venturematch/venturematch/internal/usecase/settings"
)

// memBackend is a single in-memory implementation of every repository
// interface the use case services consume, so handler tests can run whole
// user journeys against a real service stack.
type memBackend struct {
	embs     map[string]domain.Embedding
	owners   map[string]string
	kinds    map[[2]string]domain.Kind
	matches  map[[2]string]domain.Match
	settings map[string]domain.Settings
	seen     map[string]map[string]bool
	profiles map[string]domain.Profile
}

func newMemBackend() *memBackend {
	return &memBackend{
		embs:     map[string]domain.Embedding{},
		owners:   map[string]string{},
		kinds:    map[[2]string]domain.Kind{},
		matches:  map[[2]string]domain.Match{},
		settings: map[string]domain.Settings{},
		seen:     map[string]map[string]bool{},
		profiles: map[string]domain.Profile{},
	}
}

func embKey(t domain.EntityType, id string) string { return string(t) + "|" + id }

func (b *memBackend) Upsert(_ context.Context, emb domain.Embedding) error {
	b.embs[embKey(emb.EntityType, emb.EntityID)] = emb
	b.owners[emb.UserID+"|"+string(emb.EntityType)] = emb.EntityID
	return nil
}

func (b *memBackend) GetCurrentForOwner(_ context.Context, userID string, t domain.EntityType) (domain.Embedding, error) {
	id, ok := b.owners[userID+"|"+string(t)]
	if !ok {
		return domain.Embedding{}, domain.ErrNotFound
	}
	emb, ok := b.embs[embKey(t, id)]
	if !ok {
		return domain.Embedding{}, domain.ErrNotFound
	}
	return emb, nil
}

func (b *memBackend) ListCurrent(_ context.Context, t domain.EntityType) ([]domain.Embedding, error) {
	var out []domain.Embedding
	for _, emb := range b.embs {
		if emb.EntityType == t {
			out = append(out, emb)
		}
	}
	return out, nil
}

func (b *memBackend) Record(_ context.Context, actor, target string, kind domain.Kind, _ time.Time) error {
	b.kinds[[2]string{actor, target}] = kind
	return nil
}

func (b *memBackend) Delete(_ context.Context, actor, target string) error {
	delete(b.kinds, [2]string{actor, target})
	return nil
}

func (b *memBackend) GetKind(_ context.Context, actor, target string) (domain.Kind, bool, error) {
	kind, ok := b.kinds[[2]string{actor, target}]
	return kind, ok, nil
}

func (b *memBackend) PairBlocked(_ context.Context, userA, userB string) (bool, error) {
	return b.kinds[[2]string{userA, userB}] == domain.KindBlock ||
		b.kinds[[2]string{userB, userA}] == domain.KindBlock, nil
}

func (b *memBackend) HasMutualLike(_ context.Context, userA, userB string) (bool, error) {
	return b.kinds[[2]string{userA, userB}] == domain.KindLike &&
		b.kinds[[2]string{userB, userA}] == domain.KindLike, nil
}

func (b *memBackend) CreateMatch(_ context.Context, userA, userB string, at time.Time) (bool, error) {
	a, c := domain.CanonicalPair(userA, userB)
	if _, ok := b.matches[[2]string{a, c}]; ok {
		return false, nil
	}
	b.matches[[2]string{a, c}] = domain.Match{UserA: a, UserB: c, CreatedAt: at}
	return true, nil
}

func (b *memBackend) ListMatches(_ context.Context, userID string) ([]domain.Match, error) {
	var out []domain.Match
	for _, m := range b.matches {
		if m.UserA == userID || m.UserB == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (b *memBackend) ListBlockedBy(_ context.Context, userID string) ([]string, error) {
	var out []string
	for pair, kind := range b.kinds {
		if kind == domain.KindBlock && pair[1] == userID {
			out = append(out, pair[0])
		}
	}
	return out, nil
}

func (b *memBackend) ListLikedBy(_ context.Context, userID string) ([]string, error) {
	var out []string
	for pair, kind := range b.kinds {
		if kind == domain.KindLike && pair[1] == userID {
			out = append(out, pair[0])
		}
	}
	return out, nil
}

func (b *memBackend) ListInteractions(_ context.Context, actor string) (map[string]domain.Kind, error) {
	out := map[string]domain.Kind{}
	for pair, kind := range b.kinds {
		if pair[0] == actor {
			out[pair[1]] = kind
		}
	}
	return out, nil
}

func (b *memBackend) Get(_ context.Context, userID string) (domain.Settings, error) {
	if s, ok := b.settings[userID]; ok {
		return s, nil
	}
	return domain.DefaultSettings(userID), nil
}

func (b *memBackend) Put(_ context.Context, s domain.Settings) error {
	b.settings[s.UserID] = s
	return nil
}

func (b *memBackend) Mark(_ context.Context, viewerID, viewedID string, _ time.Time) error {
	if b.seen[viewerID] == nil {
		b.seen[viewerID] = map[string]bool{}
	}
	b.seen[viewerID][viewedID] = true
	return nil
}

func (b *memBackend) List(_ context.Context, viewerID string) ([]string, error) {
	var out []string
	for id := range b.seen[viewerID] {
		out = append(out, id)
	}
	return out, nil
}

// profileStore adapts memBackend to the profile interfaces; a separate type
// because Get would otherwise collide with the settings Get.
type profileStore struct{ b *memBackend }

func (p profileStore) Upsert(_ context.Context, prof domain.Profile) error {
	p.b.profiles[prof.UserID] = prof
	return nil
}

func (p profileStore) Get(_ context.Context, userID string) (domain.Profile, error) {
	prof, ok := p.b.profiles[userID]
	if !ok {
		return domain.Profile{}, domain.ErrNotFound
	}
	return prof, nil
}

func (p profileStore) GetMulti(_ context.Context, userIDs []string) (map[string]domain.Profile, error) {
	out := map[string]domain.Profile{}
	for _, id := range userIDs {
		if prof, ok := p.b.profiles[id]; ok {
			out[id] = prof
		}
	}
	return out, nil
}

func (p profileStore) Exists(_ context.Context, userID string) (bool, error) {
	_, ok := p.b.profiles[userID]
	return ok, nil
}

// stubEmbedder returns canned vectors per input text.
type stubEmbedder struct {
	vectors map[string][]float32
}

func (s *stubEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	vec, ok := s.vectors[text]
	if !ok {
		vec = []float32{1, 0}
	}
	return domain.EmbeddingResult{Embedding: vec, Model: "stub-model", TotalTokens: 3}, nil
}

type okPinger struct{}

func (okPinger) Ping(_ context.Context) error { return nil }

type fixture struct {
	backend *memBackend
	server  *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	backend := newMemBackend()
	profiles := profileStore{b: backend}

	stub := &stubEmbedder{vectors: map[string][]float32{
		"alpha": {1, 0},
		"beta":  {0.9, 0.1},
		"gamma": {0, 1},
	}}
	registry := embeddinguc.Registry{
		domain.ProviderJina: embeddinguc.Chain{Venture: stub, Profile: stub},
	}
	embSvc := embeddinguc.NewService(registry, backend, domain.ProviderJina, time.Second)
	discSvc := discoveryuc.NewService(backend, backend, backend, backend, profiles, 20, 100, true)
	intSvc := interactionuc.NewService(backend, profiles, false)
	setSvc := settingsuc.NewService(backend)
	profSvc := profileuc.NewService(profiles)
	healthSvc := healthuc.NewService(okPinger{}, nil)

	srv := NewServer(embSvc, discSvc, intSvc, setSvc, profSvc, healthSvc, zap.NewNop())
	r := chi.NewRouter()
	srv.Register(r)

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return &fixture{backend: backend, server: ts}
}

// addProfile seeds a profile row directly.
func (f *fixture) addProfile(userID string, loc domain.Location) {
	f.backend.profiles[userID] = domain.Profile{
		UserID:      userID,
		DisplayName: userID,
		Location:    loc,
		UpdatedAt:   time.UnixMilli(1700000000000),
	}
}
