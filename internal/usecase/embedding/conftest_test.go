package embedding

import (
	"context"
	"time"

	"github.com/venturematch/venturematch/internal/domain"
)

type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
	calls  int
	text   string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.calls++
	m.text = text
	return m.result, m.err
}

type mockRepo struct {
	upsertFn func(ctx context.Context, emb domain.Embedding) error
	stored   []domain.Embedding
}

func (m *mockRepo) Upsert(ctx context.Context, emb domain.Embedding) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, emb)
	}
	m.stored = append(m.stored, emb)
	return nil
}

// chainOf uses one embedder for both entity types.
func chainOf(e domain.Embedder) Chain {
	return Chain{Venture: e, Profile: e}
}

func newTestService(registry Registry, repo *mockRepo) *Service {
	s := NewService(registry, repo, domain.ProviderJina, time.Second)
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return s
}
