package embedding

import (
	"context"

	"github.com/venturematch/venturematch/internal/domain"
)

// Repository is the consumer interface for embedding persistence (ISP).
type Repository interface {
	Upsert(ctx context.Context, emb domain.Embedding) error
}

// Chain holds one provider's decorated embedders, one per entity type.
// Venture text carries a framing instruction; profile text does not.
type Chain struct {
	Venture domain.Embedder
	Profile domain.Embedder
}

// ForEntity selects the embedder for an entity type.
func (c Chain) ForEntity(t domain.EntityType) domain.Embedder {
	if t == domain.EntityProfile {
		return c.Profile
	}
	return c.Venture
}

// Registry maps provider ids to fully decorated embedder chains. Built once
// at the composition root; services never construct providers themselves.
type Registry map[domain.ProviderID]Chain
