package discovery

import (
	"context"
	"time"

	"github.com/venturematch/venturematch/internal/domain"
)

// EmbeddingReader is the consumer interface for embedding reads (ISP).
type EmbeddingReader interface {
	GetCurrentForOwner(ctx context.Context, userID string, entityType domain.EntityType) (domain.Embedding, error)
	ListCurrent(ctx context.Context, entityType domain.EntityType) ([]domain.Embedding, error)
}

// InteractionReader is the consumer interface for interaction reads (ISP).
type InteractionReader interface {
	ListInteractions(ctx context.Context, actor string) (map[string]domain.Kind, error)
	ListBlockedBy(ctx context.Context, userID string) ([]string, error)
}

// SettingsReader is the consumer interface for settings reads (ISP).
type SettingsReader interface {
	Get(ctx context.Context, userID string) (domain.Settings, error)
}

// SeenStore is the consumer interface for seen markers (ISP).
type SeenStore interface {
	Mark(ctx context.Context, viewerID, viewedID string, at time.Time) error
	List(ctx context.Context, viewerID string) ([]string, error)
}

// ProfileReader is the consumer interface for profile reads (ISP).
type ProfileReader interface {
	Get(ctx context.Context, userID string) (domain.Profile, error)
	GetMulti(ctx context.Context, userIDs []string) (map[string]domain.Profile, error)
}
