package interaction

import (
	"context"
	"time"

	"github.com/venturematch/venturematch/internal/domain"
)

// Store is the consumer interface for interaction persistence (ISP).
type Store interface {
	Record(ctx context.Context, actor, target string, kind domain.Kind, at time.Time) error
	Delete(ctx context.Context, actor, target string) error
	GetKind(ctx context.Context, actor, target string) (domain.Kind, bool, error)
	PairBlocked(ctx context.Context, userA, userB string) (bool, error)
	HasMutualLike(ctx context.Context, userA, userB string) (bool, error)
	CreateMatch(ctx context.Context, userA, userB string, at time.Time) (bool, error)
	ListMatches(ctx context.Context, userID string) ([]domain.Match, error)
	ListBlockedBy(ctx context.Context, userID string) ([]string, error)
	ListLikedBy(ctx context.Context, userID string) ([]string, error)
	ListInteractions(ctx context.Context, actor string) (map[string]domain.Kind, error)
}

// ProfileReader is the consumer interface for profile reads (ISP).
type ProfileReader interface {
	Exists(ctx context.Context, userID string) (bool, error)
	GetMulti(ctx context.Context, userIDs []string) (map[string]domain.Profile, error)
}
