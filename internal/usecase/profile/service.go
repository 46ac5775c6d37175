package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/venturematch/venturematch/internal/domain"
)

// Repository is the consumer interface for profile persistence (ISP).
type Repository interface {
	Upsert(ctx context.Context, p domain.Profile) error
	Get(ctx context.Context, userID string) (domain.Profile, error)
}

// Service manages the denormalized profile rows used for discovery
// enrichment and region scoping.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates the profile service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Upsert overwrites the user's profile row.
func (s *Service) Upsert(ctx context.Context, p domain.Profile) (domain.Profile, error) {
	if p.UserID == "" {
		return domain.Profile{}, fmt.Errorf("user id: %w", domain.ErrMissingParameter)
	}
	if p.DisplayName == "" {
		return domain.Profile{}, fmt.Errorf("display name: %w", domain.ErrMissingParameter)
	}

	p.UpdatedAt = s.now()
	if err := s.repo.Upsert(ctx, p); err != nil {
		return domain.Profile{}, fmt.Errorf("upsert profile: %w", err)
	}
	return p, nil
}

// Get returns one profile.
func (s *Service) Get(ctx context.Context, userID string) (domain.Profile, error) {
	p, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Profile{}, domain.ErrNotFound
		}
		return domain.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}
