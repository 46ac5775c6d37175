package settings

import (
	"context"
	"fmt"

	"github.com/venturematch/venturematch/internal/domain"
)

// Repository is the consumer interface for settings persistence (ISP).
type Repository interface {
	Get(ctx context.Context, userID string) (domain.Settings, error)
	Put(ctx context.Context, s domain.Settings) error
}

// UpdateParams carries a partial settings update. Nil fields keep their
// current value.
type UpdateParams struct {
	Threshold *int
	Scope     *domain.RegionScope
}

// Service manages per-user matching settings.
type Service struct {
	repo Repository
}

// NewService creates the settings service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the user's settings, defaults included.
func (s *Service) Get(ctx context.Context, userID string) (domain.Settings, error) {
	settings, err := s.repo.Get(ctx, userID)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("get settings: %w", err)
	}
	return settings, nil
}

// Update applies a partial update on top of the current settings.
func (s *Service) Update(ctx context.Context, userID string, params UpdateParams) (domain.Settings, error) {
	current, err := s.repo.Get(ctx, userID)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("get settings: %w", err)
	}

	if params.Threshold != nil {
		if !domain.ValidThreshold(*params.Threshold) {
			return domain.Settings{}, domain.ErrInvalidThreshold
		}
		current.Threshold = *params.Threshold
	}
	if params.Scope != nil {
		if _, ok := domain.ParseRegionScope(string(*params.Scope)); !ok {
			return domain.Settings{}, domain.ErrInvalidRegionScope
		}
		current.Scope = *params.Scope
	}

	if err := s.repo.Put(ctx, current); err != nil {
		return domain.Settings{}, fmt.Errorf("put settings: %w", err)
	}
	return current, nil
}
