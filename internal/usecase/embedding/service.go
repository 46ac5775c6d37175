package embedding

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/venturematch/venturematch/internal/domain"
	"github.com/venturematch/venturematch/internal/logger"
)

// GenerateParams describes one embedding generation request.
type GenerateParams struct {
	UserID     string
	EntityType domain.EntityType
	EntityID   string
	Text       string
	// Provider selects an embedder chain; empty means the default provider.
	Provider domain.ProviderID
}

// Service turns entity text into a stored, unit-normalized embedding.
type Service struct {
	registry        Registry
	repo            Repository
	defaultProvider domain.ProviderID
	timeout         time.Duration
	now             func() time.Time
}

// NewService creates the embedding service.
func NewService(registry Registry, repo Repository, defaultProvider domain.ProviderID, timeout time.Duration) *Service {
	return &Service{
		registry:        registry,
		repo:            repo,
		defaultProvider: defaultProvider,
		timeout:         timeout,
		now:             time.Now,
	}
}

// GenerateAndStore embeds the text and overwrites the entity's current
// embedding. The stored vector is normalized and stamped with the current
// embedding version, so every write is comparable with its contemporaries.
func (s *Service) GenerateAndStore(ctx context.Context, params GenerateParams) (domain.Embedding, error) {
	if params.Text == "" {
		return domain.Embedding{}, fmt.Errorf("text: %w", domain.ErrMissingParameter)
	}
	if params.EntityID == "" {
		return domain.Embedding{}, fmt.Errorf("entity id: %w", domain.ErrMissingParameter)
	}

	providerID := params.Provider
	if providerID == "" {
		providerID = s.defaultProvider
	}
	chain, ok := s.registry[providerID]
	if !ok {
		return domain.Embedding{}, fmt.Errorf("provider %q: %w", providerID, domain.ErrProviderNotConfigured)
	}
	embedder := chain.ForEntity(params.EntityType)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := embedder.Embed(ctx, params.Text)
	if err != nil {
		return domain.Embedding{}, fmt.Errorf("embed %s %s: %w", params.EntityType, params.EntityID, err)
	}

	vector, err := domain.Normalize(result.Embedding)
	if err != nil {
		return domain.Embedding{}, fmt.Errorf("normalize %s %s: %w", params.EntityType, params.EntityID, err)
	}

	emb := domain.Embedding{
		EntityType: params.EntityType,
		EntityID:   params.EntityID,
		UserID:     params.UserID,
		Vector:     vector,
		Model:      result.Model,
		Version:    domain.CurrentEmbedVersion,
		UpdatedAt:  s.now(),
	}
	if err := s.repo.Upsert(ctx, emb); err != nil {
		return domain.Embedding{}, fmt.Errorf("store embedding: %w", err)
	}

	logger.FromContext(ctx).Debug("Stored embedding",
		zap.String("entity_type", string(emb.EntityType)),
		zap.String("entity_id", emb.EntityID),
		zap.String("model", emb.Model),
		zap.String("version", emb.Version.String()),
		zap.Int("dimensions", len(emb.Vector)),
		zap.Int("total_tokens", result.TotalTokens),
	)
	return emb, nil
}
