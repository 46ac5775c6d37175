package embedding

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/venturematch/venturematch/internal/domain"
	"github.com/venturematch/venturematch/internal/logger"
)

// InstrumentedEmbedder logs latency and token usage around any embedder.
// Sits between the instruction and cache decorators so cache hits are not
// reported as provider calls.
type InstrumentedEmbedder struct {
	inner    domain.Embedder
	provider string
}

// NewInstrumentedEmbedder creates a logging decorator.
func NewInstrumentedEmbedder(inner domain.Embedder, provider string) *InstrumentedEmbedder {
	return &InstrumentedEmbedder{inner: inner, provider: provider}
}

// Embed delegates to the inner embedder and logs the outcome.
func (e *InstrumentedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	start := time.Now()
	result, err := e.inner.Embed(ctx, text)
	elapsed := time.Since(start)

	log := logger.FromContext(ctx)
	if err != nil {
		log.Warn("Embedding call failed",
			zap.String("provider", e.provider),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return domain.EmbeddingResult{}, err
	}

	log.Debug("Embedding call succeeded",
		zap.String("provider", e.provider),
		zap.String("model", result.Model),
		zap.Duration("elapsed", elapsed),
		zap.Int("total_tokens", result.TotalTokens),
	)
	return result, nil
}
