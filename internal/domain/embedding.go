package domain

import (
	"context"
	"fmt"
	"time"
)

// Embedder is the shared text vectorization contract between layers.
// One implementation per provider; selection happens via a registry at the
// composition root, never by branching at call sites.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the raw vector, producing model, and token usage
// through the decorator chain.
type EmbeddingResult struct {
	Embedding    []float32
	Model        string
	PromptTokens int
	TotalTokens  int
}

// Embedding is the current semantic fingerprint of one entity. At most one
// live embedding exists per (entity type, entity id); upserts overwrite.
// The stored vector is unit-normalized.
type Embedding struct {
	EntityType EntityType
	EntityID   string
	UserID     string
	Vector     []float32
	Model      string
	Version    EmbedVersion
	UpdatedAt  time.Time
}

// VentureInstruction frames venture descriptions before embedding so
// similarity reflects what founders are building, not pitch phrasing.
const VentureInstruction = "Venture description for co-founder matching. " +
	"Focus on the problem domain, product, stage and needed skills: "

// InstructionEmbedder prepends a fixed context prompt before embedding.
// Venture texts get a framing prefix so two descriptions do not score as
// similar merely because both read like pitches. The decorator sits outermost
// so cache keys include the instruction.
type InstructionEmbedder struct {
	inner       Embedder
	instruction string
}

// NewInstructionEmbedder creates a decorator that prepends instruction text.
func NewInstructionEmbedder(inner Embedder, instruction string) *InstructionEmbedder {
	return &InstructionEmbedder{inner: inner, instruction: instruction}
}

// Embed prepends the instruction and delegates to the inner embedder.
func (e *InstructionEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	result, err := e.inner.Embed(ctx, e.instruction+text)
	if err != nil {
		return EmbeddingResult{}, fmt.Errorf("instruction embed: %w", err)
	}
	return result, nil
}
