package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/venturematch/venturematch/internal/db"
	"github.com/venturematch/venturematch/internal/domain"
)

// store is the consumer interface for embeddings (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	JSONGetMulti(ctx context.Context, keys []string) ([][]byte, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Repo persists one current embedding per (entity type, entity id).
type Repo struct {
	store  store
	prefix string
}

// New creates an embedding repository. An empty prefix falls back to the
// default keyspace.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = domain.KeyPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

// embDoc is the persisted JSON shape.
type embDoc struct {
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	UserID     string    `json:"user_id"`
	Vector     []float32 `json:"vector"`
	Model      string    `json:"model"`
	Version    string    `json:"version"`
	UpdatedAt  int64     `json:"updated_at"` // unix ms
}

// Upsert overwrites the embedding row for the entity and refreshes the owner
// pointer. Single JSON.SET per row keeps the write atomic.
func (r *Repo) Upsert(ctx context.Context, emb domain.Embedding) error {
	doc := embDoc{
		EntityType: string(emb.EntityType),
		EntityID:   emb.EntityID,
		UserID:     emb.UserID,
		Vector:     emb.Vector,
		Model:      emb.Model,
		Version:    emb.Version.String(),
		UpdatedAt:  emb.UpdatedAt.UnixMilli(),
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal embedding: %w", err)
	}

	key := r.embKey(emb.EntityType, emb.EntityID)
	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return fmt.Errorf("json.set %s: %w", key, err)
	}

	ownerKey := r.ownerKey(emb.UserID, emb.EntityType)
	if err := r.store.Set(ctx, ownerKey, []byte(emb.EntityID)); err != nil {
		return fmt.Errorf("set %s: %w", ownerKey, err)
	}
	return nil
}

// GetCurrent returns the live embedding for an entity.
func (r *Repo) GetCurrent(ctx context.Context, entityType domain.EntityType, entityID string) (domain.Embedding, error) {
	key := r.embKey(entityType, entityID)
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.Embedding{}, domain.ErrNotFound
		}
		return domain.Embedding{}, fmt.Errorf("json.get %s: %w", key, err)
	}
	return parseEmbedding(raw)
}

// GetCurrentForOwner resolves the owner pointer, then loads the embedding.
func (r *Repo) GetCurrentForOwner(ctx context.Context, userID string, entityType domain.EntityType) (domain.Embedding, error) {
	entityID, err := r.store.Get(ctx, r.ownerKey(userID, entityType))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.Embedding{}, domain.ErrNotFound
		}
		return domain.Embedding{}, fmt.Errorf("get owner pointer: %w", err)
	}
	return r.GetCurrent(ctx, entityType, string(entityID))
}

// ListCurrent enumerates all live embeddings of one entity type. Candidate
// sets are small enough for exact in-process scoring, so a SCAN walk is the
// whole index. Undecodable rows are skipped, not propagated: one bad
// embedding must not take down matching for everyone.
func (r *Repo) ListCurrent(ctx context.Context, entityType domain.EntityType) ([]domain.Embedding, error) {
	keys, err := r.store.Scan(ctx, r.embKey(entityType, "*"))
	if err != nil {
		return nil, fmt.Errorf("scan embeddings: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	raws, err := r.store.JSONGetMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("json.get multi: %w", err)
	}

	out := make([]domain.Embedding, 0, len(raws))
	for _, raw := range raws {
		if raw == nil {
			continue
		}
		emb, err := parseEmbedding(raw)
		if err != nil {
			continue
		}
		out = append(out, emb)
	}
	return out, nil
}

func parseEmbedding(raw []byte) (domain.Embedding, error) {
	// JSON.GET with the $ path wraps the document in an array.
	var docs []embDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return domain.Embedding{}, fmt.Errorf("unmarshal embedding: %w", err)
	}
	if len(docs) == 0 {
		return domain.Embedding{}, domain.ErrNotFound
	}
	doc := docs[0]

	version, err := domain.ParseEmbedVersion(doc.Version)
	if err != nil {
		return domain.Embedding{}, err
	}
	entityType, ok := domain.ParseEntityType(doc.EntityType)
	if !ok {
		return domain.Embedding{}, fmt.Errorf("unknown entity type %q", doc.EntityType)
	}

	return domain.Embedding{
		EntityType: entityType,
		EntityID:   doc.EntityID,
		UserID:     doc.UserID,
		Vector:     doc.Vector,
		Model:      doc.Model,
		Version:    version,
		UpdatedAt:  time.UnixMilli(doc.UpdatedAt),
	}, nil
}

func (r *Repo) embKey(entityType domain.EntityType, entityID string) string {
	return fmt.Sprintf("%semb:%s:%s", r.prefix, entityType, entityID)
}

func (r *Repo) ownerKey(userID string, entityType domain.EntityType) string {
	return fmt.Sprintf("%semb_owner:%s:%s", r.prefix, userID, entityType)
}
