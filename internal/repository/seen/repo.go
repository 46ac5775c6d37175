package seen

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/venturematch/venturematch/internal/domain"
)

// store is the consumer interface for seen markers (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Repo persists seen markers as one hash per viewer (viewed id -> unix ms).
// HSET makes marking idempotent: viewing twice keeps a single field.
type Repo struct {
	store  store
	prefix string
}

// New creates a seen-marker repository. An empty prefix falls back to the
// default keyspace.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = domain.KeyPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

// Mark records that viewer has been shown viewed.
func (r *Repo) Mark(ctx context.Context, viewerID, viewedID string, at time.Time) error {
	fields := map[string]string{viewedID: strconv.FormatInt(at.UnixMilli(), 10)}
	if err := r.store.HSet(ctx, r.seenKey(viewerID), fields); err != nil {
		return fmt.Errorf("hset seen: %w", err)
	}
	return nil
}

// List returns the ids of everyone the viewer has been shown.
func (r *Repo) List(ctx context.Context, viewerID string) ([]string, error) {
	fields, err := r.store.HGetAll(ctx, r.seenKey(viewerID))
	if err != nil {
		return nil, fmt.Errorf("hgetall seen: %w", err)
	}
	out := make([]string, 0, len(fields))
	for viewed := range fields {
		out = append(out, viewed)
	}
	return out, nil
}

func (r *Repo) seenKey(viewerID string) string {
	return fmt.Sprintf("%sseen:%s", r.prefix, viewerID)
}
