package settings

import (
	"context"
	"fmt"
	"strconv"

	"github.com/venturematch/venturematch/internal/domain"
)

// store is the consumer interface for settings (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Repo persists one settings row per user.
type Repo struct {
	store  store
	prefix string
}

// New creates a settings repository. An empty prefix falls back to the
// default keyspace.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = domain.KeyPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

// Get returns the user's settings, falling back to defaults when no row
// exists or a field is unreadable.
func (r *Repo) Get(ctx context.Context, userID string) (domain.Settings, error) {
	fields, err := r.store.HGetAll(ctx, r.settingsKey(userID))
	if err != nil {
		return domain.Settings{}, fmt.Errorf("hgetall settings: %w", err)
	}

	out := domain.DefaultSettings(userID)
	if raw, ok := fields["similarity_threshold"]; ok {
		if level, err := strconv.Atoi(raw); err == nil && domain.ValidThreshold(level) {
			out.Threshold = level
		}
	}
	if raw, ok := fields["region_scope"]; ok {
		if scope, ok := domain.ParseRegionScope(raw); ok {
			out.Scope = scope
		}
	}
	return out, nil
}

// Put upserts the user's settings row.
func (r *Repo) Put(ctx context.Context, s domain.Settings) error {
	fields := map[string]string{
		"similarity_threshold": strconv.Itoa(s.Threshold),
		"region_scope":         string(s.Scope),
	}
	if err := r.store.HSet(ctx, r.settingsKey(s.UserID), fields); err != nil {
		return fmt.Errorf("hset settings: %w", err)
	}
	return nil
}

func (r *Repo) settingsKey(userID string) string {
	return fmt.Sprintf("%ssettings:%s", r.prefix, userID)
}
