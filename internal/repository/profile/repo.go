package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/venturematch/venturematch/internal/db"
	"github.com/venturematch/venturematch/internal/domain"
)

// store is the consumer interface for profiles (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	JSONGetMulti(ctx context.Context, keys []string) ([][]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
}

// Repo persists the denormalized profile fields used for discovery
// enrichment and region scoping.
type Repo struct {
	store  store
	prefix string
}

// New creates a profile repository. An empty prefix falls back to the
// default keyspace.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = domain.KeyPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

// profileDoc is the persisted JSON shape.
type profileDoc struct {
	UserID            string `json:"user_id"`
	DisplayName       string `json:"display_name"`
	Headline          string `json:"headline"`
	VentureSummary    string `json:"venture_summary"`
	PreferenceSummary string `json:"preference_summary"`
	CityID            string `json:"city_id,omitempty"`
	CountryCode       string `json:"country_code,omitempty"`
	RegionCode        string `json:"region_code,omitempty"`
	UpdatedAt         int64  `json:"updated_at"` // unix ms
}

// Upsert overwrites the profile row.
func (r *Repo) Upsert(ctx context.Context, p domain.Profile) error {
	doc := profileDoc{
		UserID:            p.UserID,
		DisplayName:       p.DisplayName,
		Headline:          p.Headline,
		VentureSummary:    p.VentureSummary,
		PreferenceSummary: p.PreferenceSummary,
		CityID:            p.Location.CityID,
		CountryCode:       p.Location.CountryCode,
		RegionCode:        p.Location.RegionCode,
		UpdatedAt:         p.UpdatedAt.UnixMilli(),
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	if err := r.store.JSONSet(ctx, r.profileKey(p.UserID), "$", data); err != nil {
		return fmt.Errorf("json.set profile: %w", err)
	}
	return nil
}

// Get returns one profile.
func (r *Repo) Get(ctx context.Context, userID string) (domain.Profile, error) {
	raw, err := r.store.JSONGet(ctx, r.profileKey(userID), "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.Profile{}, domain.ErrNotFound
		}
		return domain.Profile{}, fmt.Errorf("json.get profile: %w", err)
	}
	return parseProfile(raw)
}

// GetMulti returns profiles keyed by user id. Missing or undecodable
// profiles are absent from the map, not errors.
func (r *Repo) GetMulti(ctx context.Context, userIDs []string) (map[string]domain.Profile, error) {
	if len(userIDs) == 0 {
		return map[string]domain.Profile{}, nil
	}

	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = r.profileKey(id)
	}
	raws, err := r.store.JSONGetMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("json.get multi profiles: %w", err)
	}

	out := make(map[string]domain.Profile, len(userIDs))
	for i, raw := range raws {
		if raw == nil {
			continue
		}
		p, err := parseProfile(raw)
		if err != nil {
			continue
		}
		out[userIDs[i]] = p
	}
	return out, nil
}

// Exists reports whether a profile row is present.
func (r *Repo) Exists(ctx context.Context, userID string) (bool, error) {
	ok, err := r.store.Exists(ctx, r.profileKey(userID))
	if err != nil {
		return false, fmt.Errorf("exists profile: %w", err)
	}
	return ok, nil
}

func parseProfile(raw []byte) (domain.Profile, error) {
	// JSON.GET with the $ path wraps the document in an array.
	var docs []profileDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		return domain.Profile{}, fmt.Errorf("unmarshal profile: %w", err)
	}
	if len(docs) == 0 {
		return domain.Profile{}, domain.ErrNotFound
	}
	doc := docs[0]

	return domain.Profile{
		UserID:            doc.UserID,
		DisplayName:       doc.DisplayName,
		Headline:          doc.Headline,
		VentureSummary:    doc.VentureSummary,
		PreferenceSummary: doc.PreferenceSummary,
		Location: domain.Location{
			CityID:      doc.CityID,
			CountryCode: doc.CountryCode,
			RegionCode:  doc.RegionCode,
		},
		UpdatedAt: time.UnixMilli(doc.UpdatedAt),
	}, nil
}

func (r *Repo) profileKey(userID string) string {
	return fmt.Sprintf("%sprofile:%s", r.prefix, userID)
}
