package discovery

import (
	"context"
	"time"

	"github.com/venturematch/venturematch/internal/domain"
)

type mockEmbeddings struct {
	own    domain.Embedding
	ownErr error
	list   []domain.Embedding
}

func (m *mockEmbeddings) GetCurrentForOwner(_ context.Context, _ string, _ domain.EntityType) (domain.Embedding, error) {
	if m.ownErr != nil {
		return domain.Embedding{}, m.ownErr
	}
	return m.own, nil
}

func (m *mockEmbeddings) ListCurrent(_ context.Context, _ domain.EntityType) ([]domain.Embedding, error) {
	return m.list, nil
}

type mockInteractions struct {
	kinds     map[string]domain.Kind
	blockedBy []string
}

func (m *mockInteractions) ListInteractions(_ context.Context, _ string) (map[string]domain.Kind, error) {
	if m.kinds == nil {
		return map[string]domain.Kind{}, nil
	}
	return m.kinds, nil
}

func (m *mockInteractions) ListBlockedBy(_ context.Context, _ string) ([]string, error) {
	return m.blockedBy, nil
}

type mockSettings struct {
	settings domain.Settings
}

func (m *mockSettings) Get(_ context.Context, userID string) (domain.Settings, error) {
	if m.settings.UserID == "" {
		return domain.DefaultSettings(userID), nil
	}
	return m.settings, nil
}

type mockSeen struct {
	seen   []string
	marked map[string]time.Time
}

func (m *mockSeen) Mark(_ context.Context, _ string, viewedID string, at time.Time) error {
	if m.marked == nil {
		m.marked = map[string]time.Time{}
	}
	m.marked[viewedID] = at
	return nil
}

func (m *mockSeen) List(_ context.Context, _ string) ([]string, error) {
	return m.seen, nil
}

type mockProfiles struct {
	profiles map[string]domain.Profile
}

func (m *mockProfiles) Get(_ context.Context, userID string) (domain.Profile, error) {
	p, ok := m.profiles[userID]
	if !ok {
		return domain.Profile{}, domain.ErrNotFound
	}
	return p, nil
}

func (m *mockProfiles) GetMulti(_ context.Context, userIDs []string) (map[string]domain.Profile, error) {
	out := map[string]domain.Profile{}
	for _, id := range userIDs {
		if p, ok := m.profiles[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

// fixture wires a discovery service around in-memory mocks.
type fixture struct {
	embeddings   *mockEmbeddings
	interactions *mockInteractions
	settings     *mockSettings
	seen         *mockSeen
	profiles     *mockProfiles
}

func newFixture() *fixture {
	return &fixture{
		embeddings:   &mockEmbeddings{},
		interactions: &mockInteractions{},
		settings:     &mockSettings{},
		seen:         &mockSeen{},
		profiles:     &mockProfiles{profiles: map[string]domain.Profile{}},
	}
}

func (f *fixture) service(passExcludes bool) *Service {
	s := NewService(f.embeddings, f.interactions, f.settings, f.seen, f.profiles, 20, 100, passExcludes)
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return s
}

// addCandidate registers a user with a venture embedding and a profile.
func (f *fixture) addCandidate(userID string, vector []float32, loc domain.Location) {
	f.embeddings.list = append(f.embeddings.list, domain.Embedding{
		EntityType: domain.EntityVenture,
		EntityID:   "v-" + userID,
		UserID:     userID,
		Vector:     vector,
		Version:    domain.CurrentEmbedVersion,
		UpdatedAt:  time.UnixMilli(1600000000000),
	})
	f.profiles.profiles[userID] = domain.Profile{
		UserID:      userID,
		DisplayName: userID,
		Location:    loc,
	}
}
