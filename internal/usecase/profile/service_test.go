package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/venturematch/venturematch/internal/domain"
)

// mockRepo implements Repository with function fields.
type mockRepo struct {
	upsertFn func(ctx context.Context, p domain.Profile) error
	getFn    func(ctx context.Context, userID string) (domain.Profile, error)
}

func (m *mockRepo) Upsert(ctx context.Context, p domain.Profile) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, p)
	}
	return nil
}

func (m *mockRepo) Get(ctx context.Context, userID string) (domain.Profile, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID)
	}
	return domain.Profile{}, domain.ErrNotFound
}

func TestUpsert_StampsUpdatedAt(t *testing.T) {
	repo := &mockRepo{}
	var stored domain.Profile
	repo.upsertFn = func(_ context.Context, p domain.Profile) error {
		stored = p
		return nil
	}
	svc := NewService(repo)
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }

	got, err := svc.Upsert(context.Background(), domain.Profile{
		UserID: "alice", DisplayName: "Alice",
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if got.UpdatedAt.UnixMilli() != 1700000000000 {
		t.Errorf("UpdatedAt = %v", got.UpdatedAt)
	}
	if stored.UserID != "alice" {
		t.Errorf("stored %+v", stored)
	}
}

func TestUpsert_Validation(t *testing.T) {
	svc := NewService(&mockRepo{})

	_, err := svc.Upsert(context.Background(), domain.Profile{DisplayName: "Alice"})
	if !errors.Is(err, domain.ErrMissingParameter) {
		t.Errorf("missing user id: err = %v, want ErrMissingParameter", err)
	}
	_, err = svc.Upsert(context.Background(), domain.Profile{UserID: "alice"})
	if !errors.Is(err, domain.ErrMissingParameter) {
		t.Errorf("missing display name: err = %v, want ErrMissingParameter", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	_, err := NewService(&mockRepo{}).Get(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
