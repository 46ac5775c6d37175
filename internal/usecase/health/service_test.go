package health

import (
	"context"
	"errors"
	"testing"

	"github.com/venturematch/venturematch/internal/domain"
)

type mockPinger struct{ err error }

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type mockChecker struct{ err error }

func (m *mockChecker) HealthCheck(_ context.Context) error { return m.err }

func TestCheck_AllHealthy(t *testing.T) {
	svc := NewService(&mockPinger{}, map[string]domain.HealthChecker{
		"jina": &mockChecker{},
	})

	status := svc.Check(context.Background())
	if !status.Healthy {
		t.Errorf("status = %+v, want healthy", status)
	}
	if status.Components["database"] != "ok" || status.Components["embedding:jina"] != "ok" {
		t.Errorf("components = %v", status.Components)
	}
}

func TestCheck_FailuresReportedPerComponent(t *testing.T) {
	svc := NewService(&mockPinger{err: errors.New("refused")}, map[string]domain.HealthChecker{
		"jina":    &mockChecker{err: errors.New("no api key")},
		"open-ai": &mockChecker{},
	})

	status := svc.Check(context.Background())
	if status.Healthy {
		t.Error("want unhealthy")
	}
	if status.Components["database"] != "refused" {
		t.Errorf("database = %q", status.Components["database"])
	}
	if status.Components["embedding:jina"] != "no api key" {
		t.Errorf("jina = %q", status.Components["embedding:jina"])
	}
	if status.Components["embedding:open-ai"] != "ok" {
		t.Errorf("open-ai = %q", status.Components["embedding:open-ai"])
	}
}
