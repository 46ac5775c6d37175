package health

import (
	"context"

	"github.com/venturematch/venturematch/internal/domain"
)

// DBPinger is the consumer interface for database liveness (ISP).
type DBPinger interface {
	Ping(ctx context.Context) error
}

// Status is the aggregated health report.
type Status struct {
	Healthy    bool
	Components map[string]string // component name -> "ok" or the error text
}

// Service aggregates readiness across the database and embedding providers.
type Service struct {
	db        DBPinger
	embedders map[string]domain.HealthChecker
}

// NewService creates the health service.
func NewService(db DBPinger, embedders map[string]domain.HealthChecker) *Service {
	return &Service{db: db, embedders: embedders}
}

// Check probes every component. It never returns an error; failures are
// reported per component so one bad provider does not mask the rest.
func (s *Service) Check(ctx context.Context) Status {
	status := Status{Healthy: true, Components: map[string]string{}}

	if err := s.db.Ping(ctx); err != nil {
		status.Healthy = false
		status.Components["database"] = err.Error()
	} else {
		status.Components["database"] = "ok"
	}

	for name, checker := range s.embedders {
		if err := checker.HealthCheck(ctx); err != nil {
			status.Healthy = false
			status.Components["embedding:"+name] = err.Error()
			continue
		}
		status.Components["embedding:"+name] = "ok"
	}
	return status
}
