package service

import (
	"context"

	"github.com/dappforge/dappforge-backend/internal/deployments/domain"
	"github.com/dappforge/dappforge-backend/internal/deployments/events"
	"github.com/dappforge/dappforge-backend/internal/deployments/frontend"
)

// ProjectService serves the ledger's read side.
type ProjectService struct {
	ledger   Ledger
	exporter *frontend.Exporter
	bus      events.Bus
}

func NewProjectService(ledger Ledger, exporter *frontend.Exporter, bus events.Bus) *ProjectService {
	if bus == nil {
		bus = events.NewNoopBus()
	}
	return &ProjectService{ledger: ledger, exporter: exporter, bus: bus}
}

// ListByOwner returns every project recorded for owner, oldest first. Owners
// are matched verbatim; one with no projects yields an empty slice.
func (s *ProjectService) ListByOwner(ctx context.Context, owner string) ([]domain.Project, error) {
	return s.ledger.ListByOwner(ctx, owner)
}

func (s *ProjectService) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	return s.ledger.GetByID(ctx, id)
}

// ExportFrontend renders the UI component for a recorded project.
func (s *ProjectService) ExportFrontend(ctx context.Context, id int64) (*frontend.File, error) {
	p, err := s.ledger.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.exporter.Render(p)
}

// Follow streams events for owner until ctx ends.
func (s *ProjectService) Follow(ctx context.Context, owner string) (<-chan events.Event, func(), error) {
	return s.bus.Subscribe(ctx, owner)
}
