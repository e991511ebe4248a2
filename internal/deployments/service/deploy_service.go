package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dappforge/dappforge-backend/internal/deployments/catalog"
	"github.com/dappforge/dappforge-backend/internal/deployments/domain"
	"github.com/dappforge/dappforge-backend/internal/deployments/events"
	"github.com/dappforge/dappforge-backend/internal/deployments/scratch"
	"github.com/dappforge/dappforge-backend/internal/metrics"
	"github.com/rs/zerolog"
)

// Composer writes a ready-to-build package into a directory.
type Composer interface {
	Compose(d *catalog.Descriptor, owner string, fields domain.Fields, dst string) error
	ComposeVisual(owner string, components []string, dst string) error
}

// Toolchain compiles and publishes a composed package.
type Toolchain interface {
	Compile(ctx context.Context, dir, addressVar, owner string) error
	Publish(ctx context.Context, dir, addressVar, owner string) (string, error)
}

// Ledger records and reads deployments.
type Ledger interface {
	Record(ctx context.Context, owner string, contractType domain.ContractType, name, receipt string) (int64, error)
	ListByOwner(ctx context.Context, owner string) ([]domain.Project, error)
	GetByID(ctx context.Context, id int64) (*domain.Project, error)
}

// DeploymentService runs validate → compose → compile → publish → record.
type DeploymentService struct {
	catalog   *catalog.Catalog
	composer  Composer
	toolchain Toolchain
	ledger    Ledger
	scratch   *scratch.Space
	bus       events.Bus
}

// NewDeploymentService creates a new DeploymentService
func NewDeploymentService(cat *catalog.Catalog, composer Composer, toolchain Toolchain, ledger Ledger, space *scratch.Space, bus events.Bus) *DeploymentService {
	if bus == nil {
		bus = events.NewNoopBus()
	}
	return &DeploymentService{
		catalog:   cat,
		composer:  composer,
		toolchain: toolchain,
		ledger:    ledger,
		scratch:   space,
		bus:       bus,
	}
}

// pipeline is one deployment's parameters once validated.
type pipeline struct {
	contractType domain.ContractType
	addressVar   string
	owner        string
	name         string
	success      string
	failure      string
	compose      func(dir string) error
}

// Deploy publishes a single-template contract.
func (s *DeploymentService) Deploy(ctx context.Context, req domain.DeployRequest) (*domain.DeployResult, error) {
	d, err := s.catalog.Descriptor(req.Type)
	if err != nil {
		metrics.RecordDeployment(string(req.Type), outcome(err))
		return nil, err
	}
	if err := d.Validate(req.OwnerAddress, req.Fields); err != nil {
		metrics.RecordDeployment(string(req.Type), outcome(err))
		return nil, err
	}

	return s.run(ctx, pipeline{
		contractType: d.Type,
		addressVar:   d.AddressVar,
		owner:        req.OwnerAddress,
		name:         req.Fields["name"],
		success:      d.Success,
		failure:      d.Failure,
		compose: func(dir string) error {
			return s.composer.Compose(d, req.OwnerAddress, req.Fields, dir)
		},
	})
}

// DeployVisual publishes the selected components as one module.
func (s *DeploymentService) DeployVisual(ctx context.Context, req domain.VisualDeployRequest) (*domain.DeployResult, error) {
	if err := s.validateVisual(req); err != nil {
		metrics.RecordDeployment(string(domain.TypeVisual), outcome(err))
		return nil, err
	}

	visual := s.catalog.Visual
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = visual.DefaultName
	}

	return s.run(ctx, pipeline{
		contractType: domain.TypeVisual,
		addressVar:   visual.AddressVar,
		owner:        req.OwnerAddress,
		name:         name,
		success:      visual.Success,
		failure:      visual.Failure,
		compose: func(dir string) error {
			return s.composer.ComposeVisual(req.OwnerAddress, req.Components, dir)
		},
	})
}

func (s *DeploymentService) validateVisual(req domain.VisualDeployRequest) error {
	var missing []string
	if strings.TrimSpace(req.OwnerAddress) == "" {
		missing = append(missing, "ownerAddress")
	}
	if len(req.Components) == 0 {
		missing = append(missing, "components")
	}
	if len(missing) > 0 {
		return &domain.MissingFieldError{Fields: missing}
	}
	for _, label := range req.Components {
		if _, _, err := s.catalog.Component(label); err != nil {
			return err
		}
	}
	return nil
}

func (s *DeploymentService) run(ctx context.Context, p pipeline) (*domain.DeployResult, error) {
	log := zerolog.Ctx(ctx).With().
		Str("operation", "deploy").
		Str("type", string(p.contractType)).
		Str("owner", p.owner).
		Logger()

	res, err := s.execute(ctx, log, p)
	metrics.RecordDeployment(string(p.contractType), outcome(err))
	if err != nil {
		log.Error().Err(err).Msg(p.failure)
		return nil, &domain.DeployError{Message: p.failure, Err: err}
	}
	log.Info().Int64("project_id", res.Project.ID).Msg(p.success)
	return res, nil
}

func (s *DeploymentService) execute(ctx context.Context, log zerolog.Logger, p pipeline) (*domain.DeployResult, error) {
	dir, err := s.scratch.Acquire()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := dir.Release(); err != nil {
			log.Warn().Err(err).Str("dir", dir.Path).Msg("failed to remove scratch dir")
		}
	}()

	if err := p.compose(dir.Path); err != nil {
		return nil, fmt.Errorf("compose: %w", err)
	}
	if err := s.toolchain.Compile(ctx, dir.Path, p.addressVar, p.owner); err != nil {
		return nil, err
	}
	receipt, err := s.toolchain.Publish(ctx, dir.Path, p.addressVar, p.owner)
	if err != nil {
		return nil, err
	}

	// The module is on chain now; record it even if the caller has gone away.
	recordCtx := context.WithoutCancel(ctx)
	id, err := s.ledger.Record(recordCtx, p.owner, p.contractType, p.name, receipt)
	if err != nil {
		return nil, err
	}

	project := &domain.Project{
		ID:              id,
		OwnerAddress:    p.owner,
		Type:            p.contractType,
		Name:            p.name,
		TransactionHash: receipt,
	}
	if err := s.bus.Publish(recordCtx, *project); err != nil {
		log.Warn().Err(err).Int64("project_id", id).Msg("failed to publish deployment event")
	}

	return &domain.DeployResult{Message: p.success, Transaction: receipt, Project: project}, nil
}

func outcome(err error) string {
	var (
		validation     *domain.ValidationError
		unknown        *domain.UnknownTypeError
		compileErr     *domain.CompileError
		compileTimeout *domain.CompileTimeoutError
		publishErr     *domain.PublishError
		publishTimeout *domain.PublishTimeoutError
		storage        *domain.StorageError
	)
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &validation):
		return "validation"
	case errors.As(err, &unknown):
		return "unknown_type"
	case errors.As(err, &compileErr):
		return "compile"
	case errors.As(err, &compileTimeout):
		return "compile_timeout"
	case errors.As(err, &publishErr):
		return "publish"
	case errors.As(err, &publishTimeout):
		return "publish_timeout"
	case errors.As(err, &storage):
		return "storage"
	default:
		return "error"
	}
}
