package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/breadcrumbsapp/breadcrumbs-server/internal/domain"
	domainerrors "github.com/breadcrumbsapp/breadcrumbs-server/internal/errors"
	"github.com/breadcrumbsapp/breadcrumbs-server/internal/id"
	"github.com/breadcrumbsapp/breadcrumbs-server/internal/store"
	"github.com/breadcrumbsapp/breadcrumbs-server/internal/validation"
)

// UnitService manages writing sessions. Units are append-only: once
// created they are never renamed or deleted.
type UnitService struct {
	store     store.Store
	crumbs    *CrumbService
	validator *validation.Validator
	logger    *slog.Logger
}

// NewUnitService creates a new unit service.
func NewUnitService(store store.Store, crumbs *CrumbService, validator *validation.Validator, logger *slog.Logger) *UnitService {
	return &UnitService{
		store:     store,
		crumbs:    crumbs,
		validator: validator,
		logger:    logger,
	}
}

// CreateUnitInput is the payload for starting a writing session.
type CreateUnitInput struct {
	Name string `json:"name" validate:"required,max=100"`
}

// Create starts a new writing session. Names are display labels and
// need not be unique; same-named sessions stay distinct rows.
func (s *UnitService) Create(ctx context.Context, input CreateUnitInput) (*domain.Unit, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domainerrors.Validation("name must not be blank")
	}

	unitID, err := id.Generate("unit")
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to generate unit ID")
	}

	unit := &domain.Unit{
		ID:        unitID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.CreateUnit(ctx, unit); err != nil {
		return nil, err
	}

	s.logger.Info("unit created", "unit_id", unit.ID, "name", unit.Name)

	return unit, nil
}

// Get returns a single unit.
func (s *UnitService) Get(ctx context.Context, unitID string) (*domain.Unit, error) {
	unit, err := s.store.GetUnit(ctx, unitID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFoundf("unit %s not found", unitID)
	}
	return unit, err
}

// List returns all units, oldest first.
func (s *UnitService) List(ctx context.Context) ([]*domain.Unit, error) {
	return s.store.ListUnits(ctx)
}

// ListCrumbs returns one page of the crumbs written in a unit.
// The unit must exist even when it holds no crumbs.
func (s *UnitService) ListCrumbs(ctx context.Context, unitID string, params ListParams) (*store.PaginatedResult[*CrumbDetail], error) {
	if _, err := s.Get(ctx, unitID); err != nil {
		return nil, err
	}

	params.UnitID = unitID
	return s.crumbs.List(ctx, params)
}
