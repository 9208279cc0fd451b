package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/breadcrumbsapp/breadcrumbs-server/internal/domain"
	"github.com/breadcrumbsapp/breadcrumbs-server/internal/service"
)

func (s *Server) registerUnitRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createUnit",
		Method:        http.MethodPost,
		Path:          "/api/v1/units",
		Summary:       "Create unit",
		Description:   "Starts a new writing session",
		Tags:          []string{"Units"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateUnit)

	huma.Register(s.api, huma.Operation{
		OperationID: "listUnits",
		Method:      http.MethodGet,
		Path:        "/api/v1/units",
		Summary:     "List units",
		Description: "Returns all writing sessions, oldest first",
		Tags:        []string{"Units"},
	}, s.handleListUnits)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUnit",
		Method:      http.MethodGet,
		Path:        "/api/v1/units/{id}",
		Summary:     "Get unit",
		Description: "Returns a writing session by ID",
		Tags:        []string{"Units"},
	}, s.handleGetUnit)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUnitCrumbs",
		Method:      http.MethodGet,
		Path:        "/api/v1/units/{id}/crumbs",
		Summary:     "Get unit crumbs",
		Description: "Returns the crumbs written in a session, newest first",
		Tags:        []string{"Units"},
	}, s.handleGetUnitCrumbs)
}

// === DTOs ===

// UnitResponse contains unit data in API responses.
type UnitResponse struct {
	ID        string    `json:"id" doc:"Unit ID"`
	Name      string    `json:"name" doc:"Unit name"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
}

// UnitOutput wraps a single unit response for Huma.
type UnitOutput struct {
	Body UnitResponse
}

// CreateUnitRequest is the request body for creating a unit.
type CreateUnitRequest struct {
	Name string `json:"name" doc:"Display name for the session (not unique)"`
}

// CreateUnitInput wraps the create unit request for Huma.
type CreateUnitInput struct {
	Body CreateUnitRequest
}

// GetUnitInput contains parameters for getting a unit.
type GetUnitInput struct {
	ID string `path:"id" doc:"Unit ID"`
}

// ListUnitsResponse contains all units.
type ListUnitsResponse struct {
	Units []UnitResponse `json:"units" doc:"All writing sessions"`
}

// ListUnitsOutput wraps the list units response for Huma.
type ListUnitsOutput struct {
	Body ListUnitsResponse
}

// GetUnitCrumbsInput contains parameters for listing a unit's crumbs.
type GetUnitCrumbsInput struct {
	ID         string `path:"id" doc:"Unit ID"`
	Visibility string `query:"visibility" doc:"Only draft or only published crumbs"`
	Limit      int    `query:"limit" doc:"Items per page (default 50, max 200)"`
	Offset     int    `query:"offset" doc:"Items to skip"`
}

// === Handlers ===

func (s *Server) handleCreateUnit(ctx context.Context, input *CreateUnitInput) (*UnitOutput, error) {
	unit, err := s.services.Unit.Create(ctx, service.CreateUnitInput{
		Name: input.Body.Name,
	})
	if err != nil {
		return nil, err
	}

	return &UnitOutput{Body: toUnitResponse(unit)}, nil
}

func (s *Server) handleGetUnit(ctx context.Context, input *GetUnitInput) (*UnitOutput, error) {
	unit, err := s.services.Unit.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &UnitOutput{Body: toUnitResponse(unit)}, nil
}

func (s *Server) handleListUnits(ctx context.Context, _ *struct{}) (*ListUnitsOutput, error) {
	units, err := s.services.Unit.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]UnitResponse, len(units))
	for i, u := range units {
		resp[i] = toUnitResponse(u)
	}

	return &ListUnitsOutput{Body: ListUnitsResponse{Units: resp}}, nil
}

func (s *Server) handleGetUnitCrumbs(ctx context.Context, input *GetUnitCrumbsInput) (*CrumbListOutput, error) {
	page, err := s.services.Unit.ListCrumbs(ctx, input.ID, service.ListParams{
		Visibility: input.Visibility,
		Limit:      input.Limit,
		Offset:     input.Offset,
	})
	if err != nil {
		return nil, err
	}

	return &CrumbListOutput{Body: toCrumbListResponse(page.Items, page.Total, page.Limit, page.Offset, page.HasMore)}, nil
}

func toUnitResponse(u *domain.Unit) UnitResponse {
	return UnitResponse{
		ID:        u.ID,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}
