package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/breadcrumbsapp/breadcrumbs-server/internal/service"
)

func (s *Server) registerCrumbRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createCrumb",
		Method:        http.MethodPost,
		Path:          "/api/v1/crumbs",
		Summary:       "Create crumb",
		Description:   "Creates a new crumb from markdown or pasted HTML",
		Tags:          []string{"Crumbs"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateCrumb)

	huma.Register(s.api, huma.Operation{
		OperationID: "listCrumbs",
		Method:      http.MethodGet,
		Path:        "/api/v1/crumbs",
		Summary:     "List crumbs",
		Description: "Returns crumbs newest first, optionally filtered by tag, unit, visibility, or full-text query",
		Tags:        []string{"Crumbs"},
	}, s.handleListCrumbs)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCrumb",
		Method:      http.MethodGet,
		Path:        "/api/v1/crumbs/{id}",
		Summary:     "Get crumb",
		Description: "Returns a crumb by ID with its tags and unit",
		Tags:        []string{"Crumbs"},
	}, s.handleGetCrumb)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateCrumb",
		Method:      http.MethodPatch,
		Path:        "/api/v1/crumbs/{id}",
		Summary:     "Update crumb",
		Description: "Applies a partial edit to a crumb; omitted fields are unchanged",
		Tags:        []string{"Crumbs"},
	}, s.handleUpdateCrumb)
}

// === DTOs ===

// UnitSummary is the embedded unit in crumb responses.
type UnitSummary struct {
	ID        string    `json:"id" doc:"Unit ID"`
	Name      string    `json:"name" doc:"Unit name"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
}

// CrumbResponse contains crumb data in API responses.
type CrumbResponse struct {
	ID         string       `json:"id" doc:"Crumb ID"`
	BodyMD     string       `json:"body_md" doc:"Markdown body"`
	Visibility string       `json:"visibility" doc:"draft or published"`
	Tags       []string     `json:"tags" doc:"Tag slugs on this crumb"`
	Unit       *UnitSummary `json:"unit,omitempty" doc:"Writing session, if any"`
	CreatedAt  time.Time    `json:"created_at" doc:"Creation time"`
	UpdatedAt  time.Time    `json:"updated_at" doc:"Last edit time"`
}

// CrumbOutput wraps a single crumb response for Huma.
type CrumbOutput struct {
	Body CrumbResponse
}

// CreateCrumbRequest is the request body for creating a crumb.
type CreateCrumbRequest struct {
	BodyMD     string   `json:"body_md,omitempty" doc:"Markdown body (mutually exclusive with body_html)"`
	BodyHTML   string   `json:"body_html,omitempty" doc:"HTML to convert to markdown (mutually exclusive with body_md)"`
	Visibility string   `json:"visibility,omitempty" doc:"draft or published (default draft)"`
	UnitID     string   `json:"unit_id,omitempty" doc:"Existing unit to attach to"`
	Tags       []string `json:"tags,omitempty" doc:"Raw tag names, normalized to slugs"`
}

// CreateCrumbInput wraps the create crumb request for Huma.
type CreateCrumbInput struct {
	Body CreateCrumbRequest
}

// GetCrumbInput contains parameters for getting a crumb.
type GetCrumbInput struct {
	ID string `path:"id" doc:"Crumb ID"`
}

// UpdateCrumbRequest is the request body for updating a crumb.
type UpdateCrumbRequest struct {
	BodyMD     *string   `json:"body_md,omitempty" doc:"New markdown body"`
	Visibility *string   `json:"visibility,omitempty" doc:"draft or published"`
	UnitID     *string   `json:"unit_id,omitempty" doc:"New unit ID; empty string detaches"`
	Tags       *[]string `json:"tags,omitempty" doc:"Replacement tag set"`
}

// UpdateCrumbInput wraps the update crumb request for Huma.
type UpdateCrumbInput struct {
	ID   string `path:"id" doc:"Crumb ID"`
	Body UpdateCrumbRequest
}

// ListCrumbsInput contains filter and paging parameters for listing crumbs.
type ListCrumbsInput struct {
	Tag        string `query:"tag" doc:"Only crumbs carrying this tag slug"`
	UnitID     string `query:"unit_id" doc:"Only crumbs in this unit"`
	Visibility string `query:"visibility" doc:"Only draft or only published crumbs"`
	Query      string `query:"q" doc:"Full-text search over markdown bodies"`
	Limit      int    `query:"limit" doc:"Items per page (default 50, max 200)"`
	Offset     int    `query:"offset" doc:"Items to skip"`
}

// CrumbListResponse contains one page of crumbs.
type CrumbListResponse struct {
	Items   []CrumbResponse `json:"items" doc:"Crumbs on this page"`
	Total   int             `json:"total" doc:"Total matching crumbs"`
	Limit   int             `json:"limit" doc:"Page size used"`
	Offset  int             `json:"offset" doc:"Items skipped"`
	HasMore bool            `json:"has_more" doc:"Whether more pages exist"`
}

// CrumbListOutput wraps the crumb list response for Huma.
type CrumbListOutput struct {
	Body CrumbListResponse
}

// === Handlers ===

func (s *Server) handleCreateCrumb(ctx context.Context, input *CreateCrumbInput) (*CrumbOutput, error) {
	detail, err := s.services.Crumb.Create(ctx, service.CreateCrumbInput{
		BodyMD:     input.Body.BodyMD,
		BodyHTML:   input.Body.BodyHTML,
		Visibility: input.Body.Visibility,
		UnitID:     input.Body.UnitID,
		Tags:       input.Body.Tags,
	})
	if err != nil {
		return nil, err
	}

	return &CrumbOutput{Body: toCrumbResponse(detail)}, nil
}

func (s *Server) handleGetCrumb(ctx context.Context, input *GetCrumbInput) (*CrumbOutput, error) {
	detail, err := s.services.Crumb.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &CrumbOutput{Body: toCrumbResponse(detail)}, nil
}

func (s *Server) handleUpdateCrumb(ctx context.Context, input *UpdateCrumbInput) (*CrumbOutput, error) {
	detail, err := s.services.Crumb.Update(ctx, input.ID, service.UpdateCrumbInput{
		BodyMD:     input.Body.BodyMD,
		Visibility: input.Body.Visibility,
		UnitID:     input.Body.UnitID,
		Tags:       input.Body.Tags,
	})
	if err != nil {
		return nil, err
	}

	return &CrumbOutput{Body: toCrumbResponse(detail)}, nil
}

func (s *Server) handleListCrumbs(ctx context.Context, input *ListCrumbsInput) (*CrumbListOutput, error) {
	page, err := s.services.Crumb.List(ctx, service.ListParams{
		TagSlug:    input.Tag,
		UnitID:     input.UnitID,
		Visibility: input.Visibility,
		Query:      input.Query,
		Limit:      input.Limit,
		Offset:     input.Offset,
	})
	if err != nil {
		return nil, err
	}

	return &CrumbListOutput{Body: toCrumbListResponse(page.Items, page.Total, page.Limit, page.Offset, page.HasMore)}, nil
}

// === Mapping ===

func toCrumbResponse(detail *service.CrumbDetail) CrumbResponse {
	resp := CrumbResponse{
		ID:         detail.ID,
		BodyMD:     detail.BodyMD,
		Visibility: string(detail.Visibility),
		Tags:       detail.Tags,
		CreatedAt:  detail.CreatedAt,
		UpdatedAt:  detail.UpdatedAt,
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if detail.Unit != nil {
		resp.Unit = &UnitSummary{
			ID:        detail.Unit.ID,
			Name:      detail.Unit.Name,
			CreatedAt: detail.Unit.CreatedAt,
		}
	}
	return resp
}

func toCrumbListResponse(items []*service.CrumbDetail, total, limit, offset int, hasMore bool) CrumbListResponse {
	resp := CrumbListResponse{
		Items:   make([]CrumbResponse, len(items)),
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: hasMore,
	}
	for i, d := range items {
		resp.Items[i] = toCrumbResponse(d)
	}
	return resp
}
