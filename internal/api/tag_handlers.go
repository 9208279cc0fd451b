package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/breadcrumbsapp/breadcrumbs-server/internal/domain"
	"github.com/breadcrumbsapp/breadcrumbs-server/internal/service"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags",
		Summary:     "List tags",
		Description: "Returns all tags with usage counts, ordered by slug",
		Tags:        []string{"Tags"},
	}, s.handleListTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTag",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/{slug}",
		Summary:     "Get tag",
		Description: "Returns a tag by slug",
		Tags:        []string{"Tags"},
	}, s.handleGetTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTagCrumbs",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/{slug}/crumbs",
		Summary:     "Get tag crumbs",
		Description: "Returns the crumbs carrying a tag, newest first",
		Tags:        []string{"Tags"},
	}, s.handleGetTagCrumbs)
}

// === DTOs ===

// TagResponse contains tag data in API responses.
type TagResponse struct {
	ID         string    `json:"id" doc:"Tag ID"`
	Slug       string    `json:"slug" doc:"Canonical slug"`
	Name       string    `json:"name" doc:"Human-readable rendering of the slug"`
	CrumbCount int       `json:"crumb_count" doc:"Number of crumbs carrying this tag"`
	CreatedAt  time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt  time.Time `json:"updated_at" doc:"Last update time"`
}

// TagOutput wraps a single tag response for Huma.
type TagOutput struct {
	Body TagResponse
}

// ListTagsResponse contains the full tag vocabulary.
type ListTagsResponse struct {
	Tags []TagResponse `json:"tags" doc:"All tags"`
}

// ListTagsOutput wraps the list tags response for Huma.
type ListTagsOutput struct {
	Body ListTagsResponse
}

// GetTagInput contains parameters for getting a tag.
type GetTagInput struct {
	Slug string `path:"slug" doc:"Tag slug"`
}

// GetTagCrumbsInput contains parameters for listing a tag's crumbs.
type GetTagCrumbsInput struct {
	Slug       string `path:"slug" doc:"Tag slug"`
	Visibility string `query:"visibility" doc:"Only draft or only published crumbs"`
	Limit      int    `query:"limit" doc:"Items per page (default 50, max 200)"`
	Offset     int    `query:"offset" doc:"Items to skip"`
}

// === Handlers ===

func (s *Server) handleListTags(ctx context.Context, _ *struct{}) (*ListTagsOutput, error) {
	tags, err := s.services.Tag.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]TagResponse, len(tags))
	for i, t := range tags {
		resp[i] = toTagResponse(t)
	}

	return &ListTagsOutput{Body: ListTagsResponse{Tags: resp}}, nil
}

func (s *Server) handleGetTag(ctx context.Context, input *GetTagInput) (*TagOutput, error) {
	tag, err := s.services.Tag.Get(ctx, input.Slug)
	if err != nil {
		return nil, err
	}

	return &TagOutput{Body: toTagResponse(tag)}, nil
}

func (s *Server) handleGetTagCrumbs(ctx context.Context, input *GetTagCrumbsInput) (*CrumbListOutput, error) {
	page, err := s.services.Tag.ListCrumbs(ctx, input.Slug, service.ListParams{
		Visibility: input.Visibility,
		Limit:      input.Limit,
		Offset:     input.Offset,
	})
	if err != nil {
		return nil, err
	}

	return &CrumbListOutput{Body: toCrumbListResponse(page.Items, page.Total, page.Limit, page.Offset, page.HasMore)}, nil
}

func toTagResponse(t *domain.Tag) TagResponse {
	return TagResponse{
		ID:         t.ID,
		Slug:       t.Slug,
		Name:       t.DisplayName(),
		CrumbCount: t.CrumbCount,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}
