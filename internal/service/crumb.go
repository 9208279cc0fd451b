// Package service contains the application logic between the HTTP
// layer and the store.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/breadcrumbsapp/breadcrumbs-server/internal/domain"
	domainerrors "github.com/breadcrumbsapp/breadcrumbs-server/internal/errors"
	"github.com/breadcrumbsapp/breadcrumbs-server/internal/id"
	"github.com/breadcrumbsapp/breadcrumbs-server/internal/markdown"
	"github.com/breadcrumbsapp/breadcrumbs-server/internal/slug"
	"github.com/breadcrumbsapp/breadcrumbs-server/internal/store"
	"github.com/breadcrumbsapp/breadcrumbs-server/internal/validation"
)

// CrumbService orchestrates crumb creation, editing, and listing.
type CrumbService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewCrumbService creates a new crumb service.
func NewCrumbService(store store.Store, validator *validation.Validator, logger *slog.Logger) *CrumbService {
	return &CrumbService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// CreateCrumbInput is the payload for creating a crumb.
// Exactly one of BodyMD or BodyHTML must be set; HTML is converted to
// markdown before storage.
type CreateCrumbInput struct {
	BodyMD     string   `json:"body_md" validate:"omitempty,max=65536"`
	BodyHTML   string   `json:"body_html" validate:"omitempty,max=262144"`
	Visibility string   `json:"visibility" validate:"omitempty,oneof=draft published"`
	UnitID     string   `json:"unit_id" validate:"omitempty,max=64"`
	Tags       []string `json:"tags" validate:"omitempty,max=32,dive,max=50"`
}

// UpdateCrumbInput is the patch payload for editing a crumb.
// Nil fields are left unchanged. A non-nil empty UnitID detaches the
// crumb from its unit; a non-nil Tags replaces the full tag set.
type UpdateCrumbInput struct {
	BodyMD     *string   `json:"body_md" validate:"omitempty,max=65536"`
	Visibility *string   `json:"visibility" validate:"omitempty,oneof=draft published"`
	UnitID     *string   `json:"unit_id" validate:"omitempty,max=64"`
	Tags       *[]string `json:"tags" validate:"omitempty,max=32,dive,max=50"`
}

// CrumbDetail is a crumb enriched with its tag slugs and, when the
// crumb belongs to a unit, a summary of that unit.
type CrumbDetail struct {
	*domain.Crumb
	Tags []string     `json:"tags"`
	Unit *domain.Unit `json:"unit,omitempty"`
}

// Create validates the input, resolves tags, and persists a new crumb.
func (s *CrumbService) Create(ctx context.Context, input CreateCrumbInput) (*CrumbDetail, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	bodyMD, err := resolveBody(input.BodyMD, input.BodyHTML)
	if err != nil {
		return nil, err
	}

	visibility := domain.VisibilityDraft
	if input.Visibility != "" {
		visibility = domain.Visibility(input.Visibility)
		if !visibility.IsValid() {
			return nil, domainerrors.Validationf("invalid visibility %q", input.Visibility)
		}
	}

	// The unit must already exist; units are never created implicitly.
	var unit *domain.Unit
	if input.UnitID != "" {
		unit, err = s.store.GetUnit(ctx, input.UnitID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.Validationf("unknown unit_id %q", input.UnitID)
		}
		if err != nil {
			return nil, err
		}
	}

	tags, err := s.resolveTags(ctx, input.Tags)
	if err != nil {
		return nil, err
	}

	crumbID, err := id.Generate("crumb")
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to generate crumb ID")
	}

	now := time.Now().UTC()
	crumb := &domain.Crumb{
		ID:         crumbID,
		BodyMD:     bodyMD,
		Visibility: visibility,
		UnitID:     input.UnitID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	tagIDs := make([]string, len(tags))
	for i, t := range tags {
		tagIDs[i] = t.ID
	}

	if err := s.store.CreateCrumb(ctx, crumb, tagIDs); err != nil {
		return nil, err
	}

	s.logger.Info("crumb created",
		"crumb_id", crumb.ID,
		"visibility", crumb.Visibility,
		"unit_id", crumb.UnitID,
		"tag_count", len(tags),
	)

	return &CrumbDetail{
		Crumb: crumb,
		Tags:  tagSlugs(tags),
		Unit:  unit,
	}, nil
}

// Get returns a crumb with its tags and unit summary.
func (s *CrumbService) Get(ctx context.Context, crumbID string) (*CrumbDetail, error) {
	crumb, err := s.store.GetCrumb(ctx, crumbID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFoundf("crumb %s not found", crumbID)
	}
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, crumb, nil)
}

// Update applies a partial edit to a crumb.
// CreatedAt is immutable; UpdatedAt is bumped on every successful edit.
func (s *CrumbService) Update(ctx context.Context, crumbID string, input UpdateCrumbInput) (*CrumbDetail, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	// An empty patch would only bump updated_at, which is never intended.
	if input.BodyMD == nil && input.Visibility == nil && input.UnitID == nil && input.Tags == nil {
		return nil, domainerrors.Validation("no fields to update")
	}

	crumb, err := s.store.GetCrumb(ctx, crumbID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFoundf("crumb %s not found", crumbID)
	}
	if err != nil {
		return nil, err
	}

	if input.BodyMD != nil {
		if *input.BodyMD == "" {
			return nil, domainerrors.Validation("body_md must not be empty")
		}
		crumb.BodyMD = *input.BodyMD
	}

	if input.Visibility != nil {
		v := domain.Visibility(*input.Visibility)
		if !v.IsValid() {
			return nil, domainerrors.Validationf("invalid visibility %q", *input.Visibility)
		}
		// Draft/published transitions are allowed in both directions and
		// carry no side effects.
		crumb.Visibility = v
	}

	if input.UnitID != nil {
		if *input.UnitID == "" {
			crumb.UnitID = ""
		} else {
			if _, err := s.store.GetUnit(ctx, *input.UnitID); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return nil, domainerrors.Validationf("unknown unit_id %q", *input.UnitID)
				}
				return nil, err
			}
			crumb.UnitID = *input.UnitID
		}
	}

	var tags []*domain.Tag
	if input.Tags != nil {
		tags, err = s.resolveTags(ctx, *input.Tags)
		if err != nil {
			return nil, err
		}
	}

	crumb.Touch()
	if err := s.store.UpdateCrumb(ctx, crumb); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("crumb %s not found", crumbID)
		}
		return nil, err
	}

	if input.Tags != nil {
		tagIDs := make([]string, len(tags))
		for i, t := range tags {
			tagIDs[i] = t.ID
		}
		if err := s.store.SetCrumbTags(ctx, crumb.ID, tagIDs); err != nil {
			return nil, err
		}
	}

	s.logger.Info("crumb updated", "crumb_id", crumb.ID, "visibility", crumb.Visibility)

	if input.Tags != nil {
		return s.enrich(ctx, crumb, tagSlugs(tags))
	}
	return s.enrich(ctx, crumb, nil)
}

// ListParams narrows and pages a crumb listing.
type ListParams struct {
	TagSlug    string
	UnitID     string
	Visibility string
	Query      string
	Limit      int
	Offset     int
}

// List returns one page of crumbs matching the filters.
// Results are reverse chronological, or ranked by relevance when a
// full-text query is present.
func (s *CrumbService) List(ctx context.Context, params ListParams) (*store.PaginatedResult[*CrumbDetail], error) {
	filter := store.CrumbFilter{
		TagSlug: params.TagSlug,
		UnitID:  params.UnitID,
		Query:   params.Query,
	}
	if params.Visibility != "" {
		v := domain.Visibility(params.Visibility)
		if !v.IsValid() {
			return nil, domainerrors.Validationf("invalid visibility %q", params.Visibility)
		}
		filter.Visibility = v
	}

	page := store.PaginationParams{Limit: params.Limit, Offset: params.Offset}
	page.Validate()

	crumbs, total, err := s.store.ListCrumbs(ctx, filter, page)
	if err != nil {
		return nil, err
	}

	details, err := s.enrichAll(ctx, crumbs)
	if err != nil {
		return nil, err
	}

	return store.NewPaginatedResult(details, total, page), nil
}

// resolveTags normalizes raw tag input and finds or creates each tag.
// Duplicate slugs collapse to a single tag.
func (s *CrumbService) resolveTags(ctx context.Context, raw []string) ([]*domain.Tag, error) {
	seen := make(map[string]bool, len(raw))
	tags := make([]*domain.Tag, 0, len(raw))

	for _, input := range raw {
		tagSlug := slug.Normalize(input)
		if tagSlug == "" {
			return nil, domainerrors.Validationf("tag %q is empty after normalization", input)
		}
		if seen[tagSlug] {
			continue
		}
		seen[tagSlug] = true

		tag, created, err := s.store.FindOrCreateTagBySlug(ctx, tagSlug)
		if err != nil {
			return nil, err
		}
		if created {
			s.logger.Debug("tag created on first use", "tag_slug", tagSlug)
		}
		tags = append(tags, tag)
	}

	return tags, nil
}

// enrich attaches tag slugs and the unit summary to a crumb.
// When slugs is non-nil it is used as-is instead of re-querying.
func (s *CrumbService) enrich(ctx context.Context, crumb *domain.Crumb, slugs []string) (*CrumbDetail, error) {
	if slugs == nil {
		tags, err := s.store.GetCrumbTags(ctx, crumb.ID)
		if err != nil {
			return nil, err
		}
		slugs = tagSlugs(tags)
	}

	var unit *domain.Unit
	if crumb.UnitID != "" {
		u, err := s.store.GetUnit(ctx, crumb.UnitID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		unit = u
	}

	return &CrumbDetail{Crumb: crumb, Tags: slugs, Unit: unit}, nil
}

// enrichAll enriches a page of crumbs, caching unit lookups across the
// page.
func (s *CrumbService) enrichAll(ctx context.Context, crumbs []*domain.Crumb) ([]*CrumbDetail, error) {
	units := make(map[string]*domain.Unit)
	details := make([]*CrumbDetail, 0, len(crumbs))

	for _, crumb := range crumbs {
		tags, err := s.store.GetCrumbTags(ctx, crumb.ID)
		if err != nil {
			return nil, err
		}

		var unit *domain.Unit
		if crumb.UnitID != "" {
			if cached, ok := units[crumb.UnitID]; ok {
				unit = cached
			} else {
				u, err := s.store.GetUnit(ctx, crumb.UnitID)
				if err != nil && !errors.Is(err, store.ErrNotFound) {
					return nil, err
				}
				unit = u
				units[crumb.UnitID] = u
			}
		}

		details = append(details, &CrumbDetail{
			Crumb: crumb,
			Tags:  tagSlugs(tags),
			Unit:  unit,
		})
	}

	return details, nil
}

// resolveBody picks the markdown body from the two input variants.
func resolveBody(bodyMD, bodyHTML string) (string, error) {
	switch {
	case bodyMD != "" && bodyHTML != "":
		return "", domainerrors.Validation("provide body_md or body_html, not both")
	case bodyMD != "":
		return bodyMD, nil
	case bodyHTML != "":
		return markdown.FromHTML(bodyHTML)
	default:
		return "", domainerrors.Validation("body_md is required")
	}
}

func tagSlugs(tags []*domain.Tag) []string {
	slugs := make([]string, len(tags))
	for i, t := range tags {
		slugs[i] = t.Slug
	}
	return slugs
}
