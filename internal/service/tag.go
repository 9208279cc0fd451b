package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/breadcrumbsapp/breadcrumbs-server/internal/domain"
	domainerrors "github.com/breadcrumbsapp/breadcrumbs-server/internal/errors"
	"github.com/breadcrumbsapp/breadcrumbs-server/internal/slug"
	"github.com/breadcrumbsapp/breadcrumbs-server/internal/store"
)

// TagService exposes the tag vocabulary. Tags are only ever created as
// a side effect of tagging a crumb, so this service is read-only.
type TagService struct {
	store  store.Store
	crumbs *CrumbService
	logger *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(store store.Store, crumbs *CrumbService, logger *slog.Logger) *TagService {
	return &TagService{
		store:  store,
		crumbs: crumbs,
		logger: logger,
	}
}

// List returns all tags with usage counts, ordered by slug.
// Orphan tags (count zero) are included.
func (s *TagService) List(ctx context.Context) ([]*domain.Tag, error) {
	return s.store.ListTags(ctx)
}

// Get returns a tag by slug. Raw input is normalized first, so
// "Slow Burn" resolves the same tag as "slow-burn".
func (s *TagService) Get(ctx context.Context, rawSlug string) (*domain.Tag, error) {
	tagSlug := slug.Normalize(rawSlug)
	if tagSlug == "" {
		return nil, domainerrors.Validationf("tag %q is empty after normalization", rawSlug)
	}

	tag, err := s.store.GetTagBySlug(ctx, tagSlug)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFoundf("tag %s not found", tagSlug)
	}
	return tag, err
}

// ListCrumbs returns one page of the crumbs carrying a tag.
// The tag must exist; an unknown slug is a 404, not an empty page.
func (s *TagService) ListCrumbs(ctx context.Context, rawSlug string, params ListParams) (*store.PaginatedResult[*CrumbDetail], error) {
	tag, err := s.Get(ctx, rawSlug)
	if err != nil {
		return nil, err
	}

	params.TagSlug = tag.Slug
	return s.crumbs.List(ctx, params)
}
