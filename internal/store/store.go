// Package store defines the persistence interface for the Breadcrumbs server.
package store

import (
	"context"

	"github.com/breadcrumbsapp/breadcrumbs-server/internal/domain"
)

// CrumbFilter narrows crumb listings. Zero values mean "no filter";
// all set fields combine with logical AND.
type CrumbFilter struct {
	TagSlug    string            // Only crumbs carrying this tag
	UnitID     string            // Only crumbs in this writing session
	Visibility domain.Visibility // Only crumbs in this publication state
	Query      string            // Full-text match against body_md
}

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error

	// Crumbs
	// CreateCrumb inserts the crumb and its tag join rows in a single
	// transaction; a failure leaves no rows behind.
	CreateCrumb(ctx context.Context, crumb *domain.Crumb, tagIDs []string) error
	GetCrumb(ctx context.Context, id string) (*domain.Crumb, error)
	UpdateCrumb(ctx context.Context, crumb *domain.Crumb) error
	// ListCrumbs returns one page of crumbs plus the total match count.
	// Ordered reverse chronologically by created_at; when filter.Query
	// is set, ordered by full-text rank instead.
	ListCrumbs(ctx context.Context, filter CrumbFilter, page PaginationParams) ([]*domain.Crumb, int, error)
	SetCrumbTags(ctx context.Context, crumbID string, tagIDs []string) error
	GetCrumbTags(ctx context.Context, crumbID string) ([]*domain.Tag, error)

	// Units
	CreateUnit(ctx context.Context, unit *domain.Unit) error
	GetUnit(ctx context.Context, id string) (*domain.Unit, error)
	ListUnits(ctx context.Context) ([]*domain.Unit, error)

	// Tags
	CreateTag(ctx context.Context, tag *domain.Tag) error
	GetTagBySlug(ctx context.Context, slug string) (*domain.Tag, error)
	// FindOrCreateTagBySlug resolves the duplicate-insert race by
	// re-fetching the winning row instead of failing.
	FindOrCreateTagBySlug(ctx context.Context, slug string) (*domain.Tag, bool, error)
	// ListTags returns all tags with usage counts, ordered by slug.
	ListTags(ctx context.Context) ([]*domain.Tag, error)
}
