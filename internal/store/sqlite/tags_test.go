package sqlite

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/breadcrumbsapp/breadcrumbs-server/internal/domain"
	"github.com/breadcrumbsapp/breadcrumbs-server/internal/store"
)

// makeTestTag creates a domain.Tag with sensible defaults for testing.
func makeTestTag(id, slug string) *domain.Tag {
	now := time.Now()
	return &domain.Tag{
		ID:        id,
		Slug:      slug,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCreateAndGetTag(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tag := makeTestTag("tag-1", "slow-burn")

	if err := s.CreateTag(ctx, tag); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	got, err := s.GetTagBySlug(ctx, "slow-burn")
	if err != nil {
		t.Fatalf("GetTagBySlug: %v", err)
	}

	if got.ID != tag.ID {
		t.Errorf("ID: got %q, want %q", got.ID, tag.ID)
	}
	if got.Slug != tag.Slug {
		t.Errorf("Slug: got %q, want %q", got.Slug, tag.Slug)
	}

	// Timestamps should round-trip through RFC3339Nano.
	if got.CreatedAt.Unix() != tag.CreatedAt.Unix() {
		t.Errorf("CreatedAt: got %v, want %v", got.CreatedAt, tag.CreatedAt)
	}
}

func TestGetTagBySlugNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetTagBySlug(context.Background(), "nope")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateTagDuplicateSlug(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateTag(ctx, makeTestTag("tag-1", "fantasy")); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	err := s.CreateTag(ctx, makeTestTag("tag-2", "fantasy"))
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestFindOrCreateTagBySlug(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// First call creates.
	tag, created, err := s.FindOrCreateTagBySlug(ctx, "go-dev")
	if err != nil {
		t.Fatalf("FindOrCreateTagBySlug: %v", err)
	}
	if !created {
		t.Error("expected created=true on first call")
	}
	if tag.Slug != "go-dev" {
		t.Errorf("Slug: got %q, want %q", tag.Slug, "go-dev")
	}

	// Second call finds the same row.
	again, created, err := s.FindOrCreateTagBySlug(ctx, "go-dev")
	if err != nil {
		t.Fatalf("FindOrCreateTagBySlug again: %v", err)
	}
	if created {
		t.Error("expected created=false on second call")
	}
	if again.ID != tag.ID {
		t.Errorf("ID: got %q, want %q", again.ID, tag.ID)
	}
}

func TestFindOrCreateTagConcurrent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Two concurrent requests for the same slug must converge to one row.
	const workers = 8
	ids := make([]string, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := range workers {
		go func() {
			defer wg.Done()
			tag, _, err := s.FindOrCreateTagBySlug(ctx, "raced")
			if err != nil {
				t.Errorf("FindOrCreateTagBySlug: %v", err)
				return
			}
			ids[i] = tag.ID
		}()
	}
	wg.Wait()

	first := ids[0]
	for _, got := range ids {
		if got != first {
			t.Errorf("diverging tag IDs: %q vs %q", got, first)
		}
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM tags WHERE slug = 'raced'").Scan(&count); err != nil {
		t.Fatalf("count tags: %v", err)
	}
	if count != 1 {
		t.Errorf("expected exactly 1 tag row, got %d", count)
	}
}

func TestListTagsWithCounts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateTag(ctx, makeTestTag("tag-1", "zebra")); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	if err := s.CreateTag(ctx, makeTestTag("tag-2", "alpha")); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	crumb := makeTestCrumb("crumb-1", "tagged body")
	if err := s.CreateCrumb(ctx, crumb, []string{"tag-1"}); err != nil {
		t.Fatalf("CreateCrumb: %v", err)
	}

	tags, err := s.ListTags(ctx)
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(tags))
	}

	// Ordered by slug; orphan tags included with count zero.
	if tags[0].Slug != "alpha" || tags[1].Slug != "zebra" {
		t.Errorf("wrong order: %q, %q", tags[0].Slug, tags[1].Slug)
	}
	if tags[0].CrumbCount != 0 {
		t.Errorf("alpha count: got %d, want 0", tags[0].CrumbCount)
	}
	if tags[1].CrumbCount != 1 {
		t.Errorf("zebra count: got %d, want 1", tags[1].CrumbCount)
	}
}

func TestListTagsEmpty(t *testing.T) {
	s := newTestStore(t)

	tags, err := s.ListTags(context.Background())
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if tags == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(tags) != 0 {
		t.Errorf("expected 0 tags, got %d", len(tags))
	}
}
