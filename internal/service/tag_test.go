package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/breadcrumbsapp/breadcrumbs-server/internal/errors"
)

func TestTagList(t *testing.T) {
	crumbs, _, tags, _ := newTestServices(t)
	ctx := context.Background()

	_, err := crumbs.Create(ctx, CreateCrumbInput{BodyMD: "one", Tags: []string{"zebra", "alpha"}})
	require.NoError(t, err)
	_, err = crumbs.Create(ctx, CreateCrumbInput{BodyMD: "two", Tags: []string{"alpha"}})
	require.NoError(t, err)

	all, err := tags.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	assert.Equal(t, "alpha", all[0].Slug)
	assert.Equal(t, 2, all[0].CrumbCount)
	assert.Equal(t, "zebra", all[1].Slug)
	assert.Equal(t, 1, all[1].CrumbCount)
}

func TestTagGetNormalizesInput(t *testing.T) {
	crumbs, _, tags, _ := newTestServices(t)
	ctx := context.Background()

	_, err := crumbs.Create(ctx, CreateCrumbInput{BodyMD: "body", Tags: []string{"Slow Burn"}})
	require.NoError(t, err)

	tag, err := tags.Get(ctx, "Slow Burn")
	require.NoError(t, err)
	assert.Equal(t, "slow-burn", tag.Slug)
	assert.Equal(t, "Slow Burn", tag.DisplayName())
}

func TestTagGetNotFound(t *testing.T) {
	_, _, tags, _ := newTestServices(t)

	_, err := tags.Get(context.Background(), "unknown")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestTagGetEmptySlug(t *testing.T) {
	_, _, tags, _ := newTestServices(t)

	_, err := tags.Get(context.Background(), "!!!")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestTagListCrumbs(t *testing.T) {
	crumbs, _, tags, _ := newTestServices(t)
	ctx := context.Background()

	tagged, err := crumbs.Create(ctx, CreateCrumbInput{BodyMD: "tagged", Tags: []string{"go"}})
	require.NoError(t, err)
	_, err = crumbs.Create(ctx, CreateCrumbInput{BodyMD: "untagged"})
	require.NoError(t, err)

	page, err := tags.ListCrumbs(ctx, "go", ListParams{})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, tagged.ID, page.Items[0].ID)
	assert.Equal(t, []string{"go"}, page.Items[0].Tags)
}

func TestTagListCrumbsUnknownTag(t *testing.T) {
	_, _, tags, _ := newTestServices(t)

	// An unknown tag is a 404, not an empty page.
	_, err := tags.ListCrumbs(context.Background(), "nope", ListParams{})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestOrphanTagSurvivesRetagging(t *testing.T) {
	crumbs, _, tags, _ := newTestServices(t)
	ctx := context.Background()

	created, err := crumbs.Create(ctx, CreateCrumbInput{BodyMD: "body", Tags: []string{"ephemeral"}})
	require.NoError(t, err)

	// Replace the tag set; the old tag row stays with count zero.
	newTags := []string{"replacement"}
	_, err = crumbs.Update(ctx, created.ID, UpdateCrumbInput{Tags: &newTags})
	require.NoError(t, err)

	orphan, err := tags.Get(ctx, "ephemeral")
	require.NoError(t, err)
	assert.Equal(t, "ephemeral", orphan.Slug)

	page, err := tags.ListCrumbs(ctx, "ephemeral", ListParams{})
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)
}
