package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breadcrumbsapp/breadcrumbs-server/internal/service"
	"github.com/breadcrumbsapp/breadcrumbs-server/internal/store/sqlite"
	"github.com/breadcrumbsapp/breadcrumbs-server/internal/validation"
)

// testServer wraps the API server for handler testing.
type testServer struct {
	*Server
	api humatest.TestAPI
}

// setupTestServer creates a server backed by a throwaway SQLite file.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	st, err := sqlite.Open(dbPath, logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	validator := validation.New()
	crumbService := service.NewCrumbService(st, validator, logger)
	unitService := service.NewUnitService(st, crumbService, validator, logger)
	tagService := service.NewTagService(st, crumbService, logger)

	s := NewServer(st, &Services{
		Crumb: crumbService,
		Unit:  unitService,
		Tag:   tagService,
	}, Options{}, logger)

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
	}
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v))
	return v
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	assert.Equal(t, http.StatusOK, resp.Code)

	health := decode[HealthResponse](t, resp.Body.Bytes())
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "healthy", health.Components["database"].Status)
}

func TestCreateAndGetCrumb(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/crumbs", map[string]any{
		"body_md":    "# First note",
		"visibility": "published",
		"tags":       []string{"First Tag"},
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	created := decode[CrumbResponse](t, resp.Body.Bytes())
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "# First note", created.BodyMD)
	assert.Equal(t, "published", created.Visibility)
	assert.Equal(t, []string{"first-tag"}, created.Tags)

	resp = ts.api.Get("/api/v1/crumbs/" + created.ID)
	require.Equal(t, http.StatusOK, resp.Code)

	got := decode[CrumbResponse](t, resp.Body.Bytes())
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.BodyMD, got.BodyMD)
	assert.Equal(t, created.Tags, got.Tags)
}

func TestCreateCrumbFromHTML(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/crumbs", map[string]any{
		"body_html": "<p>Pasted <em>rich</em> text</p>",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	created := decode[CrumbResponse](t, resp.Body.Bytes())
	assert.Contains(t, created.BodyMD, "*rich*")
	assert.Equal(t, "draft", created.Visibility)
}

func TestCreateCrumbValidation(t *testing.T) {
	ts := setupTestServer(t)

	// No body at all.
	resp := ts.api.Post("/api/v1/crumbs", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	apiErr := decode[APIError](t, resp.Body.Bytes())
	assert.Equal(t, "VALIDATION", apiErr.Code)

	// Unknown unit.
	resp = ts.api.Post("/api/v1/crumbs", map[string]any{
		"body_md": "text",
		"unit_id": "unit-missing",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// Bad visibility.
	resp = ts.api.Post("/api/v1/crumbs", map[string]any{
		"body_md":    "text",
		"visibility": "secret",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestGetCrumbNotFound(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/crumbs/crumb-missing")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	apiErr := decode[APIError](t, resp.Body.Bytes())
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
}

func TestUpdateCrumb(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/crumbs", map[string]any{"body_md": "v1"})
	require.Equal(t, http.StatusCreated, resp.Code)
	created := decode[CrumbResponse](t, resp.Body.Bytes())

	resp = ts.api.Patch("/api/v1/crumbs/"+created.ID, map[string]any{
		"body_md":    "v2",
		"visibility": "published",
		"tags":       []string{"added"},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	updated := decode[CrumbResponse](t, resp.Body.Bytes())
	assert.Equal(t, "v2", updated.BodyMD)
	assert.Equal(t, "published", updated.Visibility)
	assert.Equal(t, []string{"added"}, updated.Tags)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
}

func TestUpdateCrumbNotFound(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Patch("/api/v1/crumbs/crumb-missing", map[string]any{"body_md": "x"})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestListCrumbsFiltering(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/units", map[string]any{"name": "session"})
	require.Equal(t, http.StatusCreated, resp.Code)
	unit := decode[UnitResponse](t, resp.Body.Bytes())

	resp = ts.api.Post("/api/v1/crumbs", map[string]any{
		"body_md": "in the unit",
		"unit_id": unit.ID,
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = ts.api.Post("/api/v1/crumbs", map[string]any{
		"body_md":    "published and tagged",
		"visibility": "published",
		"tags":       []string{"go"},
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	// All crumbs, newest first.
	resp = ts.api.Get("/api/v1/crumbs")
	require.Equal(t, http.StatusOK, resp.Code)
	list := decode[CrumbListResponse](t, resp.Body.Bytes())
	assert.Equal(t, 2, list.Total)
	assert.False(t, list.HasMore)
	assert.Equal(t, "published and tagged", list.Items[0].BodyMD)

	// Filter by unit.
	resp = ts.api.Get("/api/v1/crumbs?unit_id=" + unit.ID)
	require.Equal(t, http.StatusOK, resp.Code)
	list = decode[CrumbListResponse](t, resp.Body.Bytes())
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "in the unit", list.Items[0].BodyMD)
	require.NotNil(t, list.Items[0].Unit)
	assert.Equal(t, "session", list.Items[0].Unit.Name)

	// Filter by tag.
	resp = ts.api.Get("/api/v1/crumbs?tag=go")
	require.Equal(t, http.StatusOK, resp.Code)
	list = decode[CrumbListResponse](t, resp.Body.Bytes())
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "published and tagged", list.Items[0].BodyMD)

	// Filter by visibility.
	resp = ts.api.Get("/api/v1/crumbs?visibility=draft")
	require.Equal(t, http.StatusOK, resp.Code)
	list = decode[CrumbListResponse](t, resp.Body.Bytes())
	assert.Equal(t, 1, list.Total)

	// Full-text query.
	resp = ts.api.Get("/api/v1/crumbs?q=published")
	require.Equal(t, http.StatusOK, resp.Code)
	list = decode[CrumbListResponse](t, resp.Body.Bytes())
	assert.Equal(t, 1, list.Total)

	// A whitespace-only query is treated as no query, never an error.
	resp = ts.api.Get("/api/v1/crumbs?q=%20%20")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	list = decode[CrumbListResponse](t, resp.Body.Bytes())
	assert.Equal(t, 2, list.Total)
}

func TestUnitEndpoints(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/units", map[string]any{"name": "morning pages"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	unit := decode[UnitResponse](t, resp.Body.Bytes())
	assert.Contains(t, unit.ID, "unit-")

	resp = ts.api.Get("/api/v1/units/" + unit.ID)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/units")
	require.Equal(t, http.StatusOK, resp.Code)
	units := decode[ListUnitsResponse](t, resp.Body.Bytes())
	require.Len(t, units.Units, 1)
	assert.Equal(t, "morning pages", units.Units[0].Name)

	// Empty unit still lists fine.
	resp = ts.api.Get("/api/v1/units/" + unit.ID + "/crumbs")
	require.Equal(t, http.StatusOK, resp.Code)
	list := decode[CrumbListResponse](t, resp.Body.Bytes())
	assert.Equal(t, 0, list.Total)

	resp = ts.api.Get("/api/v1/units/unit-missing")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Post("/api/v1/units", map[string]any{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestTagEndpoints(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/crumbs", map[string]any{
		"body_md": "body",
		"tags":    []string{"Slow Burn", "go"},
	})
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = ts.api.Get("/api/v1/tags")
	require.Equal(t, http.StatusOK, resp.Code)
	tags := decode[ListTagsResponse](t, resp.Body.Bytes())
	require.Len(t, tags.Tags, 2)
	assert.Equal(t, "go", tags.Tags[0].Slug)
	assert.Equal(t, 1, tags.Tags[0].CrumbCount)
	assert.Equal(t, "slow-burn", tags.Tags[1].Slug)
	assert.Equal(t, "Slow Burn", tags.Tags[1].Name)

	resp = ts.api.Get("/api/v1/tags/slow-burn")
	require.Equal(t, http.StatusOK, resp.Code)
	tag := decode[TagResponse](t, resp.Body.Bytes())
	assert.Equal(t, "slow-burn", tag.Slug)

	resp = ts.api.Get("/api/v1/tags/slow-burn/crumbs")
	require.Equal(t, http.StatusOK, resp.Code)
	list := decode[CrumbListResponse](t, resp.Body.Bytes())
	assert.Equal(t, 1, list.Total)

	resp = ts.api.Get("/api/v1/tags/missing")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Get("/api/v1/tags/missing/crumbs")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
