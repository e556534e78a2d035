package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-cms-backend/models"
)

func screenshotURLs(p models.Project) []string {
	urls := make([]string, 0, len(p.Screenshots))
	for _, s := range p.Screenshots {
		urls = append(urls, s.ImageURL)
	}
	return urls
}

func TestProjectScreenshotsReplacedOnUpdate(t *testing.T) {
	a := newTestAPI(t)

	rec := a.admin(http.MethodPost, "/api/projects", map[string]any{
		"title": "CMS", "slug": "cms",
		"metrics":     []map[string]any{{"label": "Users", "value": "1k"}},
		"stack":       map[string][]string{"backend": {"Go"}},
		"screenshots": []map[string]any{{"image_url": "https://img/a.png"}, {"image_url": "https://img/b.png", "caption": "B"}},
	})
	requireStatus(t, rec, http.StatusCreated)
	project := decode[models.Project](t, rec)
	assert.Equal(t, []string{"https://img/a.png", "https://img/b.png"}, screenshotURLs(project))
	assert.Equal(t, models.StatusDraft, project.Status)
	assert.Equal(t, []string{"Go"}, project.Stack.Data()["backend"])
	path := "/api/projects/" + project.ID.String()

	rec = a.admin(http.MethodPut, path, map[string]any{
		"screenshots": []map[string]any{{"image_url": "https://img/c.png"}},
	})
	requireStatus(t, rec, http.StatusOK)
	assert.Equal(t, []string{"https://img/c.png"}, screenshotURLs(decode[models.Project](t, rec)))

	rec = a.admin(http.MethodPut, path, map[string]any{"tagline": "Content for everyone"})
	requireStatus(t, rec, http.StatusOK)
	updated := decode[models.Project](t, rec)
	assert.Equal(t, []string{"https://img/c.png"}, screenshotURLs(updated))
	require.NotNil(t, updated.Tagline)
	assert.Len(t, updated.Metrics, 1)

	rec = a.public(http.MethodGet, "/api/projects/cms", nil)
	requireStatus(t, rec, http.StatusOK)
	assert.Equal(t, []string{"https://img/c.png"}, screenshotURLs(decode[models.Project](t, rec)))

	rec = a.admin(http.MethodPut, path, map[string]any{"screenshots": []map[string]any{}})
	requireStatus(t, rec, http.StatusOK)
	assert.Empty(t, decode[models.Project](t, rec).Screenshots)

	rec = a.admin(http.MethodPut, path, map[string]any{"screenshots": []map[string]any{{"caption": "no url"}}})
	requireStatus(t, rec, http.StatusBadRequest)
	assert.Equal(t, "screenshots", decode[ErrorResponse](t, rec).Field)
}

func TestProjectDeleteCascadesScreenshots(t *testing.T) {
	a := newTestAPI(t)

	rec := a.admin(http.MethodPost, "/api/projects", map[string]any{
		"title": "CMS", "slug": "cms",
		"screenshots": []map[string]any{{"image_url": "https://img/a.png"}},
	})
	requireStatus(t, rec, http.StatusCreated)
	project := decode[models.Project](t, rec)
	path := "/api/projects/" + project.ID.String()

	requireStatus(t, a.admin(http.MethodDelete, path, nil), http.StatusOK)
	assertError(t, a.admin(http.MethodDelete, path, nil), http.StatusNotFound, "Project not found")
	assertError(t, a.public(http.MethodGet, "/api/projects/cms", nil), http.StatusNotFound, "Project not found")

	n, err := a.db.ProjectRepo().CountScreenshots(context.Background(), project.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestProjectListFiltersAndShape(t *testing.T) {
	a := newTestAPI(t)

	rec := a.admin(http.MethodPost, "/api/categories", map[string]any{"name": "Cloud", "slug": "cloud"})
	requireStatus(t, rec, http.StatusCreated)
	cloud := decode[models.Category](t, rec)

	for _, body := range []map[string]any{
		{"title": "One", "slug": "one", "status": "published", "featured": true, "category_id": cloud.ID.String(),
			"screenshots": []map[string]any{{"image_url": "https://img/1.png"}}},
		{"title": "Two", "slug": "two", "status": "published"},
		{"title": "Three", "slug": "three", "status": "draft", "category_id": cloud.ID.String()},
	} {
		requireStatus(t, a.admin(http.MethodPost, "/api/projects", body), http.StatusCreated)
	}

	list := func(query string) []models.Project {
		rec := a.public(http.MethodGet, "/api/projects"+query, nil)
		requireStatus(t, rec, http.StatusOK)
		return decode[[]models.Project](t, rec)
	}

	all := list("")
	require.Len(t, all, 3)
	for _, p := range all {
		assert.NotNil(t, p.Screenshots, p.Slug)
	}

	published := list("?status=published")
	assert.Len(t, published, 2)
	for _, p := range published {
		assert.Equal(t, models.StatusPublished, p.Status)
	}

	featured := list("?featured=true")
	require.Len(t, featured, 1)
	assert.Equal(t, "one", featured[0].Slug)
	assert.Equal(t, []string{"https://img/1.png"}, screenshotURLs(featured[0]))
	assert.Len(t, list("?featured=false"), 3)

	assert.Len(t, list("?category=cloud"), 2)
	assert.Len(t, list("?category=cloud&status=draft"), 1)
	assert.Empty(t, list("?category=missing"))
	assert.Len(t, list("?limit=1"), 1)

	rec = a.public(http.MethodGet, "/api/projects/one", nil)
	requireStatus(t, rec, http.StatusOK)
	one := decode[models.Project](t, rec)
	require.NotNil(t, one.Category)
	assert.Equal(t, "cloud", one.Category.Slug)

	rec = a.public(http.MethodGet, "/api/projects/two", nil)
	requireStatus(t, rec, http.StatusOK)
	two := decode[map[string]any](t, rec)
	assert.Contains(t, two, "category")
	assert.Nil(t, two["category"])
	assert.Equal(t, "two", two["slug"])

	rec = a.public(http.MethodGet, "/api/projects?category=cloud&status=published", nil)
	requireStatus(t, rec, http.StatusOK)
	items := decode[[]map[string]any](t, rec)
	require.Len(t, items, 1)
	assert.NotContains(t, items[0], "category")

	assertError(t, a.public(http.MethodGet, "/api/projects?limit=ten", nil), http.StatusBadRequest, "invalid limit: must be a positive integer")
}

func TestProjectSlugConflicts(t *testing.T) {
	a := newTestAPI(t)

	requireStatus(t, a.admin(http.MethodPost, "/api/projects", map[string]any{"title": "A", "slug": "a"}), http.StatusCreated)
	rec := a.admin(http.MethodPost, "/api/projects", map[string]any{"title": "B", "slug": "b"})
	requireStatus(t, rec, http.StatusCreated)
	b := decode[models.Project](t, rec)

	assertError(t, a.admin(http.MethodPost, "/api/projects", map[string]any{"title": "A2", "slug": "a"}),
		http.StatusConflict, "A project with this slug or key already exists")
	assertError(t, a.admin(http.MethodPut, "/api/projects/"+b.ID.String(), map[string]any{"slug": "a"}),
		http.StatusConflict, "A project with this slug or key already exists")

	rec = a.admin(http.MethodPut, "/api/projects/"+b.ID.String(), map[string]any{"slug": ""})
	requireStatus(t, rec, http.StatusBadRequest)
	assert.Equal(t, "slug", decode[ErrorResponse](t, rec).Field)
}
