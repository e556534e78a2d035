package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-cms-backend/auth"
	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rpupo63/portfolio-cms-backend/storage"
	"github.com/rpupo63/portfolio-cms-backend/testutil"
)

const (
	testSecret   = "test-secret-that-is-long-enough-for-hs256"
	testEmail    = "admin@example.com"
	testPassword = "correct-horse-battery"
	testBaseURL  = "http://cms.test"
)

type recordingNotifier struct {
	bookings chan models.Booking
}

func (n recordingNotifier) NotifyBooking(_ context.Context, booking models.Booking) error {
	n.bookings <- booking
	return nil
}

type testAPI struct {
	t        *testing.T
	handler  http.Handler
	db       database.Database
	tokens   *auth.TokenService
	token    string
	adminID  uuid.UUID
	notifier recordingNotifier
	dir      string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	ctx := context.Background()

	db := database.New(testutil.NewDB(t), time.Second)
	tokens, err := auth.NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)

	hash, err := auth.HashPassword(testPassword)
	require.NoError(t, err)
	_, err = db.AdminUserRepo().EnsureAdmin(ctx, testEmail, hash)
	require.NoError(t, err)
	admin, err := db.AdminUserRepo().FindByEmail(ctx, testEmail)
	require.NoError(t, err)
	token, err := tokens.Issue(admin.ID, admin.Role)
	require.NoError(t, err)

	dir := t.TempDir()
	local, err := storage.NewLocal(dir, testBaseURL)
	require.NoError(t, err)

	notifier := recordingNotifier{bookings: make(chan models.Booking, 8)}
	router, err := newRouter(db,
		WithTokens(tokens),
		WithUploader(storage.NewUploader(local)),
		WithStaticDir(local.Root()),
		WithNotifier(notifier),
		WithOrigins([]string{"http://localhost:5173"}),
	)
	require.NoError(t, err)

	return &testAPI{
		t:        t,
		handler:  router,
		db:       db,
		tokens:   tokens,
		token:    token,
		adminID:  admin.ID,
		notifier: notifier,
		dir:      dir,
	}
}

// request sends body as JSON unless it is already a string.
func (a *testAPI) request(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(a.t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return serve(a, req)
}

func serve(a *testAPI, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

// public sends an unauthenticated request.
func (a *testAPI) public(method, path string, body any) *httptest.ResponseRecorder {
	return a.request(method, path, "", body)
}

// admin sends a request with the admin's bearer token.
func (a *testAPI) admin(method, path string, body any) *httptest.ResponseRecorder {
	return a.request(method, path, a.token, body)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	requireStatus(t, rec, status)
	body := decode[ErrorResponse](t, rec)
	assert.Equal(t, message, body.Error)
}

func TestCategoryLifecycle(t *testing.T) {
	a := newTestAPI(t)

	rec := a.admin(http.MethodPost, "/api/categories", map[string]any{"name": "Cloud", "slug": "cloud"})
	requireStatus(t, rec, http.StatusCreated)
	created := decode[models.Category](t, rec)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, 0, created.SortOrder)

	requireStatus(t, a.admin(http.MethodPost, "/api/categories", map[string]any{"name": "Backend", "slug": "backend", "sort_order": 2}), http.StatusCreated)
	requireStatus(t, a.admin(http.MethodPost, "/api/categories", map[string]any{"name": "AI", "slug": "ai", "sort_order": 1}), http.StatusCreated)

	rec = a.public(http.MethodGet, "/api/categories", nil)
	requireStatus(t, rec, http.StatusOK)
	var slugs []string
	for _, c := range decode[[]models.Category](t, rec) {
		slugs = append(slugs, c.Slug)
	}
	assert.Equal(t, []string{"cloud", "ai", "backend"}, slugs)

	rec = a.admin(http.MethodPost, "/api/categories", map[string]any{"name": "Cloud again", "slug": "cloud"})
	assertError(t, rec, http.StatusConflict, "A category with this slug or key already exists")
	assert.Equal(t, "conflict", string(decode[ErrorResponse](t, rec).Kind))

	path := "/api/categories/" + created.ID.String()
	rec = a.admin(http.MethodDelete, path, nil)
	requireStatus(t, rec, http.StatusOK)
	deleted := decode[deleteResponse](t, rec)
	assert.True(t, deleted.Success)
	assert.Equal(t, created.ID, deleted.ID)

	assertError(t, a.admin(http.MethodDelete, path, nil), http.StatusNotFound, "Category not found")
}

func TestCreateRequiresFields(t *testing.T) {
	a := newTestAPI(t)

	tests := []struct {
		path  string
		body  map[string]any
		field string
	}{
		{path: "/api/projects", body: map[string]any{"slug": "x"}, field: "title"},
		{path: "/api/certifications", body: map[string]any{"name": "AWS", "slug": "aws", "issue_date": "2024-01-01"}, field: "issuer"},
		{path: "/api/hackathons", body: map[string]any{"name": "Hack", "slug": "hack"}, field: "event_date"},
		{path: "/api/education", body: map[string]any{"institution": "MIT", "start_date": "2020-09-01"}, field: "degree"},
		{path: "/api/experiences", body: map[string]any{"company": "Acme", "role": "Engineer"}, field: "start_date"},
		{path: "/api/articles", body: map[string]any{"title": "Hello"}, field: "slug"},
		{path: "/api/categories", body: map[string]any{"name": "  ", "slug": "blank"}, field: "name"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := a.admin(http.MethodPost, tt.path, tt.body)
			requireStatus(t, rec, http.StatusBadRequest)
			body := decode[ErrorResponse](t, rec)
			assert.Equal(t, tt.field, body.Field)
			assert.Equal(t, "validation", string(body.Kind))
		})
	}
}

func TestMalformedJSONIsRejected(t *testing.T) {
	a := newTestAPI(t)

	assertError(t, a.admin(http.MethodPost, "/api/articles", `{"title":`), http.StatusBadRequest, "Invalid JSON body")

	rec := a.admin(http.MethodPost, "/api/articles", `{"title":"x","slug":"x","read_time":"long"}`)
	requireStatus(t, rec, http.StatusBadRequest)
	assert.Equal(t, "read_time", decode[ErrorResponse](t, rec).Field)
}

func TestHackathonDisplayDefaults(t *testing.T) {
	a := newTestAPI(t)

	rec := a.admin(http.MethodPost, "/api/hackathons", map[string]any{
		"name": "Global Hack", "slug": "global-hack", "event_date": "2024-05-01",
	})
	requireStatus(t, rec, http.StatusCreated)
	created := decode[models.Hackathon](t, rec)
	assert.False(t, created.ShowScore)
	assert.True(t, created.ShowPosition)
	assert.Equal(t, models.ResultParticipant, created.Result)
	assert.Equal(t, models.StatusDraft, created.Status)

	rec = a.public(http.MethodGet, "/api/hackathons/global-hack", nil)
	requireStatus(t, rec, http.StatusOK)
	fetched := decode[models.Hackathon](t, rec)
	assert.False(t, fetched.ShowScore)
	assert.True(t, fetched.ShowPosition)
	assert.Equal(t, "2024-05-01", fetched.EventDate.String())

	assertError(t, a.public(http.MethodGet, "/api/hackathons/missing", nil), http.StatusNotFound, "Hackathon not found")
}

func TestCertificationNullableAndCoalesce(t *testing.T) {
	a := newTestAPI(t)

	rec := a.admin(http.MethodPost, "/api/certifications", map[string]any{
		"name": "AWS SA", "slug": "aws-sa", "issuer": "Amazon",
		"issue_date": "2024-01-15", "expiry_date": "2027-01-15", "skills": []string{"aws"},
	})
	requireStatus(t, rec, http.StatusCreated)
	cert := decode[models.Certification](t, rec)
	require.NotNil(t, cert.ExpiryDate)
	path := "/api/certifications/" + cert.ID.String()

	rec = a.admin(http.MethodPut, path, `{"expiry_date": null, "issuer": null}`)
	requireStatus(t, rec, http.StatusOK)
	updated := decode[models.Certification](t, rec)
	assert.Nil(t, updated.ExpiryDate)
	assert.Equal(t, "Amazon", updated.Issuer)
	assert.Equal(t, []string{"aws"}, []string(updated.Skills))
	assert.True(t, updated.UpdatedAt.After(cert.UpdatedAt) || updated.UpdatedAt.Equal(cert.UpdatedAt))

	rec = a.admin(http.MethodPut, path, map[string]any{"expiry_date": "2028-03-01", "credential_id": "ABC"})
	requireStatus(t, rec, http.StatusOK)

	rec = a.admin(http.MethodPut, path, map[string]any{"name": "AWS Solutions Architect", "skills": []string{}})
	requireStatus(t, rec, http.StatusOK)
	updated = decode[models.Certification](t, rec)
	require.NotNil(t, updated.ExpiryDate)
	assert.Equal(t, "2028-03-01", updated.ExpiryDate.String())
	require.NotNil(t, updated.CredentialID)
	assert.Equal(t, "ABC", *updated.CredentialID)
	assert.Empty(t, updated.Skills)

	rec = a.admin(http.MethodPut, path, map[string]any{"credential_id": ""})
	requireStatus(t, rec, http.StatusOK)
	assert.Nil(t, decode[models.Certification](t, rec).CredentialID)

	rec = a.admin(http.MethodPut, path, map[string]any{"level": "wizard"})
	requireStatus(t, rec, http.StatusBadRequest)
	assert.Equal(t, "level", decode[ErrorResponse](t, rec).Field)
}

func TestUpdateAndDeleteUnknownRows(t *testing.T) {
	a := newTestAPI(t)
	missing := "/api/articles/" + uuid.NewString()

	assertError(t, a.admin(http.MethodPut, missing, map[string]any{"title": "x"}), http.StatusNotFound, "Article not found")
	assertError(t, a.admin(http.MethodDelete, missing, nil), http.StatusNotFound, "Article not found")
	assertError(t, a.admin(http.MethodPut, "/api/articles/not-a-uuid", map[string]any{"title": "x"}), http.StatusNotFound, "Article not found")
}

func TestTimelineLookupByID(t *testing.T) {
	a := newTestAPI(t)

	rec := a.admin(http.MethodPost, "/api/experiences", map[string]any{
		"company": "Acme", "role": "Engineer", "start_date": "2021-02-01", "end_date": "2022-02-01",
	})
	requireStatus(t, rec, http.StatusCreated)
	exp := decode[models.Experience](t, rec)

	rec = a.public(http.MethodGet, "/api/experiences/"+exp.ID.String(), nil)
	requireStatus(t, rec, http.StatusOK)
	assert.Equal(t, "Acme", decode[models.Experience](t, rec).Company)

	assertError(t, a.public(http.MethodGet, "/api/experiences/acme", nil), http.StatusNotFound, "Experience not found")
}

func TestArticleListFilters(t *testing.T) {
	a := newTestAPI(t)

	for _, body := range []map[string]any{
		{"title": "One", "slug": "one", "status": "published", "featured": true},
		{"title": "Two", "slug": "two", "status": "published"},
		{"title": "Three", "slug": "three"},
	} {
		requireStatus(t, a.admin(http.MethodPost, "/api/articles", body), http.StatusCreated)
	}

	count := func(query string) int {
		rec := a.public(http.MethodGet, "/api/articles"+query, nil)
		requireStatus(t, rec, http.StatusOK)
		return len(decode[[]models.Article](t, rec))
	}
	assert.Equal(t, 3, count(""))
	assert.Equal(t, 2, count("?status=published"))
	assert.Equal(t, 1, count("?status=draft"))
	assert.Equal(t, 1, count("?featured=true"))
	assert.Equal(t, 3, count("?featured=false"))
	assert.Equal(t, 2, count("?limit=2"))

	rec := a.public(http.MethodGet, "/api/articles?status=draft", nil)
	articles := decode[[]models.Article](t, rec)
	require.Len(t, articles, 1)
	assert.Equal(t, 5, articles[0].ReadTime)

	for _, bad := range []string{"abc", "0", "-3"} {
		rec := a.public(http.MethodGet, "/api/articles?limit="+bad, nil)
		assertError(t, rec, http.StatusBadRequest, "invalid limit: must be a positive integer")
	}
}

func TestBookingCreateIsPublic(t *testing.T) {
	a := newTestAPI(t)

	rec := a.public(http.MethodPost, "/api/bookings", map[string]any{
		"meeting_type": "consultation", "booking_date": "2025-06-01", "booking_time": "10:00",
		"client_name": "Sam", "client_email": "sam@example.com", "status": "confirmed",
	})
	requireStatus(t, rec, http.StatusCreated)
	booking := decode[models.Booking](t, rec)
	assert.Equal(t, models.BookingPending, booking.Status)

	select {
	case notified := <-a.notifier.bookings:
		assert.Equal(t, booking.ID, notified.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("booking notification was not sent")
	}

	rec = a.public(http.MethodGet, "/api/bookings", nil)
	requireStatus(t, rec, http.StatusOK)
	assert.Len(t, decode[[]models.Booking](t, rec), 1)

	rec = a.public(http.MethodGet, "/api/bookings/"+booking.ID.String(), nil)
	requireStatus(t, rec, http.StatusOK)
	assert.Equal(t, "Sam", decode[models.Booking](t, rec).ClientName)

	assertError(t, a.public(http.MethodPut, "/api/bookings/"+booking.ID.String(), map[string]any{"status": "confirmed"}),
		http.StatusUnauthorized, "Access token missing")

	rec = a.admin(http.MethodPut, "/api/bookings/"+booking.ID.String(), map[string]any{"status": "confirmed"})
	requireStatus(t, rec, http.StatusOK)
	assert.Equal(t, "confirmed", decode[models.Booking](t, rec).Status)

	rec = a.public(http.MethodPost, "/api/bookings", map[string]any{
		"meeting_type": "call", "booking_date": "2025-06-01", "booking_time": "11:00",
		"client_name": "Sam", "client_email": "not-an-email",
	})
	requireStatus(t, rec, http.StatusBadRequest)
	assert.Equal(t, "client_email", decode[ErrorResponse](t, rec).Field)
}

func TestMutationsRequireToken(t *testing.T) {
	a := newTestAPI(t)
	id := uuid.NewString()

	resources := []string{"projects", "certifications", "hackathons", "education", "experiences", "articles", "categories", "bookings"}
	for _, resource := range resources {
		base := "/api/" + resource
		cases := []struct{ method, path string }{
			{http.MethodPut, base + "/" + id},
			{http.MethodDelete, base + "/" + id},
		}
		if resource != "bookings" {
			cases = append(cases, struct{ method, path string }{http.MethodPost, base})
		}
		for _, c := range cases {
			t.Run(c.method+" "+c.path, func(t *testing.T) {
				rec := a.public(c.method, c.path, map[string]any{})
				assertError(t, rec, http.StatusUnauthorized, "Access token missing")
			})
		}
	}

	for _, c := range []struct{ method, path string }{
		{http.MethodPut, "/api/settings"},
		{http.MethodPost, "/api/upload"},
		{http.MethodPost, "/api/upload/multiple"},
		{http.MethodGet, "/api/auth/me"},
	} {
		t.Run(c.method+" "+c.path, func(t *testing.T) {
			assertError(t, a.public(c.method, c.path, nil), http.StatusUnauthorized, "Access token missing")
		})
	}
}

func TestPublicReadsNeedNoToken(t *testing.T) {
	a := newTestAPI(t)

	for _, path := range []string{
		"/api/projects", "/api/certifications", "/api/hackathons", "/api/education",
		"/api/experiences", "/api/articles", "/api/categories", "/api/bookings", "/api/settings",
	} {
		t.Run(path, func(t *testing.T) {
			rec := a.public(http.MethodGet, path, nil)
			requireStatus(t, rec, http.StatusOK)
		})
	}
}
