package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/emrgen/cms/internal/ai"
	"github.com/emrgen/cms/internal/cache"
	"github.com/emrgen/cms/internal/queue"
	"github.com/emrgen/cms/internal/service"
	"github.com/emrgen/cms/internal/store"
	"github.com/emrgen/cms/internal/tester"
	"github.com/emrgen/cms/internal/token"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubModel struct {
	reply string
	err   error
	calls int
}

func (m *stubModel) Complete(context.Context, string, string, int64) (string, error) {
	m.calls++
	return m.reply, m.err
}

type testServer struct {
	router *gin.Engine
	events *queue.Recorder
}

func newTestServer(t *testing.T, model ai.Model) *testServer {
	t.Helper()

	tester.Setup()
	t.Cleanup(tester.RemoveDBFile)

	return newTestServerWithStore(t, store.NewGormStore(tester.TestDB()), model)
}

func newTestServerWithStore(t *testing.T, s store.Store, model ai.Model) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	events := &queue.Recorder{}
	tokens := token.NewManager("test-secret", time.Hour)
	handler := NewHandler(
		service.NewContentService(s, cache.NewNop(), events),
		service.NewAuthService(s, tokens),
		ai.NewGateway(model, 0),
		tokens,
	)

	return &testServer{router: NewRouter(handler, nil), events: events}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &out)
	}
	return rec, out
}

// register signs up a new owner and returns the session token and organization slug.
func (ts *testServer) register(t *testing.T, email, organization string) (string, string) {
	t.Helper()

	rec, body := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":            email,
		"password":         "correct-horse",
		"name":             "Owner",
		"organizationName": organization,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	org := body["organization"].(map[string]any)
	return body["token"].(string), org["slug"].(string)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)

	rec, body := ts.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, false, body["ai"].(map[string]any)["enabled"])
}

func TestAuthRoutes(t *testing.T) {
	ts := newTestServer(t, nil)

	token, slug := ts.register(t, "owner@acme.test", "Acme Inc")
	assert.Equal(t, "acme-inc", slug)

	rec, body := ts.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "owner@acme.test", body["user"].(map[string]any)["email"])

	rec, _ = ts.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email":            "owner@acme.test",
		"password":         "correct-horse",
		"organizationName": "Other",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = ts.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{"email": "nobody", "password": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = ts.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "owner@acme.test", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, body = ts.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "owner@acme.test", "password": "correct-horse"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, body["token"])

	rec, _ = ts.do(t, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestContentLifecycle(t *testing.T) {
	ts := newTestServer(t, nil)
	token, slug := ts.register(t, "owner@acme.test", "Acme")

	rec, _ := ts.do(t, http.MethodGet, "/api/v1/content", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = ts.do(t, http.MethodPost, "/api/v1/content", token, gin.H{"title": "", "body": "<p>x</p>"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, created := ts.do(t, http.MethodPost, "/api/v1/content", token, gin.H{
		"title":   "Hello World",
		"content": "<p>first</p>",
		"type":    "post",
		"tags":    []string{"go", "go", "web"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := created["id"].(string)
	assert.Equal(t, "hello-world", created["slug"])
	assert.Equal(t, "DRAFT", created["status"])
	assert.Equal(t, "POST", created["type"])
	assert.Equal(t, "<p>first</p>", created["body"])
	assert.Nil(t, created["publishedAt"])
	assert.Len(t, created["tags"], 2)

	// drafts are invisible to the public
	rec, _ = ts.do(t, http.MethodGet, "/api/v1/public/"+slug+"/content/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, updated := ts.do(t, http.MethodPut, "/api/v1/content/"+id, token, gin.H{"body": "<p>second</p>"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<p>second</p>", updated["body"])

	rec, published := ts.do(t, http.MethodPost, "/api/v1/content/"+id+"/publish", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "PUBLISHED", published["status"])
	assert.NotNil(t, published["publishedAt"])

	rec, public := ts.do(t, http.MethodGet, "/api/v1/public/"+slug+"/content/"+id, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), public["viewCount"])
	assert.NotContains(t, public, "authorId")

	rec, list := ts.do(t, http.MethodGet, "/api/v1/public/"+slug+"/content", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, list["items"], 1)

	rec, _ = ts.do(t, http.MethodGet, "/api/v1/public/unknown-org/content", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, revisions := ts.do(t, http.MethodGet, "/api/v1/content/"+id+"/revisions", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, revisions["items"])

	rec, restored := ts.do(t, http.MethodPost, "/api/v1/content/"+id+"/revisions/0/restore", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "<p>first</p>", restored["body"])

	rec, _ = ts.do(t, http.MethodGet, "/api/v1/content/"+id+"/revisions/999", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = ts.do(t, http.MethodGet, "/api/v1/content/"+id+"/revisions/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, unpublished := ts.do(t, http.MethodPost, "/api/v1/content/"+id+"/unpublish", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "DRAFT", unpublished["status"])
	assert.Nil(t, unpublished["publishedAt"])

	rec, stats := ts.do(t, http.MethodGet, "/api/v1/content/stats", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), stats["total"])
	assert.Equal(t, float64(1), stats["draft"])

	rec, _ = ts.do(t, http.MethodDelete, "/api/v1/content/"+id, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = ts.do(t, http.MethodDelete, "/api/v1/content/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = ts.do(t, http.MethodGet, "/api/v1/content/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Equal(t, []queue.ContentEventType{
		queue.ContentCreated,
		queue.ContentUpdated,
		queue.ContentUpdated,
		queue.ContentPublished,
		queue.ContentUpdated,
		queue.ContentUpdated,
		queue.ContentUnpublished,
		queue.ContentDeleted,
	}, ts.events.Types())
}

func TestContentTenantIsolation(t *testing.T) {
	ts := newTestServer(t, nil)
	acme, _ := ts.register(t, "owner@acme.test", "Acme")
	globex, _ := ts.register(t, "owner@globex.test", "Globex")

	rec, created := ts.do(t, http.MethodPost, "/api/v1/content", acme, gin.H{"title": "Secret", "body": "<p>x</p>"})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := created["id"].(string)

	rec, _ = ts.do(t, http.MethodGet, "/api/v1/content/"+id, globex, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = ts.do(t, http.MethodPut, "/api/v1/content/"+id, globex, gin.H{"title": "Mine"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, list := ts.do(t, http.MethodGet, "/api/v1/content", globex, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, list["items"])
}

func TestListContentQuery(t *testing.T) {
	ts := newTestServer(t, nil)
	token, _ := ts.register(t, "owner@acme.test", "Acme")

	for _, title := range []string{"Alpha", "Beta", "Gamma"} {
		rec, _ := ts.do(t, http.MethodPost, "/api/v1/content", token, gin.H{"title": title, "body": "<p>x</p>"})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, body := ts.do(t, http.MethodGet, "/api/v1/content?limit=2&page=2&sort=title&order=asc", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := body["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "Gamma", items[0].(map[string]any)["title"])
	assert.Equal(t, map[string]any{"page": float64(2), "limit": float64(2), "total": float64(3), "pages": float64(2)}, body["pagination"])

	rec, body = ts.do(t, http.MethodGet, "/api/v1/content?search=beta", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["items"], 1)

	for _, query := range []string{"page=x", "limit=x", "sort=nope", "order=sideways", "status=gone", "type=video"} {
		rec, _ := ts.do(t, http.MethodGet, "/api/v1/content?"+query, token, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
	}
}

func TestAIRoutesDisabled(t *testing.T) {
	ts := newTestServer(t, nil)
	token, _ := ts.register(t, "owner@acme.test", "Acme")

	rec, body := ts.do(t, http.MethodGet, "/api/v1/ai/status", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, body["enabled"])

	rec, body = ts.do(t, http.MethodPost, "/api/v1/ai/generate", token, gin.H{"topic": "Go"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "ai generation is not configured", body["error"])

	rec, _ = ts.do(t, http.MethodPost, "/api/v1/ai/ideas", "", gin.H{"topic": "Go"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAIGenerate(t *testing.T) {
	model := &stubModel{reply: `{
		"title": "Go Generics",
		"content": "<h2>Intro</h2><p>Type parameters.</p>",
		"excerpt": "Type parameters.",
		"suggestedTags": ["go", "generics", "types"]
	}`}
	ts := newTestServer(t, model)
	token, _ := ts.register(t, "owner@acme.test", "Acme")

	rec, body := ts.do(t, http.MethodPost, "/api/v1/ai/generate", token, gin.H{"topic": "Go Generics"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Go Generics", body["data"].(map[string]any)["title"])
	metadata := body["metadata"].(map[string]any)
	assert.Equal(t, float64(60), metadata["qualityScore"])
	assert.Equal(t, false, metadata["regenerated"])
	assert.Equal(t, 1, model.calls)

	rec, _ = ts.do(t, http.MethodPost, "/api/v1/ai/generate", token, gin.H{"topic": " "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAIListsFallBack(t *testing.T) {
	ts := newTestServer(t, &stubModel{err: errors.New("boom")})
	token, _ := ts.register(t, "owner@acme.test", "Acme")

	rec, body := ts.do(t, http.MethodPost, "/api/v1/ai/titles", token, gin.H{"topic": "Go", "count": 3})
	require.Equal(t, http.StatusOK, rec.Code)
	titles := body["titles"].([]any)
	require.Len(t, titles, 3)
	assert.Equal(t, "The Complete Guide to Go", titles[0])

	rec, body = ts.do(t, http.MethodPost, "/api/v1/ai/ideas", token, gin.H{"topic": "Go"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["ideas"], 3)

	// improvement has no fallback
	rec, _ = ts.do(t, http.MethodPost, "/api/v1/ai/improve", token, gin.H{"content": "<p>x</p>"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{err: service.ErrValidation, status: http.StatusBadRequest},
		{err: ai.ErrInvalidRequest, status: http.StatusBadRequest},
		{err: service.ErrUnauthorized, status: http.StatusUnauthorized},
		{err: service.ErrForbidden, status: http.StatusForbidden},
		{err: service.ErrConflict, status: http.StatusConflict},
		{err: ai.ErrDisabled, status: http.StatusServiceUnavailable},
		{err: &ai.GenerationError{Kind: ai.KindRateLimited, Op: "generate"}, status: http.StatusTooManyRequests},
		{err: &ai.GenerationError{Kind: ai.KindUpstream, Op: "generate"}, status: http.StatusBadGateway},
		{err: errors.New("disk full"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, statusFor(tt.err), tt.err.Error())
	}
}

// blindSlugStore reports every content slug as free, leaving collisions to the unique index.
type blindSlugStore struct {
	store.Store
}

func (b blindSlugStore) SlugExists(context.Context, string, string, string) (bool, error) {
	return false, nil
}

func (b blindSlugStore) Transaction(ctx context.Context, f func(tx store.Store) error) error {
	return b.Store.Transaction(ctx, func(tx store.Store) error {
		return f(blindSlugStore{tx})
	})
}

func TestContentSlugCollisionIsConflict(t *testing.T) {
	tester.Setup()
	t.Cleanup(tester.RemoveDBFile)

	ts := newTestServerWithStore(t, blindSlugStore{store.NewGormStore(tester.TestDB())}, nil)
	token, _ := ts.register(t, "owner@acme.test", "Acme")

	rec, _ := ts.do(t, http.MethodPost, "/api/v1/content", token, gin.H{"title": "Hello World", "content": "<p>x</p>"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, body := ts.do(t, http.MethodPost, "/api/v1/content", token, gin.H{"title": "Hello World", "content": "<p>y</p>"})
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	assert.Contains(t, body["error"], "hello-world")
}
