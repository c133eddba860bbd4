package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"modion/internal/auth"
	"modion/internal/cache"
	"modion/internal/config"
	"modion/internal/db"
	"modion/internal/handler"
	"modion/internal/mailer"
	"modion/internal/media"
	"modion/internal/repository"
	"modion/internal/service"
)

// memoryStore is an in-process media.Store.
type memoryStore struct {
	mu      sync.Mutex
	n       int
	deleted []string
}

func (s *memoryStore) Upload(_ context.Context, _ media.Source, folder, _ string) (*media.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	id := fmt.Sprintf("%s/img%d", folder, s.n)
	return &media.Asset{URL: "https://res.cloudinary.com/demo/image/upload/v1/" + id + ".png", PublicID: id}, nil
}

func (s *memoryStore) Delete(_ context.Context, publicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, publicID)
	return nil
}

func (s *memoryStore) PublicIDFromURL(string) string {
	return ""
}

type testServer struct {
	e     *echo.Echo
	db    *gorm.DB
	store *memoryStore
}

func newTestServer(t *testing.T, health ...func(*gorm.DB) func(context.Context) error) *testServer {
	t.Helper()
	gormDB, err := db.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	cfg := &config.Config{CORSOrigins: []string{"http://localhost:5173"}}
	store := &memoryStore{}
	mail := mailer.NewResend("", "test@example.com", true)

	jwtService := auth.NewJWTService("test-secret", time.Hour)
	authService := service.NewAuthService(repository.NewUserRepository(gormDB), jwtService, auth.NewTokenStore(nil), nil)

	var check func(context.Context) error
	if len(health) > 0 {
		check = health[0](gormDB)
	}
	articleService := service.NewArticleService(repository.NewArticleRepository(gormDB), store, "articles")

	e := echo.New()
	Register(e, cfg, jwtService, authService, Handlers{
		Auth:      handler.NewAuthHandler(authService, jwtService.Expiry(), false),
		Article:   handler.NewArticleHandler(articleService, 1<<20),
		Contact:   handler.NewContactHandler(service.NewContactService(repository.NewContactRepository(gormDB), mail)),
		Subscribe: handler.NewSubscribeHandler(service.NewSubscribeService(repository.NewSubscriberRepository(gormDB), mail)),
	}, check)

	return &testServer{e: e, db: gormDB, store: store}
}

func (s *testServer) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) json(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return s.do(req, token)
}

func (s *testServer) register(t *testing.T, name, email string) string {
	t.Helper()
	rec := s.json(http.MethodPost, "/api/auth/register",
		fmt.Sprintf(`{"name":%q,"email":%q,"password":"secret12"}`, name, email), "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body handler.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "user", body.User.Role)
	return body.Token
}

func articleForm(t *testing.T, method, path string, fields map[string]string, withImage bool) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if withImage {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="image"; filename="cover.png"`)
		h.Set("Content-Type", "image/png")
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte("png"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func decodeArticle(t *testing.T, rec *httptest.ResponseRecorder) handler.ArticleResponse {
	t.Helper()
	var a handler.ArticleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))
	return a
}

func TestArticleLifecycle(t *testing.T) {
	s := newTestServer(t)
	ann := s.register(t, "Ann", "a@x.com")
	eve := s.register(t, "Eve", "e@x.com")

	fields := map[string]string{
		"title":    "Hello Go",
		"category": "Technology",
		"sections": `[{"title":"Intro","content":"Go makes concurrency simple"}]`,
		"tags":     `["go","backend"]`,
		"featured": "true",
	}

	rec := s.do(articleForm(t, http.MethodPost, "/api/articles", fields, false), ann)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Image file is required")

	rec = s.do(articleForm(t, http.MethodPost, "/api/articles", fields, true), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(articleForm(t, http.MethodPost, "/api/articles", fields, true), ann)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeArticle(t, rec)
	assert.Equal(t, "Ann", created.Author)
	assert.Equal(t, "1 min read", created.ReadingTime)
	assert.Equal(t, []string{"go", "backend"}, created.Tags)
	assert.True(t, created.Featured)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/articles/"+created.ID, nil), "")
	require.Equal(t, http.StatusOK, rec.Code)
	fetched := decodeArticle(t, rec)
	assert.Equal(t, created.Title, fetched.Title)
	assert.Equal(t, created.Sections, fetched.Sections)
	assert.Equal(t, created.Tags, fetched.Tags)

	rec = s.json(http.MethodPut, "/api/articles/"+created.ID, `{"title":"Hijacked"}`, eve)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/articles/"+created.ID, nil), "")
	assert.Equal(t, "Hello Go", decodeArticle(t, rec).Title)

	rec = s.do(articleForm(t, http.MethodPut, "/api/articles/"+created.ID, map[string]string{"title": "Hello Again"}, true), ann)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Hello Again", decodeArticle(t, rec).Title)
	assert.Equal(t, []string{"articles/img1"}, s.store.deleted)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/articles/search?q=", nil), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/articles/search?q=CONCURRENCY", nil), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var found []handler.ArticleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &found))
	assert.Len(t, found, 1)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/articles/categories", nil), "")
	assert.JSONEq(t, `[{"category":"Technology","count":1}]`, rec.Body.String())

	rec = s.json(http.MethodDelete, "/api/articles/"+created.ID, "", eve)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.json(http.MethodDelete, "/api/articles/"+created.ID, "", ann)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"articles/img1", "articles/img2"}, s.store.deleted)

	for i := 0; i < 2; i++ {
		rec = s.json(http.MethodDelete, "/api/articles/"+created.ID, "", ann)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}
}

func TestDraftsAreInvisible(t *testing.T) {
	s := newTestServer(t)
	ann := s.register(t, "Ann", "a@x.com")

	rec := s.do(articleForm(t, http.MethodPost, "/api/articles", map[string]string{
		"id":       "secret-draft",
		"title":    "Draft",
		"category": "ideas",
		"sections": `[{"content":"hidden words"}]`,
		"featured": "true",
		"status":   "draft",
	}, true), ann)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/articles/secret-draft", nil), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	for _, path := range []string{
		"/api/articles",
		"/api/articles/featured",
		"/api/articles/category/ideas",
		"/api/articles/search?q=hidden",
		"/api/articles/categories",
	} {
		rec = s.do(httptest.NewRequest(http.MethodGet, path, nil), "")
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()), path)
	}

	rec = s.do(articleForm(t, http.MethodPost, "/api/articles", map[string]string{
		"id":       "secret-draft",
		"title":    "Again",
		"category": "ideas",
		"sections": `[{"content":"x"}]`,
	}, true), ann)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Article ID already exists")
}

func TestSubscribeTwice(t *testing.T) {
	s := newTestServer(t)

	rec := s.json(http.MethodPost, "/api/subscribe", `{"email":"News@Example.com"}`, "")
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `"Subscription successful!"`, rec.Body.String())

	rec = s.json(http.MethodPost, "/api/subscribe", `{"email":"news@example.com "}`, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `"You're already subscribed"`, rec.Body.String())
}

func TestContactAndHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.json(http.MethodPost, "/api/contact", `{"name":"Ann","email":"a@x.com","subject":"Hi","message":"Hello"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/healthz", nil), "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthReportsUnreachableCache(t *testing.T) {
	unreachable := cache.New("127.0.0.1:1", "", 0, "test:")
	t.Cleanup(func() { _ = unreachable.Close() })

	s := newTestServer(t, func(db *gorm.DB) func(context.Context) error {
		return HealthCheck(db, unreachable)
	})

	rec := s.do(httptest.NewRequest(http.MethodGet, "/healthz", nil), "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"unavailable"`)

	assert.Error(t, HealthCheck(s.db, nil)(context.Background()))
}

func TestAuthStatusAndLogout(t *testing.T) {
	s := newTestServer(t)
	ann := s.register(t, "Ann", "a@x.com")

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/auth/status", nil), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/status", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: ann})
	rec = s.do(req, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"a@x.com"`)

	rec = s.json(http.MethodPost, "/api/auth/logout", "", ann)
	assert.Equal(t, http.StatusOK, rec.Code)
}
