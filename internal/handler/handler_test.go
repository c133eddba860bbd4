package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"modion/internal/auth"
	"modion/internal/media"
	"modion/internal/middleware"
	"modion/internal/model"
	"modion/internal/repository"
	"modion/internal/service"
)

type testValidator struct{}

func (testValidator) Validate(i interface{}) error {
	return service.Validator().Struct(i)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = testValidator{}
	return e
}

// asUser stands in for the auth gate.
func asUser(user *model.User) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(middleware.UserKey, user)
			c.Set(middleware.ClaimsKey, &auth.Claims{UserID: user.ID.String()})
			return next(c)
		}
	}
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Register(ctx context.Context, in service.RegisterInput) (*service.Session, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*service.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Session), args.Error(1)
}

func (m *mockAuthService) Identify(ctx context.Context, claims *auth.Claims) (*model.User, error) {
	args := m.Called(ctx, claims)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockAuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	args := m.Called(ctx, claims)
	return args.Error(0)
}

type mockArticleService struct {
	mock.Mock
}

func (m *mockArticleService) articles(args mock.Arguments) ([]model.Article, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Article), args.Error(1)
}

func (m *mockArticleService) article(args mock.Arguments) (*model.Article, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Article), args.Error(1)
}

func (m *mockArticleService) ListPublished(ctx context.Context) ([]model.Article, error) {
	return m.articles(m.Called(ctx))
}

func (m *mockArticleService) ListFeatured(ctx context.Context) ([]model.Article, error) {
	return m.articles(m.Called(ctx))
}

func (m *mockArticleService) ListByCategory(ctx context.Context, category string) ([]model.Article, error) {
	return m.articles(m.Called(ctx, category))
}

func (m *mockArticleService) Search(ctx context.Context, query string) ([]model.Article, error) {
	return m.articles(m.Called(ctx, query))
}

func (m *mockArticleService) Categories(ctx context.Context) ([]repository.CategoryCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.CategoryCount), args.Error(1)
}

func (m *mockArticleService) Get(ctx context.Context, id string) (*model.Article, error) {
	return m.article(m.Called(ctx, id))
}

func (m *mockArticleService) Create(ctx context.Context, actor *model.User, payload service.ArticlePayload, image *media.Source) (*model.Article, error) {
	return m.article(m.Called(ctx, actor, payload, image))
}

func (m *mockArticleService) Update(ctx context.Context, actor *model.User, id string, payload service.ArticlePayload, image *media.Source) (*model.Article, error) {
	return m.article(m.Called(ctx, actor, id, payload, image))
}

func (m *mockArticleService) Delete(ctx context.Context, actor *model.User, id string) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

type mockContactService struct {
	mock.Mock
}

func (m *mockContactService) Submit(ctx context.Context, in service.ContactInput) error {
	return m.Called(ctx, in).Error(0)
}

type mockSubscribeService struct {
	mock.Mock
}

func (m *mockSubscribeService) Subscribe(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}
