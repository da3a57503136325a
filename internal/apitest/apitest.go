// Package apitest builds an echo instance wired like the server, backed by a
// fresh in-memory database, for handler tests.
package apitest

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/locallibrary/catalog/internal/testdb"
	"github.com/locallibrary/catalog/pkg/auth"
	"github.com/locallibrary/catalog/pkg/binder"
	"github.com/locallibrary/catalog/pkg/config"
	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/locallibrary/catalog/pkg/users"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

const Password = "correct-horse"

type Env struct {
	DB         *bun.DB
	Config     *config.Config
	Echo       *echo.Echo
	Auth       *auth.Service
	Middleware *auth.Middleware
	Users      *users.Service
}

func New(t testing.TB) *Env {
	t.Helper()

	db := testdb.New(t)
	cfg := config.NewForTest()

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	authService := auth.NewService(db, cfg)
	return &Env{
		DB:         db,
		Config:     cfg,
		Echo:       e,
		Auth:       authService,
		Middleware: auth.NewMiddleware(authService),
		Users:      users.NewService(db),
	}
}

// User creates an account with the shared test password.
func (env *Env) User(t testing.TB, username string, librarian bool) *models.User {
	t.Helper()

	u, err := env.Users.Create(context.Background(), users.CreateUserOptions{
		Username:  username,
		Password:  Password,
		Librarian: librarian,
	})
	require.NoError(t, err)
	return u
}

// Token logs username in and returns its access token.
func (env *Env) Token(t testing.TB, username string) string {
	t.Helper()

	pair, err := env.Auth.IssueToken(context.Background(), username, Password)
	require.NoError(t, err)
	return pair.Access
}

// Insert stores model directly, bypassing any handler.
func (env *Env) Insert(t testing.TB, model interface{}) {
	t.Helper()

	_, err := env.DB.NewInsert().Model(model).Exec(context.Background())
	require.NoError(t, err)
}

// Do sends a request through the echo instance. A non-empty body is sent as
// JSON and a non-empty token as a bearer credential.
func (env *Env) Do(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	env.Echo.ServeHTTP(rr, req)
	return rr
}
