package users

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/internal/testdb"
	"github.com/locallibrary/catalog/pkg/auth"
	"github.com/locallibrary/catalog/pkg/binder"
	"github.com/locallibrary/catalog/pkg/config"
	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type testEnv struct {
	e           *echo.Echo
	db          *bun.DB
	authService *auth.Service
	userService *Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testdb.New(t)
	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	authService := auth.NewService(db, config.NewForTest())
	userService := RegisterRoutes(e, db, auth.NewMiddleware(authService))

	return &testEnv{e, db, authService, userService}
}

func (env *testEnv) post(path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	env.e.ServeHTTP(rr, req)
	return rr
}

func (env *testEnv) accessToken(t *testing.T, username, password string) string {
	t.Helper()

	pair, err := env.authService.IssueToken(context.Background(), username, password)
	require.NoError(t, err)
	return pair.Access
}

func TestRegister(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rr := env.post("/register", `{"username":"alice","password":"pw-alice"}`, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{
		"user": {"id": 1, "username": "alice", "groups": []},
		"message": "User Created Successfully.  Now perform Login to get your token"
	}`, rr.Body.String())
}

func TestRegister_DuplicateUsername(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)

	rr := env.post("/register", `{"username":"alice","password":"pw"}`, "")
	require.Equal(t, http.StatusOK, rr.Code)

	before, err := env.userService.Count(ctx)
	require.NoError(t, err)

	for _, name := range []string{"alice", "ALICE"} {
		rr = env.post("/register", `{"username":"`+name+`","password":"pw"}`, "")
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"username":["A user with that username already exists."]}`, rr.Body.String())
	}

	after, err := env.userService.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRegister_InvalidUsername(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	rr := env.post("/register", `{"username":"no spaces","password":"pw"}`, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), `"username"`)

	rr = env.post("/register", `{"username":"`+strings.Repeat("a", 151)+`","password":"pw"}`, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRegisterLibrarian(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.userService.Create(ctx, CreateUserOptions{Username: "head", Password: "pw", Librarian: true})
	require.NoError(t, err)
	_, err = env.userService.Create(ctx, CreateUserOptions{Username: "reader", Password: "pw"})
	require.NoError(t, err)

	body := `{"username":"newlib","password":"pw"}`

	rr := env.post("/register-librarian", body, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = env.post("/register-librarian", body, env.accessToken(t, "reader", "pw"))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = env.post("/register-librarian", body, env.accessToken(t, "head", "pw"))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{
		"user": {"id": 3, "username": "newlib", "groups": [1]},
		"message": "User Created Successfully.  Now perform Login to get your token"
	}`, rr.Body.String())

	rr = env.post("/register-librarian", body, env.accessToken(t, "head", "pw"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRegister_ThenLoginCarriesClaim(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	env := newTestEnv(t)

	rr := env.post("/register", `{"username":"alice","password":"pw"}`, "")
	require.Equal(t, http.StatusOK, rr.Code)

	first := env.accessToken(t, "alice", "pw")
	claims, err := env.authService.ValidateToken(first, auth.TokenTypeAccess)
	require.NoError(t, err)
	assert.False(t, claims.IsLibrarian)

	user, err := env.userService.RetrieveByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, user.IsLibrarian())
}
