package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runAuthorize(t *testing.T, m *Middleware, kind policy.ResourceKind, method, token string) (bool, echo.Context, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(method, "/", nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	nextCalled := false
	err := m.Authorize(kind)(func(_ echo.Context) error {
		nextCalled = true
		return nil
	})(c)
	return nextCalled, c, err
}

func assertCode(t *testing.T, err error, httpCode int) {
	t.Helper()

	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, httpCode, codeErr.HTTPCode)
}

func TestMiddlewareAuthorize(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, db, _ := newTestService(t)
	m := NewMiddleware(svc)

	member := createUser(ctx, t, db, "member", "pw", false)
	createUser(ctx, t, db, "librarian", "pw", true)

	memberPair, err := svc.IssueToken(ctx, "member", "pw")
	require.NoError(t, err)
	librarianPair, err := svc.IssueToken(ctx, "librarian", "pw")
	require.NoError(t, err)

	t.Run("anonymous reads of the catalog pass", func(tt *testing.T) {
		called, _, err := runAuthorize(tt, m, policy.Catalog, http.MethodGet, "")
		require.NoError(tt, err)
		assert.True(tt, called)
	})

	t.Run("anonymous writes need authentication", func(tt *testing.T) {
		called, _, err := runAuthorize(tt, m, policy.Catalog, http.MethodPost, "")
		assert.False(tt, called)
		assertCode(tt, err, http.StatusUnauthorized)
	})

	t.Run("member writes are forbidden", func(tt *testing.T) {
		called, _, err := runAuthorize(tt, m, policy.Catalog, http.MethodDelete, memberPair.Access)
		assert.False(tt, called)
		assertCode(tt, err, http.StatusForbidden)
	})

	t.Run("librarian writes pass and the user is stored", func(tt *testing.T) {
		called, c, err := runAuthorize(tt, m, policy.Catalog, http.MethodPut, librarianPair.Access)
		require.NoError(tt, err)
		assert.True(tt, called)

		user, ok := GetUserFromContext(c)
		require.True(tt, ok)
		assert.Equal(tt, "librarian", user.Username)

		claims, ok := GetClaimsFromContext(c)
		require.True(tt, ok)
		assert.True(tt, claims.IsLibrarian)
	})

	t.Run("own loans need authentication", func(tt *testing.T) {
		_, _, err := runAuthorize(tt, m, policy.OwnLoans, http.MethodGet, "")
		assertCode(tt, err, http.StatusUnauthorized)

		called, c, err := runAuthorize(tt, m, policy.OwnLoans, http.MethodGet, memberPair.Access)
		require.NoError(tt, err)
		assert.True(tt, called)
		user, _ := GetUserFromContext(c)
		assert.Equal(tt, member.ID, user.ID)
	})

	t.Run("dashboard writes are not allowed for anyone", func(tt *testing.T) {
		for _, token := range []string{"", memberPair.Access, librarianPair.Access} {
			_, _, err := runAuthorize(tt, m, policy.Dashboard, http.MethodPost, token)
			assertCode(tt, err, http.StatusMethodNotAllowed)
		}
	})

	t.Run("refresh tokens are not accepted as bearer tokens", func(tt *testing.T) {
		_, _, err := runAuthorize(tt, m, policy.BorrowedAdmin, http.MethodGet, librarianPair.Refresh)
		assertCode(tt, err, http.StatusUnauthorized)
	})

	t.Run("malformed tokens look anonymous", func(tt *testing.T) {
		called, _, err := runAuthorize(tt, m, policy.Catalog, http.MethodGet, "garbage")
		require.NoError(tt, err)
		assert.True(tt, called)

		_, _, err = runAuthorize(tt, m, policy.Session, http.MethodPost, "garbage")
		assertCode(tt, err, http.StatusUnauthorized)
	})
}

func TestMiddlewareAuthorize_ExpiredAndOrphanedTokens(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, db, clock := newTestService(t)
	m := NewMiddleware(svc)

	user := createUser(ctx, t, db, "kim", "pw", true)
	pair, err := svc.IssueToken(ctx, "kim", "pw")
	require.NoError(t, err)

	clock.Advance(61 * time.Minute)
	_, _, err = runAuthorize(t, m, policy.BorrowedAdmin, http.MethodGet, pair.Access)
	assertCode(t, err, http.StatusUnauthorized)

	clock.Advance(-61 * time.Minute)
	_, err = db.NewDelete().TableExpr("users").Where("id = ?", user.ID).Exec(ctx)
	require.NoError(t, err)
	_, _, err = runAuthorize(t, m, policy.BorrowedAdmin, http.MethodGet, pair.Access)
	assertCode(t, err, http.StatusUnauthorized)
}
