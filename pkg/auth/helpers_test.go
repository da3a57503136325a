package auth

import (
	"context"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/internal/testdb"
	"github.com/locallibrary/catalog/pkg/binder"
	"github.com/locallibrary/catalog/pkg/config"
	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestService(t *testing.T) (*Service, *bun.DB, *testClock) {
	t.Helper()

	db := testdb.New(t)
	svc := NewService(db, config.NewForTest())
	clock := &testClock{now: time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)}
	svc.now = clock.Now

	return svc, db, clock
}

func createUser(ctx context.Context, t *testing.T, db *bun.DB, username, password string, librarian bool) *models.User {
	t.Helper()

	hash, err := HashPassword(password)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
	}
	_, err = db.NewInsert().Model(user).Exec(ctx)
	require.NoError(t, err)

	if librarian {
		grantLibrarian(ctx, t, db, user)
	}

	return user
}

func grantLibrarian(ctx context.Context, t *testing.T, db *bun.DB, user *models.User) {
	t.Helper()

	_, err := db.NewInsert().
		Model(&models.UserRole{UserID: user.ID, RoleID: models.LibrarianRoleID}).
		Exec(ctx)
	require.NoError(t, err)
}

func newTestEcho(t *testing.T, svc *Service) *echo.Echo {
	t.Helper()

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	RegisterRoutes(e, svc, NewMiddleware(svc))
	return e
}
