package lending

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
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

// fixedNow is noon on the shared reference day.
var fixedNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db          *bun.DB
	svc         *Service
	authService *auth.Service
	userService *users.Service
	book        *models.Book
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db := testdb.New(t)
	svc := NewService(db)
	svc.now = func() time.Time { return fixedNow }

	book := &models.Book{Title: "A Wizard of Earthsea", Summary: "Ged.", ISBN: "9780547773742"}
	_, err := db.NewInsert().Model(book).Exec(ctx)
	require.NoError(t, err)

	return &fixture{
		db:          db,
		svc:         svc,
		authService: auth.NewService(db, config.NewForTest()),
		userService: users.NewService(db),
		book:        book,
	}
}

func (f *fixture) user(t *testing.T, username string, librarian bool) *models.User {
	t.Helper()

	u, err := f.userService.Create(context.Background(), users.CreateUserOptions{
		Username:  username,
		Password:  "pw",
		Librarian: librarian,
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) token(t *testing.T, username string) string {
	t.Helper()

	pair, err := f.authService.IssueToken(context.Background(), username, "pw")
	require.NoError(t, err)
	return pair.Access
}

func (f *fixture) instance(t *testing.T, status models.InstanceStatus, borrower *models.User, due *models.Date) *models.BookInstance {
	t.Helper()

	inst := &models.BookInstance{
		ID:      uuid.NewString(),
		BookID:  f.book.ID,
		Imprint: "Parnassus",
		Status:  status,
		DueBack: due,
	}
	if borrower != nil {
		inst.BorrowerID = &borrower.ID
	}
	_, err := f.db.NewInsert().Model(inst).Exec(context.Background())
	require.NoError(t, err)
	return inst
}

func (f *fixture) echo(t *testing.T) *echo.Echo {
	t.Helper()

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	h := &handler{config: config.NewForTest(), lendingService: f.svc}
	registerHandlers(e, h, auth.NewMiddleware(f.authService))
	return e
}

func serve(e *echo.Echo, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, req)
	return rr
}

func datePtr(d models.Date) *models.Date {
	return &d
}

