package dashboard

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/internal/testdb"
	"github.com/locallibrary/catalog/pkg/auth"
	"github.com/locallibrary/catalog/pkg/config"
	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func insert(ctx context.Context, t *testing.T, db *bun.DB, model interface{}) {
	t.Helper()
	_, err := db.NewInsert().Model(model).Exec(ctx)
	require.NoError(t, err)
}

// seedCatalog builds 8 books, 14 copies of which 9 are available, 2 authors,
// 2 fantasy genres and 1 Lord of the Rings title.
func seedCatalog(ctx context.Context, t *testing.T, db *bun.DB) {
	t.Helper()

	insert(ctx, t, db, &models.Author{FirstName: "J.R.R.", LastName: "Tolkien"})
	insert(ctx, t, db, &models.Author{FirstName: "Ursula", LastName: "Le Guin"})

	for _, name := range []string{"Fantasy", "Dark fantasy", "Science Fiction"} {
		insert(ctx, t, db, &models.Genre{Name: name})
	}

	titles := []string{
		"The Fellowship of the Ring: The lord of the Rings, Part 1",
		"The Hobbit",
		"A Wizard of Earthsea",
		"The Tombs of Atuan",
		"The Farthest Shore",
		"Tehanu",
		"The Left Hand of Darkness",
		"The Dispossessed",
	}
	books := make([]*models.Book, 0, len(titles))
	for i, title := range titles {
		book := &models.Book{Title: title, Summary: "-", ISBN: fmt.Sprintf("978000000000%d", i)}
		insert(ctx, t, db, book)
		books = append(books, book)
	}

	statuses := []models.InstanceStatus{}
	for i := 0; i < 9; i++ {
		statuses = append(statuses, models.StatusAvailable)
	}
	statuses = append(statuses, models.StatusMaintenance, models.StatusMaintenance, models.StatusReserved, models.StatusReserved, models.StatusReserved)
	for i, status := range statuses {
		insert(ctx, t, db, &models.BookInstance{
			ID:      uuid.NewString(),
			BookID:  books[i%len(books)].ID,
			Imprint: "Imprint",
			Status:  status,
		})
	}
}

func TestStats(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testdb.New(t)
	seedCatalog(ctx, t, db)

	stats, err := NewService(db).Stats(ctx, StatsOptions{
		GenreKeyword: "Fantasy",
		TitleKeyword: "Lord of the rings",
	})
	require.NoError(t, err)
	assert.Equal(t, &Stats{
		NumBooks:              8,
		NumInstances:          14,
		NumInstancesAvailable: 9,
		NumAuthors:            2,
		NumFantasyGenres:      2,
		NumLOTRBooks:          1,
	}, stats)
}

func TestStats_EmptyCatalog(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testdb.New(t)

	stats, err := NewService(db).Stats(ctx, StatsOptions{GenreKeyword: "Fantasy", TitleKeyword: "Lord of the rings"})
	require.NoError(t, err)
	assert.Equal(t, &Stats{}, stats)
}

func TestHome(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testdb.New(t)
	seedCatalog(ctx, t, db)

	cfg := config.NewForTest()
	e := echo.New()
	e.HTTPErrorHandler = errcodes.NewHandler().Handle
	RegisterRoutes(e, db, cfg, auth.NewMiddleware(auth.NewService(db, cfg)))

	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{
		"num_books": 8,
		"num_instances": 14,
		"num_instances_available": 9,
		"num_authors": 2,
		"num_fantasy_genres": 2,
		"num_lotr_books": 1
	}`, rr.Body.String())

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch} {
		req := httptest.NewRequest(method, "/home", nil)
		rr := httptest.NewRecorder()
		e.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code, method)
	}
}
