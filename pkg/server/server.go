package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/locallibrary/catalog/pkg/auth"
	"github.com/locallibrary/catalog/pkg/authors"
	"github.com/locallibrary/catalog/pkg/binder"
	"github.com/locallibrary/catalog/pkg/bookinstances"
	"github.com/locallibrary/catalog/pkg/books"
	"github.com/locallibrary/catalog/pkg/config"
	"github.com/locallibrary/catalog/pkg/dashboard"
	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/genres"
	"github.com/locallibrary/catalog/pkg/languages"
	"github.com/locallibrary/catalog/pkg/lending"
	"github.com/locallibrary/catalog/pkg/testutils"
	"github.com/locallibrary/catalog/pkg/users"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB, authService *auth.Service) (*http.Server, error) {
	e, err := newEcho(cfg, db, authService)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func newEcho(cfg *config.Config, db *bun.DB, authService *auth.Service) (*echo.Echo, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	// "/authors/" and "/authors" are the same resource.
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORS())

	health.RegisterRoutes(e)

	authMiddleware := auth.NewMiddleware(authService)
	auth.RegisterRoutes(e, authService, authMiddleware)
	userService := users.RegisterRoutes(e, db, authMiddleware)

	registerCatalogRoutes(e, db, cfg, authMiddleware)
	lending.RegisterRoutes(e, db, cfg, authMiddleware)
	dashboard.RegisterRoutes(e, db, cfg, authMiddleware)

	if cfg.Environment == "test" {
		testutils.RegisterRoutes(e, userService)
	}

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	return e, nil
}

// registerCatalogRoutes registers the catalog entities. Reads are public and
// writes need a Librarian.
func registerCatalogRoutes(e *echo.Echo, db *bun.DB, cfg *config.Config, authMiddleware *auth.Middleware) {
	authors.RegisterRoutes(e, db, cfg, authMiddleware)
	books.RegisterRoutes(e, db, cfg, authMiddleware)
	genres.RegisterRoutes(e, db, cfg, authMiddleware)
	languages.RegisterRoutes(e, db, cfg, authMiddleware)
	bookinstances.RegisterRoutes(e, db, cfg, authMiddleware)
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
