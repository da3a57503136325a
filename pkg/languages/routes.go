package languages

import (
	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/auth"
	"github.com/locallibrary/catalog/pkg/config"
	"github.com/locallibrary/catalog/pkg/policy"
	"github.com/uptrace/bun"
)

func RegisterRoutes(e *echo.Echo, db *bun.DB, cfg *config.Config, authMiddleware *auth.Middleware) {
	h := &handler{
		config:          cfg,
		languageService: NewService(db),
	}

	catalog := authMiddleware.Authorize(policy.Catalog)
	g := e.Group("/languages")
	g.GET("", h.list, catalog)
	g.POST("", h.create, catalog)
	g.GET("/:id", h.retrieve, catalog)
	g.PUT("/:id", h.update, catalog)
	g.DELETE("/:id", h.delete, catalog)
}
