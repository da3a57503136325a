package dashboard

import (
	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/auth"
	"github.com/locallibrary/catalog/pkg/config"
	"github.com/locallibrary/catalog/pkg/policy"
	"github.com/uptrace/bun"
)

func RegisterRoutes(e *echo.Echo, db *bun.DB, cfg *config.Config, authMiddleware *auth.Middleware) {
	h := &handler{
		config:           cfg,
		dashboardService: NewService(db),
	}

	// Writes are answered by the policy with a 405.
	e.Any("/home", h.home, authMiddleware.Authorize(policy.Dashboard))
}
