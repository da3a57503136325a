package lending

import (
	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/auth"
	"github.com/locallibrary/catalog/pkg/config"
	"github.com/locallibrary/catalog/pkg/policy"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers /mybooks and the /borrowed administration routes.
func RegisterRoutes(e *echo.Echo, db *bun.DB, cfg *config.Config, authMiddleware *auth.Middleware) {
	h := &handler{
		config:         cfg,
		lendingService: NewService(db),
	}
	registerHandlers(e, h, authMiddleware)
}

func registerHandlers(e *echo.Echo, h *handler, authMiddleware *auth.Middleware) {
	// Every verb is routed so the policy, not the router, answers writes.
	e.Any("/mybooks", h.myBooks, authMiddleware.Authorize(policy.OwnLoans))

	borrowed := authMiddleware.Authorize(policy.BorrowedAdmin)
	g := e.Group("/borrowed")
	g.GET("", h.list, borrowed)
	g.POST("", h.checkout, borrowed)
	g.GET("/:id", h.retrieve, borrowed)
	g.PUT("/:id", h.renew, borrowed)
	g.DELETE("/:id", h.giveBack, borrowed)
}
