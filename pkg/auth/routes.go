package auth

import (
	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/policy"
)

// RegisterRoutes registers the token and logout routes.
func RegisterRoutes(e *echo.Echo, authService *Service, authMiddleware *Middleware) {
	h := &handler{
		authService: authService,
	}

	e.POST("/token", h.token)
	e.POST("/token/refresh", h.refresh)
	e.POST("/logout", h.logout, authMiddleware.Authorize(policy.Session))
}
