package users

import (
	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/auth"
	"github.com/locallibrary/catalog/pkg/policy"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers the registration routes.
func RegisterRoutes(e *echo.Echo, db *bun.DB, authMiddleware *auth.Middleware) *Service {
	userService := NewService(db)

	h := &handler{
		userService: userService,
	}

	e.POST("/register", h.register, authMiddleware.Authorize(policy.UserRegistration))
	e.POST("/register-librarian", h.registerLibrarian, authMiddleware.Authorize(policy.LibrarianRegistration))

	return userService
}
