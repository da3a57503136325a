package auth

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/locallibrary/catalog/pkg/policy"
	"github.com/robinjoseph08/golib/logger"
)

const bearerPrefix = "Bearer "

// Middleware provides authentication middleware.
type Middleware struct {
	authService *Service
}

// NewMiddleware creates a new auth middleware.
func NewMiddleware(authService *Service) *Middleware {
	return &Middleware{
		authService: authService,
	}
}

// Authorize identifies the caller from the bearer token, if any, and applies
// the access policy for kind before the handler runs. A missing, expired,
// malformed or orphaned token leaves the caller anonymous.
func (m *Middleware) Authorize(kind policy.ResourceKind) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor := m.identify(c)
			method := c.Request().Method

			switch policy.Decide(actor, policy.MethodFromHTTP(method), kind) {
			case policy.Permit:
				return next(c)
			case policy.AuthenticationRequired:
				return errcodes.AuthenticationRequired()
			case policy.MethodNotAllowed:
				return errcodes.MethodNotAllowed(method)
			default:
				return errcodes.PermissionDenied()
			}
		}
	}
}

func (m *Middleware) identify(c echo.Context) policy.Actor {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(header, bearerPrefix) {
		return policy.Anonymous
	}

	claims, err := m.authService.ValidateToken(strings.TrimPrefix(header, bearerPrefix), TokenTypeAccess)
	if err != nil {
		return policy.Anonymous
	}

	// Verify user still exists
	user, err := m.authService.GetUserByID(c.Request().Context(), claims.UserID)
	if err != nil {
		logger.FromContext(c.Request().Context()).Err(err).Debug("bearer token for unknown user")
		return policy.Anonymous
	}

	c.Set("user_id", user.ID)
	c.Set("user", user)
	c.Set("claims", claims)

	return policy.Authenticated(claims.IsLibrarian)
}

// GetUserFromContext retrieves the authenticated user from the Echo context.
func GetUserFromContext(c echo.Context) (*models.User, bool) {
	user, ok := c.Get("user").(*models.User)
	return user, ok
}

// GetClaimsFromContext retrieves the verified access token claims.
func GetClaimsFromContext(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get("claims").(*Claims)
	return claims, ok
}
