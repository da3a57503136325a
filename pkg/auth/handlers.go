package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

type handler struct {
	authService *Service
}

func (h *handler) token(c echo.Context) error {
	ctx := c.Request().Context()

	params := TokenPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	pair, err := h.authService.IssueToken(ctx, params.Username, params.Password)
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, pair))
}

func (h *handler) refresh(c echo.Context) error {
	ctx := c.Request().Context()

	params := RefreshPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	access, err := h.authService.Refresh(ctx, params.Refresh)
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, AccessResponse{Access: access}))
}

func (h *handler) logout(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)

	user, ok := GetUserFromContext(c)
	if !ok {
		return errors.New("logout reached without an authenticated user")
	}

	params := RefreshPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	if err := h.authService.Blacklist(ctx, user.ID, params.Refresh); err != nil {
		return err
	}

	log.Info("refresh token blacklisted", logger.Data{"user_id": user.ID})

	return errors.WithStack(c.JSON(http.StatusOK, "Success"))
}
