package users

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

type handler struct {
	userService *Service
}

func (h *handler) register(c echo.Context) error {
	return h.create(c, false)
}

func (h *handler) registerLibrarian(c echo.Context) error {
	return h.create(c, true)
}

func (h *handler) create(c echo.Context, librarian bool) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)

	params := RegisterPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.userService.Create(ctx, CreateUserOptions{
		Username:  params.Username,
		Password:  params.Password,
		Librarian: librarian,
	})
	if err != nil {
		return err
	}

	log.Info("user registered", logger.Data{"user_id": user.ID, "librarian": librarian})

	return errors.WithStack(c.JSON(http.StatusOK, RegisterResponse{
		User:    newUserResponse(user),
		Message: registeredMessage,
	}))
}
