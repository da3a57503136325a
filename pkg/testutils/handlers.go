package testutils

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/users"
	"github.com/pkg/errors"
)

type handler struct {
	userService *users.Service
}

// createUserRequest is the request body for creating a test user.
type createUserRequest struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
	Librarian bool   `json:"librarian"`
}

// createUserResponse is the response body for creating a test user.
type createUserResponse struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Librarian bool   `json:"librarian"`
}

// createUser creates a test user, optionally a Librarian.
// POST /test/users.
func (h *handler) createUser(c echo.Context) error {
	ctx := c.Request().Context()

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.userService.Create(ctx, users.CreateUserOptions{
		Username:  req.Username,
		Password:  req.Password,
		Librarian: req.Librarian,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create user")
	}

	return errors.WithStack(c.JSON(http.StatusCreated, createUserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Librarian: req.Librarian,
	}))
}

// deleteAllUsersResponse is the response body for deleting all users.
type deleteAllUsersResponse struct {
	Deleted int `json:"deleted"`
}

// deleteAllUsers deletes every user that is not holding a copy.
// DELETE /test/users.
func (h *handler) deleteAllUsers(c echo.Context) error {
	ctx := c.Request().Context()

	deleted, err := h.userService.DeleteWithoutLoans(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to delete users")
	}

	return errors.WithStack(c.JSON(http.StatusOK, deleteAllUsersResponse{Deleted: deleted}))
}
