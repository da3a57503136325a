package bookinstances

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/config"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

type handler struct {
	config              *config.Config
	bookInstanceService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListBookInstancesQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}
	if params.Limit == nil {
		params.Limit = &h.config.ListPageSize
	}

	opts := ListBookInstancesOptions{
		BookID: params.Book,
		Limit:  params.Limit,
		Offset: params.Offset,
	}
	if params.Status != nil {
		status := models.InstanceStatus(*params.Status)
		opts.Status = &status
	}

	instances, err := h.bookInstanceService.ListBookInstances(ctx, opts)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, instances))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	inst, err := h.bookInstanceService.RetrieveBookInstance(ctx, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, inst))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)

	params := BookInstancePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}
	inst, err := params.toModel()
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.bookInstanceService.CreateBookInstance(ctx, inst); err != nil {
		return errors.WithStack(err)
	}

	log.Info("book instance created", logger.Data{"book_instance_id": inst.ID, "book_id": inst.BookID})

	return errors.WithStack(c.JSON(http.StatusCreated, inst))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()

	params := BookInstancePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}
	inst, err := params.toModel()
	if err != nil {
		return errors.WithStack(err)
	}
	inst.ID = c.Param("id")

	if err := h.bookInstanceService.UpdateBookInstance(ctx, inst); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, inst))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.bookInstanceService.DeleteBookInstance(ctx, c.Param("id")); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}
