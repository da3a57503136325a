package languages

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/config"
	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/pkg/errors"
)

type handler struct {
	config          *config.Config
	languageService *Service
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListLanguagesQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}
	if params.Limit == nil {
		params.Limit = &h.config.ListPageSize
	}

	languages, err := h.languageService.ListLanguages(ctx, ListLanguagesOptions{
		Limit:  params.Limit,
		Offset: params.Offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, languages))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Language")
	}

	language, err := h.languageService.RetrieveLanguage(ctx, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, language))
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Request().Context()

	params := LanguagePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	language := &models.Language{Name: params.Name}
	if err := h.languageService.CreateLanguage(ctx, language); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, language))
}

func (h *handler) update(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Language")
	}

	params := LanguagePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	language := &models.Language{ID: id, Name: params.Name}
	if err := h.languageService.UpdateLanguage(ctx, language); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, language))
}

func (h *handler) delete(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Language")
	}

	if err := h.languageService.DeleteLanguage(ctx, id); err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}
