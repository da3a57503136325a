package dashboard

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/config"
	"github.com/pkg/errors"
)

type handler struct {
	config           *config.Config
	dashboardService *Service
}

func (h *handler) home(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := h.dashboardService.Stats(ctx, StatsOptions{
		GenreKeyword: h.config.DashboardGenreKeyword,
		TitleKeyword: h.config.DashboardTitleKeyword,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, stats))
}
