package lending

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/locallibrary/catalog/pkg/auth"
	"github.com/locallibrary/catalog/pkg/config"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

type handler struct {
	config         *config.Config
	lendingService *Service
}

func (h *handler) myBooks(c echo.Context) error {
	user, ok := auth.GetUserFromContext(c)
	if !ok {
		return errors.New("own loans reached without an authenticated user")
	}
	return h.listLoans(c, &user.ID)
}

func (h *handler) list(c echo.Context) error {
	return h.listLoans(c, nil)
}

func (h *handler) listLoans(c echo.Context, borrowerID *int) error {
	ctx := c.Request().Context()

	params := ListLoansQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}
	if params.Limit == nil {
		params.Limit = &h.config.ListPageSize
	}

	loans, err := h.lendingService.ListLoans(ctx, ListLoansOptions{
		BorrowerID: borrowerID,
		Limit:      params.Limit,
		Offset:     params.Offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	today := h.lendingService.Today()
	resp := make([]LoanResponse, 0, len(loans))
	for _, loan := range loans {
		resp = append(resp, newLoanResponse(loan, today))
	}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()

	loan, err := h.lendingService.RetrieveLoan(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	today := h.lendingService.Today()
	return errors.WithStack(c.JSON(http.StatusOK, LoanDetailResponse{
		LoanResponse:         newLoanResponse(loan, today),
		SuggestedRenewalDate: SuggestedRenewalDate(today),
	}))
}

func (h *handler) checkout(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)

	params := CheckoutPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}
	dueBack, err := models.ParseDate(params.DueBack)
	if err != nil {
		return errors.WithStack(err)
	}

	loan, err := h.lendingService.Checkout(ctx, CheckoutOptions{
		InstanceID:       params.BookInstance,
		BorrowerUsername: params.Borrower,
		DueBack:          dueBack,
	})
	if err != nil {
		return err
	}

	log.Info("book instance checked out", logger.Data{"book_instance_id": loan.ID, "borrower_id": *loan.BorrowerID})

	return errors.WithStack(c.JSON(http.StatusCreated, newLoanResponse(loan, h.lendingService.Today())))
}

func (h *handler) renew(c echo.Context) error {
	ctx := c.Request().Context()

	params := RenewPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}
	candidate, err := models.ParseDate(params.RenewalDate)
	if err != nil {
		return errors.WithStack(err)
	}

	loan, err := h.lendingService.Renew(ctx, c.Param("id"), candidate)
	if err != nil {
		return err
	}

	return errors.WithStack(c.JSON(http.StatusOK, newLoanResponse(loan, h.lendingService.Today())))
}

func (h *handler) giveBack(c echo.Context) error {
	ctx := c.Request().Context()
	log := logger.FromContext(ctx)

	id := c.Param("id")
	if err := h.lendingService.Return(ctx, id); err != nil {
		return err
	}

	log.Info("book instance returned", logger.Data{"book_instance_id": id})

	return errors.WithStack(c.NoContent(http.StatusNoContent))
}
