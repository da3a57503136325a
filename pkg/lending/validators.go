package lending

import "github.com/locallibrary/catalog/pkg/models"

type ListLoansQuery struct {
	Limit  *int `query:"limit" validate:"omitempty,min=1,max=1000"`
	Offset *int `query:"offset" validate:"omitempty,min=0"`
}

type CheckoutPayload struct {
	BookInstance string `json:"book_instance" validate:"required"`
	Borrower     string `json:"borrower" validate:"required,max=150"`
	DueBack      string `json:"due_back" validate:"required,date"`
}

type RenewPayload struct {
	RenewalDate string `json:"renewal_date" validate:"required,date"`
}

// LoanResponse is one row of a loan listing.
type LoanResponse struct {
	ID        string       `json:"id"`
	Book      string       `json:"book"`
	DueBack   *models.Date `json:"due_back"`
	Borrower  string       `json:"borrower"`
	IsOverdue bool         `json:"is_overdue"`
}

type LoanDetailResponse struct {
	LoanResponse
	SuggestedRenewalDate models.Date `json:"suggested_renewal_date"`
}

func newLoanResponse(inst *models.BookInstance, today models.Date) LoanResponse {
	resp := LoanResponse{
		ID:        inst.ID,
		DueBack:   inst.DueBack,
		IsOverdue: inst.IsOverdue(today),
	}
	if inst.Book != nil {
		resp.Book = inst.Book.Title
	}
	if inst.BorrowerID != nil && inst.Borrower != nil {
		resp.Borrower = inst.Borrower.Username
	}
	return resp
}
