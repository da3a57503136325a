package bookinstances

import "github.com/locallibrary/catalog/pkg/models"

type ListBookInstancesQuery struct {
	Book   *int    `query:"book" validate:"omitempty,min=1"`
	Status *string `query:"status" validate:"omitempty,oneof=available on_loan maintenance reserved"`
	Limit  *int    `query:"limit" validate:"omitempty,min=1,max=1000"`
	Offset *int    `query:"offset" validate:"omitempty,min=0"`
}

// BookInstancePayload references the book and borrower by id.
type BookInstancePayload struct {
	Book     int     `json:"book" validate:"required,min=1"`
	Imprint  string  `json:"imprint" mod:"trim" validate:"required,max=200"`
	DueBack  *string `json:"due_back" validate:"omitempty,date"`
	Borrower *int    `json:"borrower"`
	Status   string  `json:"status" default:"available" validate:"oneof=available on_loan maintenance reserved"`
}

func (p BookInstancePayload) toModel() (*models.BookInstance, error) {
	dueBack, err := models.ParseOptionalDate(p.DueBack)
	if err != nil {
		return nil, err
	}
	return &models.BookInstance{
		BookID:     p.Book,
		Imprint:    p.Imprint,
		DueBack:    dueBack,
		BorrowerID: p.Borrower,
		Status:     models.InstanceStatus(p.Status),
	}, nil
}
