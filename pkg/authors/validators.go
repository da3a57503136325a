package authors

import "github.com/locallibrary/catalog/pkg/models"

type ListAuthorsQuery struct {
	Limit  *int `query:"limit" validate:"omitempty,min=1,max=1000"`
	Offset *int `query:"offset" validate:"omitempty,min=0"`
}

type AuthorPayload struct {
	FirstName   string  `json:"first_name" mod:"trim" validate:"required,max=100"`
	LastName    string  `json:"last_name" mod:"trim" validate:"required,max=100"`
	DateOfBirth *string `json:"date_of_birth" validate:"omitempty,date"`
	DateOfDeath *string `json:"date_of_death" validate:"omitempty,date"`
}

func (p AuthorPayload) toModel() (*models.Author, error) {
	born, err := models.ParseOptionalDate(p.DateOfBirth)
	if err != nil {
		return nil, err
	}
	died, err := models.ParseOptionalDate(p.DateOfDeath)
	if err != nil {
		return nil, err
	}
	return &models.Author{
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		DateOfBirth: born,
		DateOfDeath: died,
	}, nil
}
