package models

import (
	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/uptrace/bun"
)

type Author struct {
	bun.BaseModel `bun:"table:authors,alias:a"`

	ID          int    `bun:",pk,nullzero" json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth *Date  `json:"date_of_birth"`
	DateOfDeath *Date  `json:"date_of_death"`
}

// String renders the author the way catalog listings show them: "last, first".
func (a *Author) String() string {
	return a.LastName + ", " + a.FirstName
}

// ValidateLifespan rejects a death date that precedes the birth date.
func (a *Author) ValidateLifespan() error {
	if a.DateOfBirth == nil || a.DateOfDeath == nil {
		return nil
	}
	if a.DateOfDeath.Before(*a.DateOfBirth) {
		return errcodes.FieldError("date_of_death", "Date of death cannot be before date of birth.")
	}
	return nil
}
