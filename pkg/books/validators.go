package books

import "github.com/locallibrary/catalog/pkg/models"

type ListBooksQuery struct {
	Author *int `query:"author" validate:"omitempty,min=1"`
	Genre  *int `query:"genre" validate:"omitempty,min=1"`
	Limit  *int `query:"limit" validate:"omitempty,min=1,max=1000"`
	Offset *int `query:"offset" validate:"omitempty,min=0"`
}

type BookPayload struct {
	Title    string `json:"title" mod:"trim" validate:"required,max=200"`
	Summary  string `json:"summary" mod:"trim" validate:"required,max=1000"`
	ISBN     string `json:"isbn" mod:"trim" validate:"required,len=13,digits"`
	Author   *int   `json:"author"`
	Language *int   `json:"language"`
	Genre    []int  `json:"genre"`
}

func (p BookPayload) toModel() *models.Book {
	return &models.Book{
		Title:      p.Title,
		Summary:    p.Summary,
		ISBN:       p.ISBN,
		AuthorID:   p.Author,
		LanguageID: p.Language,
	}
}
