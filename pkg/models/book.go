package models

import (
	"strings"

	"github.com/segmentio/encoding/json"
	"github.com/uptrace/bun"
)

const displayGenreLimit = 3

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID         int `bun:",pk,nullzero"`
	Title      string
	Summary    string
	ISBN       string `bun:"isbn"`
	AuthorID   *int
	Author     *Author `bun:"rel:belongs-to,join:author_id=id"`
	LanguageID *int
	Language   *Language    `bun:"rel:belongs-to,join:language_id=id"`
	BookGenres []*BookGenre `bun:"rel:has-many,join:id=book_id"`
}

// GenreIDs returns the ids of the book's genres in membership order.
func (b *Book) GenreIDs() []int {
	ids := make([]int, 0, len(b.BookGenres))
	for _, bg := range b.BookGenres {
		ids = append(ids, bg.GenreID)
	}
	return ids
}

// DisplayGenre joins the names of the first three genres with ", ".
func (b *Book) DisplayGenre() string {
	names := make([]string, 0, displayGenreLimit)
	for _, bg := range b.BookGenres {
		if len(names) == displayGenreLimit {
			break
		}
		if bg.Genre != nil {
			names = append(names, bg.Genre.Name)
		}
	}
	return strings.Join(names, ", ")
}

type bookJSON struct {
	ID           int    `json:"id"`
	Title        string `json:"title"`
	Summary      string `json:"summary"`
	ISBN         string `json:"isbn"`
	Author       *int   `json:"author"`
	Language     *int   `json:"language"`
	Genre        []int  `json:"genre"`
	DisplayGenre string `json:"display_genre"`
}

func (b *Book) MarshalJSON() ([]byte, error) {
	return json.Marshal(bookJSON{
		ID:           b.ID,
		Title:        b.Title,
		Summary:      b.Summary,
		ISBN:         b.ISBN,
		Author:       b.AuthorID,
		Language:     b.LanguageID,
		Genre:        b.GenreIDs(),
		DisplayGenre: b.DisplayGenre(),
	})
}
