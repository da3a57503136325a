package models

import "github.com/uptrace/bun"

type Genre struct {
	bun.BaseModel `bun:"table:genres,alias:g"`

	ID   int    `bun:",pk,nullzero" json:"id"`
	Name string `json:"name"`
}

type BookGenre struct {
	bun.BaseModel `bun:"table:book_genres,alias:bg"`

	ID      int    `bun:",pk,nullzero" json:"id"`
	BookID  int    `json:"book_id"`
	GenreID int    `json:"genre_id"`
	Genre   *Genre `bun:"rel:belongs-to,join:genre_id=id" json:"genre,omitempty"`
}
