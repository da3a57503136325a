package models

import "github.com/uptrace/bun"

type Language struct {
	bun.BaseModel `bun:"table:languages,alias:l"`

	ID   int    `bun:",pk,nullzero" json:"id"`
	Name string `json:"name"`
}
