package models

import "github.com/uptrace/bun"

// RoleLibrarian is the single distinguished role. It is seeded by migrations
// with LibrarianRoleID.
const (
	RoleLibrarian   = "Librarian"
	LibrarianRoleID = 1
)

type Role struct {
	bun.BaseModel `bun:"table:roles,alias:r"`

	ID   int    `bun:",pk,nullzero" json:"id"`
	Name string `json:"name"`
}

type UserRole struct {
	bun.BaseModel `bun:"table:user_roles,alias:ur"`

	UserID int   `bun:",pk"`
	User   *User `bun:"rel:belongs-to,join:user_id=id"`
	RoleID int   `bun:",pk"`
	Role   *Role `bun:"rel:belongs-to,join:role_id=id"`
}
