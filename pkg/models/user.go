package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int       `bun:",pk,nullzero" json:"id"`
	CreatedAt    time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"-"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose password hash

	// Relations
	Roles []*Role `bun:"m2m:user_roles,join:User=Role" json:"-"`
}

// IsLibrarian reports current membership in the Librarian role. Tokens copy
// this into their claim when issued.
func (u *User) IsLibrarian() bool {
	for _, r := range u.Roles {
		if r.Name == RoleLibrarian {
			return true
		}
	}
	return false
}

// GroupIDs lists the ids of the roles the user belongs to.
func (u *User) GroupIDs() []int {
	ids := make([]int, 0, len(u.Roles))
	for _, r := range u.Roles {
		ids = append(ids, r.ID)
	}
	return ids
}
