package models

import (
	"time"

	"github.com/uptrace/bun"
)

// OutstandingToken records every refresh token handed out so it can later be
// blacklisted by id.
type OutstandingToken struct {
	bun.BaseModel `bun:"table:outstanding_tokens,alias:ot"`

	ID        int    `bun:",pk,nullzero"`
	JTI       string `bun:"jti"`
	UserID    int
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

type BlacklistedToken struct {
	bun.BaseModel `bun:"table:blacklisted_tokens,alias:bt"`

	ID            int `bun:",pk,nullzero"`
	TokenID       int
	BlacklistedAt time.Time
}
