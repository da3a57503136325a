package migrations

import (
	"context"

	"github.com/locallibrary/catalog/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`INSERT INTO roles (id, name) VALUES (?, ?)`, models.LibrarianRoleID, models.RoleLibrarian)
		return errors.WithStack(err)
	}

	down := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`DELETE FROM roles WHERE id = ?`, models.LibrarianRoleID)
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}
