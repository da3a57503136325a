package users

import (
	"context"
	"database/sql"
	"strings"

	"github.com/locallibrary/catalog/pkg/auth"
	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

const duplicateUsernameMessage = "A user with that username already exists."

// Service handles user operations.
type Service struct {
	db *bun.DB
}

// NewService creates a new users service.
func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

// CreateUserOptions contains options for creating a user.
type CreateUserOptions struct {
	Username  string
	Password  string
	Librarian bool
}

type ListUsersOptions struct {
	Limit  *int
	Offset *int
}

// Create creates a new user, adding the Librarian role when asked. Usernames
// are unique without regard to case.
func (s *Service) Create(ctx context.Context, opts CreateUserOptions) (*models.User, error) {
	hashedPassword, err := auth.HashPassword(opts.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     opts.Username,
		PasswordHash: hashedPassword,
	}

	err = s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().
			Model((*models.User)(nil)).
			Where("username = ? COLLATE NOCASE", opts.Username).
			Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if exists {
			return errcodes.FieldError("username", duplicateUsernameMessage)
		}

		_, err = tx.NewInsert().Model(user).Returning("*").Exec(ctx)
		if err != nil {
			if isUniqueViolation(err) {
				return errcodes.FieldError("username", duplicateUsernameMessage)
			}
			return errors.WithStack(err)
		}

		if opts.Librarian {
			_, err = tx.NewInsert().
				Model(&models.UserRole{UserID: user.ID, RoleID: models.LibrarianRoleID}).
				Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Retrieve(ctx, user.ID)
}

// Retrieve retrieves a user by ID with roles.
func (s *Service) Retrieve(ctx context.Context, id int) (*models.User, error) {
	user := &models.User{}
	err := s.db.NewSelect().
		Model(user).
		Relation("Roles").
		Where("u.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("User")
		}
		return nil, errors.WithStack(err)
	}
	return user, nil
}

// RetrieveByUsername looks a user up without regard to case.
func (s *Service) RetrieveByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	err := s.db.NewSelect().
		Model(user).
		Relation("Roles").
		Where("u.username = ? COLLATE NOCASE", username).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("User")
		}
		return nil, errors.WithStack(err)
	}
	return user, nil
}

func (s *Service) List(ctx context.Context, opts ListUsersOptions) ([]*models.User, error) {
	var users []*models.User
	q := s.db.NewSelect().
		Model(&users).
		Relation("Roles").
		Order("u.id ASC")
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	return users, nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	count, err := s.db.NewSelect().Model((*models.User)(nil)).Count(ctx)
	return count, errors.WithStack(err)
}

// GrantLibrarian adds the Librarian role to an existing user. Tokens issued
// before the grant keep their old claim.
func (s *Service) GrantLibrarian(ctx context.Context, username string) (*models.User, error) {
	user, err := s.RetrieveByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	_, err = s.db.NewInsert().
		Model(&models.UserRole{UserID: user.ID, RoleID: models.LibrarianRoleID}).
		On("CONFLICT DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return s.Retrieve(ctx, user.ID)
}

// RevokeLibrarian removes the Librarian role from a user.
func (s *Service) RevokeLibrarian(ctx context.Context, username string) (*models.User, error) {
	user, err := s.RetrieveByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	_, err = s.db.NewDelete().
		Model((*models.UserRole)(nil)).
		Where("user_id = ? AND role_id = ?", user.ID, models.LibrarianRoleID).
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return s.Retrieve(ctx, user.ID)
}

// DeleteWithoutLoans removes every user that does not currently hold a
// borrowed copy and returns how many were removed.
func (s *Service) DeleteWithoutLoans(ctx context.Context) (int, error) {
	res, err := s.db.NewDelete().
		Model((*models.User)(nil)).
		Where("id NOT IN (SELECT borrower_id FROM book_instances WHERE borrower_id IS NOT NULL)").
		Exec(ctx)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	n, err := res.RowsAffected()
	return int(n), errors.WithStack(err)
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
