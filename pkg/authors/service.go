package authors

import (
	"context"
	"database/sql"

	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type ListAuthorsOptions struct {
	Limit  *int
	Offset *int
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreateAuthor(ctx context.Context, author *models.Author) error {
	if err := author.ValidateLifespan(); err != nil {
		return err
	}

	_, err := svc.db.
		NewInsert().
		Model(author).
		Returning("*").
		Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) RetrieveAuthor(ctx context.Context, id int) (*models.Author, error) {
	author := &models.Author{}

	err := svc.db.
		NewSelect().
		Model(author).
		Where("a.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Author")
		}
		return nil, errors.WithStack(err)
	}

	return author, nil
}

func (svc *Service) ListAuthors(ctx context.Context, opts ListAuthorsOptions) ([]*models.Author, error) {
	authors := []*models.Author{}

	q := svc.db.
		NewSelect().
		Model(&authors).
		Order("a.last_name ASC", "a.first_name ASC", "a.id ASC")

	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	err := q.Scan(ctx)
	return authors, errors.WithStack(err)
}

// UpdateAuthor replaces every column of an existing author.
func (svc *Service) UpdateAuthor(ctx context.Context, author *models.Author) error {
	if err := author.ValidateLifespan(); err != nil {
		return err
	}

	res, err := svc.db.
		NewUpdate().
		Model(author).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	return notFoundIfUnaffected(res)
}

// DeleteAuthor removes an author. Their books are kept with no author.
func (svc *Service) DeleteAuthor(ctx context.Context, id int) error {
	res, err := svc.db.
		NewDelete().
		Model((*models.Author)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	return notFoundIfUnaffected(res)
}

func notFoundIfUnaffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if n == 0 {
		return errcodes.NotFound("Author")
	}
	return nil
}
