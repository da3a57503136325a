package languages

import (
	"context"
	"database/sql"

	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type ListLanguagesOptions struct {
	Limit  *int
	Offset *int
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreateLanguage(ctx context.Context, language *models.Language) error {
	_, err := svc.db.
		NewInsert().
		Model(language).
		Returning("*").
		Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) RetrieveLanguage(ctx context.Context, id int) (*models.Language, error) {
	language := &models.Language{}

	err := svc.db.
		NewSelect().
		Model(language).
		Where("l.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Language")
		}
		return nil, errors.WithStack(err)
	}

	return language, nil
}

func (svc *Service) ListLanguages(ctx context.Context, opts ListLanguagesOptions) ([]*models.Language, error) {
	languages := []*models.Language{}

	q := svc.db.
		NewSelect().
		Model(&languages).
		Order("l.name ASC", "l.id ASC")

	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	err := q.Scan(ctx)
	return languages, errors.WithStack(err)
}

func (svc *Service) UpdateLanguage(ctx context.Context, language *models.Language) error {
	res, err := svc.db.
		NewUpdate().
		Model(language).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if n == 0 {
		return errcodes.NotFound("Language")
	}
	return nil
}

func (svc *Service) DeleteLanguage(ctx context.Context, id int) error {
	res, err := svc.db.
		NewDelete().
		Model((*models.Language)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if n == 0 {
		return errcodes.NotFound("Language")
	}
	return nil
}
