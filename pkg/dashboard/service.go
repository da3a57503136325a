package dashboard

import (
	"context"

	"github.com/locallibrary/catalog/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type StatsOptions struct {
	GenreKeyword string
	TitleKeyword string
}

// Stats holds the counts shown on the home page.
type Stats struct {
	NumBooks              int `json:"num_books"`
	NumInstances          int `json:"num_instances"`
	NumInstancesAvailable int `json:"num_instances_available"`
	NumAuthors            int `json:"num_authors"`
	NumFantasyGenres      int `json:"num_fantasy_genres"`
	NumLOTRBooks          int `json:"num_lotr_books"`
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// Stats runs every count against the current state of the catalog. Keyword
// matches are case-insensitive substring matches.
func (svc *Service) Stats(ctx context.Context, opts StatsOptions) (*Stats, error) {
	stats := &Stats{}
	var err error

	stats.NumBooks, err = svc.db.NewSelect().Model((*models.Book)(nil)).Count(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	stats.NumInstances, err = svc.db.NewSelect().Model((*models.BookInstance)(nil)).Count(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	stats.NumInstancesAvailable, err = svc.db.
		NewSelect().
		Model((*models.BookInstance)(nil)).
		Where("bi.status = ?", models.StatusAvailable).
		Count(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	stats.NumAuthors, err = svc.db.NewSelect().Model((*models.Author)(nil)).Count(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	stats.NumFantasyGenres, err = svc.db.
		NewSelect().
		Model((*models.Genre)(nil)).
		Where("instr(lower(g.name), lower(?)) > 0", opts.GenreKeyword).
		Count(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	stats.NumLOTRBooks, err = svc.db.
		NewSelect().
		Model((*models.Book)(nil)).
		Where("instr(lower(b.title), lower(?)) > 0", opts.TitleKeyword).
		Count(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return stats, nil
}
