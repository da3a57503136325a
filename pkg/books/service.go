package books

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type ListBooksOptions struct {
	AuthorID *int
	GenreID  *int
	Limit    *int
	Offset   *int
}

// SaveBookOptions carries the references a book is saved with. Genre order is
// kept as given.
type SaveBookOptions struct {
	GenreIDs []int
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreateBook(ctx context.Context, book *models.Book, opts SaveBookOptions) error {
	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := checkReferences(ctx, tx, book, opts.GenreIDs); err != nil {
			return err
		}

		_, err := tx.
			NewInsert().
			Model(book).
			Returning("*").
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		return replaceGenres(ctx, tx, book.ID, opts.GenreIDs)
	})
	if err != nil {
		return err
	}
	return svc.reload(ctx, book)
}

func (svc *Service) RetrieveBook(ctx context.Context, id int) (*models.Book, error) {
	book := &models.Book{}

	err := selectBooks(svc.db, book).
		Where("b.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	return book, nil
}

func (svc *Service) ListBooks(ctx context.Context, opts ListBooksOptions) ([]*models.Book, error) {
	books := []*models.Book{}

	q := selectBooks(svc.db, &books).
		Order("b.title ASC", "b.id ASC")

	if opts.AuthorID != nil {
		q = q.Where("b.author_id = ?", *opts.AuthorID)
	}
	if opts.GenreID != nil {
		q = q.Where("EXISTS (SELECT 1 FROM book_genres AS x WHERE x.book_id = b.id AND x.genre_id = ?)", *opts.GenreID)
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	err := q.Scan(ctx)
	return books, errors.WithStack(err)
}

// UpdateBook replaces the book's columns and its genre set together.
func (svc *Service) UpdateBook(ctx context.Context, book *models.Book, opts SaveBookOptions) error {
	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().Model((*models.Book)(nil)).Where("b.id = ?", book.ID).Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !exists {
			return errcodes.NotFound("Book")
		}

		if err := checkReferences(ctx, tx, book, opts.GenreIDs); err != nil {
			return err
		}

		_, err = tx.
			NewUpdate().
			Model(book).
			Column("title", "summary", "isbn", "author_id", "language_id").
			WherePK().
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		return replaceGenres(ctx, tx, book.ID, opts.GenreIDs)
	})
	if err != nil {
		return err
	}
	return svc.reload(ctx, book)
}

// DeleteBook removes a book together with its copies and genre membership.
func (svc *Service) DeleteBook(ctx context.Context, id int) error {
	res, err := svc.db.
		NewDelete().
		Model((*models.Book)(nil)).
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
		return errcodes.NotFound("Book")
	}
	return nil
}

func (svc *Service) reload(ctx context.Context, book *models.Book) error {
	stored, err := svc.RetrieveBook(ctx, book.ID)
	if err != nil {
		return err
	}
	*book = *stored
	return nil
}

func selectBooks(db bun.IDB, model interface{}) *bun.SelectQuery {
	return db.
		NewSelect().
		Model(model).
		Relation("BookGenres", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("bg.id ASC")
		}).
		Relation("BookGenres.Genre")
}

// checkReferences reports every referenced id that does not exist, keyed by
// the payload field it came from.
func checkReferences(ctx context.Context, db bun.IDB, book *models.Book, genreIDs []int) error {
	fe := errcodes.FieldErrors{}

	if book.AuthorID != nil {
		ok, err := db.NewSelect().Model((*models.Author)(nil)).Where("a.id = ?", *book.AuthorID).Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !ok {
			fe.Add("author", invalidPK(*book.AuthorID))
		}
	}

	if book.LanguageID != nil {
		ok, err := db.NewSelect().Model((*models.Language)(nil)).Where("l.id = ?", *book.LanguageID).Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !ok {
			fe.Add("language", invalidPK(*book.LanguageID))
		}
	}

	if len(genreIDs) > 0 {
		var found []int
		err := db.NewSelect().
			Model((*models.Genre)(nil)).
			Column("g.id").
			Where("g.id IN (?)", bun.In(genreIDs)).
			Scan(ctx, &found)
		if err != nil {
			return errors.WithStack(err)
		}
		known := make(map[int]struct{}, len(found))
		for _, id := range found {
			known[id] = struct{}{}
		}
		for _, id := range genreIDs {
			if _, ok := known[id]; !ok {
				fe.Add("genre", invalidPK(id))
				break
			}
		}
	}

	return fe.OrNil()
}

func replaceGenres(ctx context.Context, db bun.IDB, bookID int, genreIDs []int) error {
	_, err := db.
		NewDelete().
		Model((*models.BookGenre)(nil)).
		Where("book_id = ?", bookID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	seen := map[int]struct{}{}
	memberships := make([]*models.BookGenre, 0, len(genreIDs))
	for _, id := range genreIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		memberships = append(memberships, &models.BookGenre{BookID: bookID, GenreID: id})
	}
	if len(memberships) == 0 {
		return nil
	}

	_, err = db.NewInsert().Model(&memberships).Exec(ctx)
	return errors.WithStack(err)
}

func invalidPK(id int) string {
	return fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id)
}
