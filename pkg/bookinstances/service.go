package bookinstances

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/lending"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type ListBookInstancesOptions struct {
	BookID *int
	Status *models.InstanceStatus
	Limit  *int
	Offset *int
}

type Service struct {
	db  *bun.DB
	now func() time.Time
}

func NewService(db *bun.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// CreateBookInstance stores a new copy under a fresh opaque id. A copy created
// on loan must be due within the checkout window.
func (svc *Service) CreateBookInstance(ctx context.Context, inst *models.BookInstance) error {
	if inst.Status == "" {
		inst.Status = models.StatusAvailable
	}
	inst.ID = uuid.NewString()

	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := checkInstance(ctx, tx, inst); err != nil {
			return err
		}
		if inst.Status == models.StatusOnLoan {
			if err := lending.ValidateDueDate(*inst.DueBack, models.DateOf(svc.now())); err != nil {
				return err
			}
		}
		_, err := tx.
			NewInsert().
			Model(inst).
			Exec(ctx)
		return errors.WithStack(err)
	})
}

func (svc *Service) RetrieveBookInstance(ctx context.Context, id string) (*models.BookInstance, error) {
	inst := &models.BookInstance{}

	err := svc.db.
		NewSelect().
		Model(inst).
		Where("bi.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book instance")
		}
		return nil, errors.WithStack(err)
	}

	return inst, nil
}

func (svc *Service) ListBookInstances(ctx context.Context, opts ListBookInstancesOptions) ([]*models.BookInstance, error) {
	instances := []*models.BookInstance{}

	q := svc.db.
		NewSelect().
		Model(&instances).
		OrderExpr("bi.rowid ASC")

	if opts.BookID != nil {
		q = q.Where("bi.book_id = ?", *opts.BookID)
	}
	if opts.Status != nil {
		q = q.Where("bi.status = ?", *opts.Status)
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	err := q.Scan(ctx)
	return instances, errors.WithStack(err)
}

// UpdateBookInstance replaces every column of a copy. Loan changes go through
// the lending lifecycle against the stored copy, so a new due date is held to
// the renewal window and entering a loan to the checkout window.
func (svc *Service) UpdateBookInstance(ctx context.Context, inst *models.BookInstance) error {
	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		stored := &models.BookInstance{}
		err := tx.NewSelect().Model(stored).Where("bi.id = ?", inst.ID).Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errcodes.NotFound("Book instance")
			}
			return errors.WithStack(err)
		}

		if err := checkInstance(ctx, tx, inst); err != nil {
			return err
		}

		next, err := transition(*stored, *inst, models.DateOf(svc.now()))
		if err != nil {
			return err
		}
		*inst = next

		_, err = tx.
			NewUpdate().
			Model(inst).
			Column("book_id", "imprint", "due_back", "borrower_id", "status").
			WherePK().
			Exec(ctx)
		return errors.WithStack(err)
	})
}

// transition moves stored to the state requested in want. want has already
// passed lending.Validate, so an on-loan request carries a borrower and a due
// date and any other status carries neither.
func transition(stored, want models.BookInstance, today models.Date) (models.BookInstance, error) {
	next := stored
	next.BookID = want.BookID
	next.Imprint = want.Imprint

	switch {
	case want.Status == models.StatusOnLoan && stored.Status == models.StatusOnLoan:
		next.BorrowerID = want.BorrowerID
		if stored.DueBack != nil && stored.DueBack.Equal(*want.DueBack) {
			return next, nil
		}
		return lending.Renew(next, *want.DueBack, today)
	case want.Status == models.StatusOnLoan:
		if err := lending.ValidateDueDate(*want.DueBack, today); err != nil {
			return stored, err
		}
		return lending.Checkout(next, *want.BorrowerID, *want.DueBack)
	default:
		return lending.Relabel(next, want.Status)
	}
}

func (svc *Service) DeleteBookInstance(ctx context.Context, id string) error {
	res, err := svc.db.
		NewDelete().
		Model((*models.BookInstance)(nil)).
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
		return errcodes.NotFound("Book instance")
	}
	return nil
}

func checkInstance(ctx context.Context, db bun.IDB, inst *models.BookInstance) error {
	fe := errcodes.FieldErrors{}

	ok, err := db.NewSelect().Model((*models.Book)(nil)).Where("b.id = ?", inst.BookID).Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if !ok {
		fe.Add("book", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", inst.BookID))
	}

	if inst.BorrowerID != nil {
		ok, err := db.NewSelect().Model((*models.User)(nil)).Where("u.id = ?", *inst.BorrowerID).Exists(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if !ok {
			fe.Add("borrower", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", *inst.BorrowerID))
		}
	}
	if err := fe.OrNil(); err != nil {
		return err
	}

	return lending.Validate(*inst)
}
