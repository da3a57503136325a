package lending

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type ListLoansOptions struct {
	BorrowerID *int
	Limit      *int
	Offset     *int
}

type CheckoutOptions struct {
	InstanceID       string
	BorrowerUsername string
	DueBack          models.Date
}

type Service struct {
	db  *bun.DB
	now func() time.Time
}

func NewService(db *bun.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// Today is the calendar day loans are judged against.
func (svc *Service) Today() models.Date {
	return models.DateOf(svc.now())
}

// ListLoans returns copies currently on loan, soonest due first. Copies due
// on the same day keep the order they were created in.
func (svc *Service) ListLoans(ctx context.Context, opts ListLoansOptions) ([]*models.BookInstance, error) {
	loans := []*models.BookInstance{}

	q := svc.db.
		NewSelect().
		Model(&loans).
		Relation("Book").
		Relation("Borrower").
		Where("bi.status = ?", models.StatusOnLoan).
		OrderExpr("bi.due_back ASC, bi.rowid ASC")

	if opts.BorrowerID != nil {
		q = q.Where("bi.borrower_id = ?", *opts.BorrowerID)
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}
	return loans, nil
}

// RetrieveLoan returns a copy that is currently on loan.
func (svc *Service) RetrieveLoan(ctx context.Context, id string) (*models.BookInstance, error) {
	inst, err := retrieveInstance(ctx, svc.db, id)
	if err != nil {
		return nil, err
	}
	if inst.Status != models.StatusOnLoan {
		return nil, errcodes.NotFound("Loan")
	}
	return inst, nil
}

// Checkout lends a copy to the named user.
func (svc *Service) Checkout(ctx context.Context, opts CheckoutOptions) (*models.BookInstance, error) {
	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		fe := errcodes.FieldErrors{}

		inst, err := retrieveInstance(ctx, tx, opts.InstanceID)
		if err != nil {
			var codeErr *errcodes.Error
			if !errors.As(err, &codeErr) {
				return err
			}
			fe.Add("book_instance", fmt.Sprintf("Invalid pk %q - object does not exist.", opts.InstanceID))
		}

		borrower := &models.User{}
		err = tx.NewSelect().
			Model(borrower).
			Where("u.username = ? COLLATE NOCASE", opts.BorrowerUsername).
			Scan(ctx)
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return errors.WithStack(err)
			}
			fe.Add("borrower", fmt.Sprintf("Object with username=%s does not exist.", opts.BorrowerUsername))
		}
		if err := fe.OrNil(); err != nil {
			return err
		}

		if err := ValidateDueDate(opts.DueBack, svc.Today()); err != nil {
			return err
		}

		loaned, err := Checkout(*inst, borrower.ID, opts.DueBack)
		if err != nil {
			return err
		}
		return saveLoanColumns(ctx, tx, &loaned)
	})
	if err != nil {
		return nil, err
	}
	return retrieveInstance(ctx, svc.db, opts.InstanceID)
}

// Renew moves the due date of a loaned copy. On a validation failure nothing
// is written.
func (svc *Service) Renew(ctx context.Context, id string, candidate models.Date) (*models.BookInstance, error) {
	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		inst, err := retrieveInstance(ctx, tx, id)
		if err != nil {
			return err
		}
		renewed, err := Renew(*inst, candidate, svc.Today())
		if err != nil {
			return err
		}
		return saveLoanColumns(ctx, tx, &renewed)
	})
	if err != nil {
		return nil, err
	}
	return retrieveInstance(ctx, svc.db, id)
}

// Return puts a loaned copy back on the shelf.
func (svc *Service) Return(ctx context.Context, id string) error {
	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		inst, err := retrieveInstance(ctx, tx, id)
		if err != nil {
			return err
		}
		if inst.Status != models.StatusOnLoan {
			return errcodes.NotFound("Loan")
		}
		returned, err := Return(*inst)
		if err != nil {
			return err
		}
		return saveLoanColumns(ctx, tx, &returned)
	})
}

func retrieveInstance(ctx context.Context, db bun.IDB, id string) (*models.BookInstance, error) {
	inst := &models.BookInstance{}
	err := db.NewSelect().
		Model(inst).
		Relation("Book").
		Relation("Borrower").
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

// saveLoanColumns writes the columns the lifecycle owns in one statement so
// status, borrower and due date never disagree in storage.
func saveLoanColumns(ctx context.Context, db bun.IDB, inst *models.BookInstance) error {
	if err := Validate(*inst); err != nil {
		return err
	}
	_, err := db.NewUpdate().
		Model(inst).
		Column("status", "borrower_id", "due_back").
		WherePK().
		Exec(ctx)
	return errors.WithStack(err)
}
