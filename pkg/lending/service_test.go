package lending

import (
	"context"
	"testing"

	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/robinjoseph08/golib/pointerutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListLoans_OrderedByDueDate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	x := f.user(t, "x", false)
	y := f.user(t, "y", false)

	// Y's copy is created first so insertion order alone would put it ahead.
	yCopy := f.instance(t, models.StatusOnLoan, y, datePtr(today.AddDays(5)))
	xCopy := f.instance(t, models.StatusOnLoan, x, datePtr(today.AddDays(3)))
	f.instance(t, models.StatusAvailable, nil, nil)

	loans, err := f.svc.ListLoans(ctx, ListLoansOptions{})
	require.NoError(t, err)
	require.Len(t, loans, 2)
	assert.Equal(t, xCopy.ID, loans[0].ID)
	assert.Equal(t, yCopy.ID, loans[1].ID)
	assert.Equal(t, "x", loans[0].Borrower.Username)
	assert.Equal(t, "A Wizard of Earthsea", loans[0].Book.Title)
}

func TestListLoans_TiesKeepCreationOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	x := f.user(t, "x", false)
	due := datePtr(today.AddDays(4))
	first := f.instance(t, models.StatusOnLoan, x, due)
	second := f.instance(t, models.StatusOnLoan, x, due)
	third := f.instance(t, models.StatusOnLoan, x, due)

	loans, err := f.svc.ListLoans(ctx, ListLoansOptions{})
	require.NoError(t, err)
	require.Len(t, loans, 3)
	assert.Equal(t, []string{first.ID, second.ID, third.ID}, []string{loans[0].ID, loans[1].ID, loans[2].ID})
}

func TestListLoans_FilterByBorrower(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	x := f.user(t, "x", false)
	y := f.user(t, "y", false)
	f.instance(t, models.StatusOnLoan, x, datePtr(today.AddDays(1)))
	f.instance(t, models.StatusOnLoan, y, datePtr(today.AddDays(2)))

	loans, err := f.svc.ListLoans(ctx, ListLoansOptions{BorrowerID: &y.ID})
	require.NoError(t, err)
	require.Len(t, loans, 1)
	assert.Equal(t, y.ID, *loans[0].BorrowerID)
}

func TestListLoans_Pagination(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	x := f.user(t, "x", false)
	f.instance(t, models.StatusOnLoan, x, datePtr(today.AddDays(1)))
	second := f.instance(t, models.StatusOnLoan, x, datePtr(today.AddDays(2)))
	f.instance(t, models.StatusOnLoan, x, datePtr(today.AddDays(3)))

	loans, err := f.svc.ListLoans(ctx, ListLoansOptions{Limit: pointerutil.Int(1), Offset: pointerutil.Int(1)})
	require.NoError(t, err)
	require.Len(t, loans, 1)
	assert.Equal(t, second.ID, loans[0].ID)
}

func TestCheckoutRenewReturn(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	f.user(t, "reader", false)
	inst := f.instance(t, models.StatusAvailable, nil, nil)

	loan, err := f.svc.Checkout(ctx, CheckoutOptions{
		InstanceID:       inst.ID,
		BorrowerUsername: "Reader",
		DueBack:          today.AddDays(14),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusOnLoan, loan.Status)
	assert.Equal(t, "reader", loan.Borrower.Username)

	_, err = f.svc.Checkout(ctx, CheckoutOptions{InstanceID: inst.ID, BorrowerUsername: "reader", DueBack: today})
	var fe errcodes.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "status")

	renewed, err := f.svc.Renew(ctx, inst.ID, today.AddDays(21))
	require.NoError(t, err)
	assert.Equal(t, "2024-04-05", renewed.DueBack.String())

	require.NoError(t, f.svc.Return(ctx, inst.ID))
	_, err = f.svc.RetrieveLoan(ctx, inst.ID)
	var codeErr *errcodes.Error
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, 404, codeErr.HTTPCode)
}

func TestCheckout_UnknownReferences(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.Checkout(ctx, CheckoutOptions{
		InstanceID:       "missing",
		BorrowerUsername: "ghost",
		DueBack:          today,
	})
	var fe errcodes.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, []string{`Invalid pk "missing" - object does not exist.`}, fe["book_instance"])
	assert.Equal(t, []string{"Object with username=ghost does not exist."}, fe["borrower"])
}

func TestCheckout_DueDateWindow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	f.user(t, "reader", false)
	inst := f.instance(t, models.StatusAvailable, nil, nil)

	_, err := f.svc.Checkout(ctx, CheckoutOptions{InstanceID: inst.ID, BorrowerUsername: "reader", DueBack: today.AddDays(-1)})
	var fe errcodes.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, []string{"Invalid date - due date in past"}, fe["due_back"])

	stored, err := retrieveInstance(ctx, f.db, inst.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAvailable, stored.Status)
	assert.Nil(t, stored.BorrowerID)
}

func TestRenew_FailureLeavesStoredStateUntouched(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)

	x := f.user(t, "x", false)
	inst := f.instance(t, models.StatusOnLoan, x, datePtr(today.AddDays(2)))

	_, err := f.svc.Renew(ctx, inst.ID, today.AddDays(29))
	require.Error(t, err)

	stored, err := f.svc.RetrieveLoan(ctx, inst.ID)
	require.NoError(t, err)
	assert.True(t, stored.DueBack.Equal(today.AddDays(2)))
}
