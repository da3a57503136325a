package users

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/locallibrary/catalog/internal/testdb"
	"github.com/locallibrary/catalog/pkg/errcodes"
	"github.com/locallibrary/catalog/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := NewService(testdb.New(t))

	user, err := svc.Create(ctx, CreateUserOptions{Username: "Bob", Password: "pw"})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.False(t, user.IsLibrarian())
	assert.NotEqual(t, "pw", user.PasswordHash)

	lib, err := svc.Create(ctx, CreateUserOptions{Username: "Lib", Password: "pw", Librarian: true})
	require.NoError(t, err)
	assert.True(t, lib.IsLibrarian())

	found, err := svc.RetrieveByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = svc.Create(ctx, CreateUserOptions{Username: "bob", Password: "pw"})
	var fe errcodes.FieldErrors
	require.ErrorAs(t, err, &fe)

	users, err := svc.List(ctx, ListUsersOptions{})
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestDeleteWithoutLoans_KeepsBorrowers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testdb.New(t)
	svc := NewService(db)

	borrower, err := svc.Create(ctx, CreateUserOptions{Username: "borrower", Password: "pw"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateUserOptions{Username: "idle", Password: "pw"})
	require.NoError(t, err)

	book := &models.Book{Title: "Dune", Summary: "Spice.", ISBN: "9780441013593"}
	_, err = db.NewInsert().Model(book).Exec(ctx)
	require.NoError(t, err)

	due := models.DateOf(time.Now()).AddDays(7)
	_, err = db.NewInsert().Model(&models.BookInstance{
		ID:         uuid.NewString(),
		BookID:     book.ID,
		Imprint:    "Ace",
		Status:     models.StatusOnLoan,
		BorrowerID: &borrower.ID,
		DueBack:    &due,
	}).Exec(ctx)
	require.NoError(t, err)

	removed, err := svc.DeleteWithoutLoans(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	// The foreign key refuses to orphan a loan.
	_, err = db.NewDelete().Model((*models.User)(nil)).Where("id = ?", borrower.ID).Exec(ctx)
	assert.Error(t, err)
}

func TestGrantAndRevokeLibrarian(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := NewService(testdb.New(t))

	_, err := svc.Create(ctx, CreateUserOptions{Username: "alice", Password: "pw"})
	require.NoError(t, err)

	user, err := svc.GrantLibrarian(ctx, "ALICE")
	require.NoError(t, err)
	assert.True(t, user.IsLibrarian())
	assert.Equal(t, []int{models.LibrarianRoleID}, user.GroupIDs())

	// Granting twice is a no-op.
	user, err = svc.GrantLibrarian(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, user.Roles, 1)

	user, err = svc.RevokeLibrarian(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, user.IsLibrarian())

	_, err = svc.GrantLibrarian(ctx, "nobody")
	assert.ErrorIs(t, err, errcodes.NotFound("User"))
}
