package policy

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	member    = Authenticated(false)
	librarian = Authenticated(true)
	actors    = []Actor{Anonymous, member, librarian}
)

func TestDecide_CatalogWrites(t *testing.T) {
	t.Parallel()

	assert.Equal(t, AuthenticationRequired, Decide(Anonymous, Write, Catalog))
	assert.False(t, Allow(Anonymous, Write, Catalog))

	assert.Equal(t, Forbidden, Decide(member, Write, Catalog))
	assert.False(t, Allow(member, Write, Catalog))

	assert.Equal(t, Permit, Decide(librarian, Write, Catalog))
	assert.True(t, Allow(librarian, Write, Catalog))
}

func TestDecide_CatalogReadsAlwaysPermitted(t *testing.T) {
	t.Parallel()

	for _, actor := range actors {
		assert.Equal(t, Permit, Decide(actor, Read, Catalog), "actor %+v", actor)
	}
}

func TestDecide_Table(t *testing.T) {
	t.Parallel()

	cases := []struct {
		kind   ResourceKind
		method Method
		want   [3]Outcome // anonymous, member, librarian
	}{
		{BorrowedAdmin, Read, [3]Outcome{AuthenticationRequired, Forbidden, Permit}},
		{BorrowedAdmin, Write, [3]Outcome{AuthenticationRequired, Forbidden, Permit}},
		{Dashboard, Read, [3]Outcome{Permit, Permit, Permit}},
		{Dashboard, Write, [3]Outcome{MethodNotAllowed, MethodNotAllowed, MethodNotAllowed}},
		{OwnLoans, Read, [3]Outcome{AuthenticationRequired, Permit, Permit}},
		{OwnLoans, Write, [3]Outcome{MethodNotAllowed, MethodNotAllowed, MethodNotAllowed}},
		{LibrarianRegistration, Write, [3]Outcome{AuthenticationRequired, Forbidden, Permit}},
		{UserRegistration, Write, [3]Outcome{Permit, Permit, Permit}},
		{Session, Write, [3]Outcome{AuthenticationRequired, Permit, Permit}},
	}

	for _, tt := range cases {
		for i, actor := range actors {
			assert.Equal(t, tt.want[i], Decide(actor, tt.method, tt.kind), "%s %s actor %+v", tt.kind, tt.method, actor)
			assert.Equal(t, tt.want[i] == Permit, Allow(actor, tt.method, tt.kind))
		}
	}
}

func TestDecide_UnknownKindIsClosed(t *testing.T) {
	t.Parallel()

	unknown := ResourceKind(99)
	assert.Equal(t, AuthenticationRequired, Decide(Anonymous, Read, unknown))
	assert.Equal(t, Forbidden, Decide(member, Read, unknown))
	assert.Equal(t, "unknown", unknown.String())
}

func TestMethodFromHTTP(t *testing.T) {
	t.Parallel()

	for _, m := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		assert.Equal(t, Read, MethodFromHTTP(m), m)
	}
	for _, m := range []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		assert.Equal(t, Write, MethodFromHTTP(m), m)
	}
}
