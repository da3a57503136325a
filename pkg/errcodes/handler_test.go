package errcodes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func serveError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	c := e.NewContext(req, rr)

	NewHandler().Handle(err, c)
	return rr
}

func TestHandle_FieldErrorsRenderedAsFieldMap(t *testing.T) {
	t.Parallel()

	rr := serveError(t, errors.WithStack(FieldError("username", "A user with that username already exists.")))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"username":["A user with that username already exists."]}`, rr.Body.String())
}

func TestHandle_CodedErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		code int
		slug string
	}{
		{AuthenticationRequired(), http.StatusUnauthorized, "unauthorized"},
		{PermissionDenied(), http.StatusForbidden, "forbidden"},
		{NotFound("Author"), http.StatusNotFound, "not_found"},
		{MethodNotAllowed(http.MethodPost), http.StatusMethodNotAllowed, "method_not_allowed"},
	}

	for _, tt := range cases {
		rr := serveError(t, errors.WithStack(tt.err))
		assert.Equal(t, tt.code, rr.Code)
		assert.Contains(t, rr.Body.String(), `"code":"`+tt.slug+`"`)
	}
}

func TestHandle_GenericErrorIsInternal(t *testing.T) {
	t.Parallel()

	rr := serveError(t, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "internal_server_error")
	assert.NotContains(t, rr.Body.String(), "boom")
}

func TestFieldErrors_OrNil(t *testing.T) {
	t.Parallel()

	fe := FieldErrors{}
	assert.NoError(t, fe.OrNil())

	fe.Add("isbn", "bad")
	fe.Add("isbn", "worse")
	assert.Error(t, fe.OrNil())
	assert.Equal(t, "isbn: bad worse", fe.Error())
}
