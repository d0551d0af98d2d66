package webserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gomallhq/gomall/internal/shop"
)

func newTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestFailErrorMapsSentinels(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{shop.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{shop.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{shop.ErrEmptyCart, http.StatusBadRequest, "EMPTY_CART"},
		{shop.ErrValidation, http.StatusBadRequest, "VALIDATION_ERROR"},
		{shop.ErrDuplicate, http.StatusConflict, "DUPLICATE"},
		{shop.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{shop.ErrInsufficientStock, http.StatusConflict, "INSUFFICIENT_STOCK"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		c, rec := newTestContext(t)
		require.NoError(t, FailError(c, tc.err))
		assert.Equal(t, tc.status, rec.Code)
		assert.Contains(t, rec.Body.String(), tc.code)
	}
}

func TestFailErrorUnwrapsWrappedSentinels(t *testing.T) {
	c, rec := newTestContext(t)
	wrapped := errors.Wrap(shop.ErrInsufficientStock, "product 42")
	require.NoError(t, FailError(c, wrapped))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestParsePaginationBounds(t *testing.T) {
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/?page=3&page_size=50", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	page, size := ParsePagination(c)
	assert.Equal(t, 3, page)
	assert.Equal(t, 50, size)

	req = httptest.NewRequest(http.MethodGet, "/?page=-1&page_size=9999", nil)
	c = e.NewContext(req, httptest.NewRecorder())
	page, size = ParsePagination(c)
	assert.Equal(t, 1, page)
	assert.Equal(t, 200, size)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	c = e.NewContext(req, httptest.NewRecorder())
	page, size = ParsePagination(c)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, size)
}

func TestParseIDParam(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("12345")

	id, err := ParseIDParam(c, "id")
	require.NoError(t, err)
	assert.EqualValues(t, 12345, id)

	c.SetParamValues("not-a-number")
	_, err = ParseIDParam(c, "id")
	assert.Error(t, err)
}
