package webserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/spf13/cast"

	"github.com/gomallhq/gomall/internal/shop"
)

// RestResult is the common response envelope.
type RestResult struct {
	Code    string      `json:"code"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Detail  interface{} `json:"detail,omitempty"`
}

// PageResult wraps paginated listings.
type PageResult struct {
	Items    interface{} `json:"items"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

// Ok writes a 200 envelope with data.
func Ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, RestResult{Code: "OK", Data: data})
}

// OkMessage writes a 200 envelope with a message only.
func OkMessage(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, RestResult{Code: "OK", Message: message})
}

// Fail writes an error envelope with the given status and code.
func Fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, RestResult{Code: code, Message: message, Detail: detail})
}

// Paged writes a paginated listing envelope.
func Paged(c echo.Context, items interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, RestResult{Code: "OK", Data: PageResult{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}})
}

// ParsePagination reads page/page_size query params with sane bounds.
func ParsePagination(c echo.Context) (page, pageSize int) {
	page = cast.ToInt(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize = cast.ToInt(c.QueryParam("page_size"))
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}
	return page, pageSize
}

// ParseIDParam reads a path parameter as an int64 identifier.
func ParseIDParam(c echo.Context, name string) (int64, error) {
	id := cast.ToInt64(c.Param(name))
	if id <= 0 {
		return 0, errors.Errorf("invalid %s parameter", name)
	}
	return id, nil
}

// FailError translates service errors into the envelope. Sentinels map
// to stable codes; anything else is a 500 with the detail hidden from
// the client.
func FailError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, shop.ErrNotFound):
		return Fail(c, http.StatusNotFound, "NOT_FOUND", "Resource not found", nil)
	case errors.Is(err, shop.ErrForbidden):
		return Fail(c, http.StatusForbidden, "FORBIDDEN", "Operation not allowed", nil)
	case errors.Is(err, shop.ErrEmptyCart):
		return Fail(c, http.StatusBadRequest, "EMPTY_CART", "Cart is empty", nil)
	case errors.Is(err, shop.ErrValidation):
		return Fail(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	case errors.Is(err, shop.ErrDuplicate):
		return Fail(c, http.StatusConflict, "DUPLICATE", err.Error(), nil)
	case errors.Is(err, shop.ErrInvalidCredentials):
		return Fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", nil)
	case errors.Is(err, shop.ErrInsufficientStock):
		return Fail(c, http.StatusConflict, "INSUFFICIENT_STOCK", "Not enough stock to fulfill the order", nil)
	default:
		return Fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
