// Package adminapi hosts the back-office HTTP handlers under /api,
// authenticated with a bearer token carrying the admin role claim.
package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/gomallhq/gomall/internal/shop"
	"github.com/gomallhq/gomall/internal/webserver"
)

// InitRouter registers all back-office routes on the global web server.
func InitRouter() {
	registerTokenRoutes()
	registerDashboardRoutes()
	registerUserRoutes()
	registerOrderRoutes()
	registerProductRoutes()
	registerCategoryRoutes()
	registerSupplierRoutes()
	registerMetricsRoutes()
}

func ok(c echo.Context, data interface{}) error {
	return webserver.Ok(c, data)
}

func okMessage(c echo.Context, message string) error {
	return webserver.OkMessage(c, message)
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return webserver.Fail(c, status, code, message, detail)
}

func failError(c echo.Context, err error) error {
	return webserver.FailError(c, err)
}

func paged(c echo.Context, items interface{}, total int64, page, pageSize int) error {
	return webserver.Paged(c, items, total, page, pageSize)
}

func parsePagination(c echo.Context) (int, int) {
	return webserver.ParsePagination(c)
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return webserver.ParseIDParam(c, name)
}

func GetDB(c echo.Context) *gorm.DB {
	return webserver.GetDB(c)
}

// tokenIdentity resolves the verified bearer token. Handlers pass the
// identity down to the service layer, which enforces the admin gate.
func tokenIdentity(c echo.Context) (shop.Identity, error) {
	ident, found := webserver.TokenIdentity(c)
	if !found {
		return shop.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "bearer token required")
	}
	return ident, nil
}

// requireAdmin re-checks the role claim. Tokens are admin-only at
// issuance, but a demoted admin keeps a valid token until it expires,
// so handlers without a service-level gate check here too.
func requireAdmin(c echo.Context) error {
	ident, err := tokenIdentity(c)
	if err != nil {
		return err
	}
	if !ident.IsAdmin() {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Admin role required", nil)
	}
	return nil
}
