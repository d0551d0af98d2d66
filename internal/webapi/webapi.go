// Package webapi hosts the storefront HTTP handlers: public catalog
// browsing plus the session-authenticated cart, checkout, profile and
// seller endpoints.
package webapi

import (
	"net/http"

	"github.com/asaskevich/EventBus"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/gomallhq/gomall/internal/shop"
	"github.com/gomallhq/gomall/internal/webserver"
)

var bus EventBus.Bus

// InitRouter registers all storefront routes on the global web server.
func InitRouter(eventBus EventBus.Bus) {
	bus = eventBus
	registerAuthRoutes()
	registerCatalogRoutes()
	registerCartRoutes()
	registerCheckoutRoutes()
	registerMyProductRoutes()
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

func parseIDParam(c echo.Context, name string) (int64, error) {
	return webserver.ParseIDParam(c, name)
}

func GetDB(c echo.Context) *gorm.DB {
	return webserver.GetDB(c)
}

// currentIdentity reads the session identity; handlers behind the auth
// group always have one, this guards direct calls.
func currentIdentity(c echo.Context) (shop.Identity, error) {
	ident, found := webserver.CurrentIdentity(c)
	if !found {
		return shop.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}
	return ident, nil
}
