package webapi

import (
	"github.com/labstack/echo/v4"

	"github.com/gomallhq/gomall/internal/shop"
	"github.com/gomallhq/gomall/internal/webserver"
)

func registerCheckoutRoutes() {
	webserver.AuthPOST("/checkout", checkout)
}

func checkout(c echo.Context) error {
	ident, err := currentIdentity(c)
	if err != nil {
		return err
	}

	orders, err := shop.NewCheckoutService(GetDB(c), bus).Checkout(c.Request().Context(), ident)
	if err != nil {
		return failError(c, err)
	}
	return ok(c, orders)
}
