package webapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/gomallhq/gomall/internal/shop"
	"github.com/gomallhq/gomall/internal/webserver"
)

func registerCartRoutes() {
	webserver.AuthGET("/cart", listCart)
	webserver.AuthPOST("/cart/:productId", addCartItem)
	webserver.AuthPUT("/cart/items/:id", updateCartItem)
	webserver.AuthDELETE("/cart/items/:id", removeCartItem)
}

func listCart(c echo.Context) error {
	ident, err := currentIdentity(c)
	if err != nil {
		return err
	}

	items, total, err := shop.NewCartService(GetDB(c)).ListItems(c.Request().Context(), ident)
	if err != nil {
		return failError(c, err)
	}
	return ok(c, echo.Map{"items": items, "total": total})
}

func addCartItem(c echo.Context) error {
	ident, err := currentIdentity(c)
	if err != nil {
		return err
	}
	productID, err := parseIDParam(c, "productId")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}

	qty := cast.ToInt(c.FormValue("quantity"))
	if qty == 0 {
		qty = 1
	}

	item, err := shop.NewCartService(GetDB(c)).AddItem(c.Request().Context(), ident, productID, qty)
	if err != nil {
		return failError(c, err)
	}
	return ok(c, item)
}

func updateCartItem(c echo.Context) error {
	ident, err := currentIdentity(c)
	if err != nil {
		return err
	}
	itemID, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid cart item ID", nil)
	}

	var delta int
	switch action := c.FormValue("action"); action {
	case "increase":
		delta = 1
	case "decrease":
		delta = -1
	default:
		return fail(c, http.StatusBadRequest, "INVALID_ACTION",
			"Action must be increase or decrease", nil)
	}

	if err := shop.NewCartService(GetDB(c)).UpdateQuantity(c.Request().Context(), ident, itemID, delta); err != nil {
		return failError(c, err)
	}
	return okMessage(c, "cart updated")
}

func removeCartItem(c echo.Context) error {
	ident, err := currentIdentity(c)
	if err != nil {
		return err
	}
	itemID, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid cart item ID", nil)
	}

	if err := shop.NewCartService(GetDB(c)).RemoveItem(c.Request().Context(), ident, itemID); err != nil {
		return failError(c, err)
	}
	return okMessage(c, "item removed")
}
