package webapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gomallhq/gomall/internal/shop"
	"github.com/gomallhq/gomall/internal/webserver"
)

func registerMyProductRoutes() {
	webserver.AuthGET("/my/products", listMyProducts)
	webserver.AuthPOST("/my/products", createMyProduct)
	webserver.AuthPUT("/my/products/:id", updateMyProduct)
	webserver.AuthDELETE("/my/products/:id", deleteMyProduct)
}

func listMyProducts(c echo.Context) error {
	ident, err := currentIdentity(c)
	if err != nil {
		return err
	}

	products, err := shop.NewProductService(GetDB(c)).ListMine(c.Request().Context(), ident)
	if err != nil {
		return failError(c, err)
	}
	return ok(c, products)
}

func createMyProduct(c echo.Context) error {
	ident, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var input shop.ProductInput
	if err := c.Bind(&input); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_BODY", "Invalid product payload", nil)
	}

	product, err := shop.NewProductService(GetDB(c)).Create(c.Request().Context(), ident, input)
	if err != nil {
		return failError(c, err)
	}
	return ok(c, product)
}

func updateMyProduct(c echo.Context) error {
	ident, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}

	var input shop.ProductInput
	if err := c.Bind(&input); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_BODY", "Invalid product payload", nil)
	}

	product, err := shop.NewProductService(GetDB(c)).Update(c.Request().Context(), ident, id, input)
	if err != nil {
		return failError(c, err)
	}
	return ok(c, product)
}

func deleteMyProduct(c echo.Context) error {
	ident, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}

	if err := shop.NewProductService(GetDB(c)).Delete(c.Request().Context(), ident, id); err != nil {
		return failError(c, err)
	}
	return okMessage(c, "product deleted")
}
