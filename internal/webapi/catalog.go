package webapi

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/gomallhq/gomall/internal/shop"
	"github.com/gomallhq/gomall/internal/webserver"
)

func registerCatalogRoutes() {
	webserver.PubGET("/products", listProducts)
	webserver.PubGET("/products/search", searchProducts)
	webserver.PubGET("/products/top", topProducts)
	webserver.PubGET("/products/stats", productStats)
}

func listProducts(c echo.Context) error {
	filter := shop.CatalogFilter{
		CategoryID: cast.ToInt64(c.QueryParam("category_id")),
	}
	if v := strings.TrimSpace(c.QueryParam("min_price")); v != "" {
		min := cast.ToFloat64(v)
		filter.MinPrice = &min
	}
	if v := strings.TrimSpace(c.QueryParam("max_price")); v != "" {
		max := cast.ToFloat64(v)
		filter.MaxPrice = &max
	}
	page := cast.ToInt(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}

	result, err := shop.NewCatalogService(GetDB(c)).ListPublished(c.Request().Context(), filter, page)
	if err != nil {
		return failError(c, err)
	}
	return ok(c, result)
}

func searchProducts(c echo.Context) error {
	products, err := shop.NewCatalogService(GetDB(c)).Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return failError(c, err)
	}
	return ok(c, products)
}

func topProducts(c echo.Context) error {
	top, err := shop.NewCatalogService(GetDB(c)).TopProducts(c.Request().Context())
	if err != nil {
		return failError(c, err)
	}
	return ok(c, top)
}

func productStats(c echo.Context) error {
	stats, err := shop.NewCatalogService(GetDB(c)).StatsByProduct(c.Request().Context())
	if err != nil {
		return failError(c, err)
	}
	return ok(c, stats)
}
