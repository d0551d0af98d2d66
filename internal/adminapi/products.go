package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/gomallhq/gomall/internal/domain"
	"github.com/gomallhq/gomall/internal/shop"
	"github.com/gomallhq/gomall/internal/webserver"
)

func registerProductRoutes() {
	webserver.ApiGET("/admin/products", listAllProducts)
	webserver.ApiPUT("/admin/products/:id/published", toggleProductPublished)
}

func listAllProducts(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	page, pageSize := parsePagination(c)

	base := GetDB(c).Model(&domain.Product{}).Preload("Category").Preload("Creator")
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		base = base.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	var products []domain.Product
	if err := base.Order("id DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&products).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}
	return paged(c, products, total, page, pageSize)
}

func toggleProductPublished(c echo.Context) error {
	ident, err := tokenIdentity(c)
	if err != nil {
		return err
	}
	productID, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}

	if err := shop.NewAdminService(GetDB(c)).ToggleProductPublished(c.Request().Context(), ident, productID); err != nil {
		return failError(c, err)
	}
	return okMessage(c, "product updated")
}
