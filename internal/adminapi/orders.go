package adminapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gomallhq/gomall/internal/domain"
	"github.com/gomallhq/gomall/internal/shop"
	"github.com/gomallhq/gomall/internal/webserver"
)

type orderStatusPayload struct {
	Status string `json:"status" form:"status"`
}

func registerOrderRoutes() {
	webserver.ApiGET("/admin/orders", listOrders)
	webserver.ApiPUT("/admin/orders/:id/status", updateOrderStatus)
	webserver.ApiGET("/admin/orders/export", exportOrders)
}

func listOrders(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	page, pageSize := parsePagination(c)

	base := GetDB(c).Model(&domain.Order{}).Preload("Items")
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		base = base.Where("status = ?", status)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}

	var orders []domain.Order
	if err := base.Order("created_at DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&orders).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}
	return paged(c, orders, total, page, pageSize)
}

func updateOrderStatus(c echo.Context) error {
	ident, err := tokenIdentity(c)
	if err != nil {
		return err
	}
	orderID, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}

	var payload orderStatusPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_BODY", "Invalid status payload", nil)
	}

	if err := shop.NewAdminService(GetDB(c)).UpdateOrderStatus(c.Request().Context(), ident, orderID, payload.Status); err != nil {
		return failError(c, err)
	}
	return okMessage(c, "order updated")
}

func exportOrders(c echo.Context) error {
	ident, err := tokenIdentity(c)
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("orders-%s.csv", time.Now().Format("20060102-150405"))
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	c.Response().WriteHeader(http.StatusOK)

	return shop.NewAdminService(GetDB(c)).ExportOrdersCSV(c.Request().Context(), ident, c.Response())
}
