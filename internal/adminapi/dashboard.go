package adminapi

import (
	"github.com/labstack/echo/v4"

	"github.com/gomallhq/gomall/internal/shop"
	"github.com/gomallhq/gomall/internal/webserver"
)

func registerDashboardRoutes() {
	webserver.ApiGET("/admin/dashboard", getDashboard)
}

func getDashboard(c echo.Context) error {
	ident, err := tokenIdentity(c)
	if err != nil {
		return err
	}

	stats, err := shop.NewAdminService(GetDB(c)).Dashboard(c.Request().Context(), ident)
	if err != nil {
		return failError(c, err)
	}
	return ok(c, stats)
}
