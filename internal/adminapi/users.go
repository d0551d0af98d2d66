package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/gomallhq/gomall/internal/domain"
	"github.com/gomallhq/gomall/internal/shop"
	"github.com/gomallhq/gomall/internal/webserver"
)

type userRolePayload struct {
	Role string `json:"role" form:"role"`
}

func registerUserRoutes() {
	webserver.ApiGET("/admin/users", listUsers)
	webserver.ApiPUT("/admin/users/:id/role", changeUserRole)
	webserver.ApiPUT("/admin/users/:id/enabled", toggleUserEnabled)
}

func listUsers(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	page, pageSize := parsePagination(c)

	base := GetDB(c).Model(&domain.User{}).Preload("Role")
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		base = base.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query users", err.Error())
	}

	var users []domain.User
	if err := base.Order("id DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&users).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query users", err.Error())
	}
	return paged(c, users, total, page, pageSize)
}

func changeUserRole(c echo.Context) error {
	ident, err := tokenIdentity(c)
	if err != nil {
		return err
	}
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID", nil)
	}

	var payload userRolePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_BODY", "Invalid role payload", nil)
	}

	if err := shop.NewAdminService(GetDB(c)).ChangeUserRole(c.Request().Context(), ident, userID, payload.Role); err != nil {
		return failError(c, err)
	}
	return okMessage(c, "role updated")
}

func toggleUserEnabled(c echo.Context) error {
	ident, err := tokenIdentity(c)
	if err != nil {
		return err
	}
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID", nil)
	}

	if err := shop.NewAdminService(GetDB(c)).ToggleUserEnabled(c.Request().Context(), ident, userID); err != nil {
		return failError(c, err)
	}
	return okMessage(c, "user updated")
}
