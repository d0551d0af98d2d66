package adminapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/gomallhq/gomall/internal/domain"
	"github.com/gomallhq/gomall/internal/webserver"
	"github.com/gomallhq/gomall/pkg/common"
)

type categoryPayload struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
}

func registerCategoryRoutes() {
	webserver.ApiGET("/admin/categories", listCategories)
	webserver.ApiGET("/admin/categories/:id", getCategory)
	webserver.ApiPOST("/admin/categories", createCategory)
	webserver.ApiPUT("/admin/categories/:id", updateCategory)
	webserver.ApiDELETE("/admin/categories/:id", deleteCategory)
}

func listCategories(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	page, pageSize := parsePagination(c)

	base := GetDB(c).Model(&domain.Category{})
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		base = base.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query categories", err.Error())
	}

	var categories []domain.Category
	if err := base.Order("id ASC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&categories).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query categories", err.Error())
	}
	return paged(c, categories, total, page, pageSize)
}

func getCategory(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}

	var category domain.Category
	if err := GetDB(c).Where("id = ?", id).First(&category).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "CATEGORY_NOT_FOUND", "Category not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query category", err.Error())
	}
	return ok(c, category)
}

func createCategory(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_BODY", "Invalid category payload", nil)
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Category name is required", nil)
	}

	category := domain.Category{
		ID:          common.UUIDint64(),
		Name:        payload.Name,
		Description: strings.TrimSpace(payload.Description),
	}
	if err := GetDB(c).Create(&category).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create category", err.Error())
	}
	return ok(c, category)
}

func updateCategory(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}

	var category domain.Category
	if err := GetDB(c).Where("id = ?", id).First(&category).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "CATEGORY_NOT_FOUND", "Category not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query category", err.Error())
	}

	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_BODY", "Invalid category payload", nil)
	}
	if name := strings.TrimSpace(payload.Name); name != "" {
		category.Name = name
	}
	category.Description = strings.TrimSpace(payload.Description)

	if err := GetDB(c).Save(&category).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update category", err.Error())
	}
	return ok(c, category)
}

func deleteCategory(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}

	var count int64
	if err := GetDB(c).Model(&domain.Product{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to check category usage", err.Error())
	}
	if count > 0 {
		return fail(c, http.StatusConflict, "CATEGORY_IN_USE", "Category still has products", nil)
	}

	if err := GetDB(c).Delete(&domain.Category{}, id).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete category", err.Error())
	}
	return okMessage(c, "category deleted")
}
