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

type supplierPayload struct {
	Name        string `json:"name" form:"name"`
	ContactInfo string `json:"contact_info" form:"contact_info"`
	UserID      int64  `json:"user_id,string" form:"user_id"`
}

func registerSupplierRoutes() {
	webserver.ApiGET("/admin/suppliers", listSuppliers)
	webserver.ApiGET("/admin/suppliers/:id", getSupplier)
	webserver.ApiPOST("/admin/suppliers", createSupplier)
	webserver.ApiPUT("/admin/suppliers/:id", updateSupplier)
	webserver.ApiDELETE("/admin/suppliers/:id", deleteSupplier)
}

func listSuppliers(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	page, pageSize := parsePagination(c)

	base := GetDB(c).Model(&domain.Supplier{})
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		base = base.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query suppliers", err.Error())
	}

	var suppliers []domain.Supplier
	if err := base.Order("id ASC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&suppliers).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query suppliers", err.Error())
	}
	return paged(c, suppliers, total, page, pageSize)
}

func getSupplier(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid supplier ID", nil)
	}

	var supplier domain.Supplier
	if err := GetDB(c).Where("id = ?", id).First(&supplier).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "SUPPLIER_NOT_FOUND", "Supplier not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query supplier", err.Error())
	}
	return ok(c, supplier)
}

func createSupplier(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	var payload supplierPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_BODY", "Invalid supplier payload", nil)
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Supplier name is required", nil)
	}

	supplier := domain.Supplier{
		ID:          common.UUIDint64(),
		Name:        payload.Name,
		ContactInfo: strings.TrimSpace(payload.ContactInfo),
		UserID:      payload.UserID,
	}
	if err := GetDB(c).Create(&supplier).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create supplier", err.Error())
	}
	return ok(c, supplier)
}

func updateSupplier(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid supplier ID", nil)
	}

	var supplier domain.Supplier
	if err := GetDB(c).Where("id = ?", id).First(&supplier).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "SUPPLIER_NOT_FOUND", "Supplier not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query supplier", err.Error())
	}

	var payload supplierPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_BODY", "Invalid supplier payload", nil)
	}
	if name := strings.TrimSpace(payload.Name); name != "" {
		supplier.Name = name
	}
	supplier.ContactInfo = strings.TrimSpace(payload.ContactInfo)
	if payload.UserID != 0 {
		supplier.UserID = payload.UserID
	}

	if err := GetDB(c).Save(&supplier).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update supplier", err.Error())
	}
	return ok(c, supplier)
}

func deleteSupplier(c echo.Context) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid supplier ID", nil)
	}

	var count int64
	if err := GetDB(c).Model(&domain.Product{}).Where("supplier_id = ?", id).Count(&count).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to check supplier usage", err.Error())
	}
	if count > 0 {
		return fail(c, http.StatusConflict, "SUPPLIER_IN_USE", "Supplier still has products", nil)
	}

	if err := GetDB(c).Delete(&domain.Supplier{}, id).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete supplier", err.Error())
	}
	return okMessage(c, "supplier deleted")
}
