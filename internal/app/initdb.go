package app

import (
	"errors"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/gomallhq/gomall/internal/domain"
	"github.com/gomallhq/gomall/internal/shop"
	"github.com/gomallhq/gomall/pkg/common"
)

// checkRoles ensures the three built-in roles exist. Count-then-create,
// never destructive.
func (a *Application) checkRoles() {
	for _, name := range []string{"Admin", "Seller", "User"} {
		var count int64
		a.gormDB.Model(&domain.Role{}).
			Where("LOWER(TRIM(name)) = ?", strings.ToLower(name)).
			Count(&count)
		if count == 0 {
			if err := a.gormDB.Create(&domain.Role{
				ID:   common.UUIDint64(),
				Name: name,
			}).Error; err != nil {
				zap.L().Error("failed to create default role",
					zap.String("name", name), zap.Error(err))
			} else {
				zap.L().Info("initialized default role", zap.String("name", name))
			}
		}
	}
}

func (a *Application) checkSuper() {
	superEmail := os.Getenv("GOMALL_ADMIN_EMAIL")
	if superEmail == "" {
		superEmail = "admin@gomall.local"
	}
	superPassword := os.Getenv("GOMALL_ADMIN_PASSWORD")
	if superPassword == "" {
		superPassword = "gomall"
	}
	superUsername := strings.SplitN(superEmail, "@", 2)[0]

	var adminRole domain.Role
	if err := a.gormDB.Where("LOWER(TRIM(name)) = ?", shop.RoleAdmin).First(&adminRole).Error; err != nil {
		zap.L().Error("admin role missing, cannot ensure super admin", zap.Error(err))
		return
	}

	var user domain.User
	err := a.gormDB.Where("username = ?", superUsername).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		hash, herr := bcrypt.GenerateFromPassword([]byte(superPassword), bcrypt.DefaultCost)
		if herr != nil {
			zap.L().Error("failed to hash super admin password", zap.Error(herr))
			return
		}
		if err := a.gormDB.Create(&domain.User{
			ID:        common.UUIDint64(),
			Username:  superUsername,
			Email:     superEmail,
			Password:  string(hash),
			RoleID:    adminRole.ID,
			Enabled:   true,
			FirstName: "Super",
			LastName:  "Admin",
			LastLogin: time.Now(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to create default super admin", zap.Error(err))
		} else {
			zap.L().Info("initialized default super admin account",
				zap.String("username", superUsername))
		}
		return
	case err != nil:
		zap.L().Error("failed to query super admin", zap.Error(err))
		return
	}

	resetPassword := strings.TrimSpace(user.Password) == ""
	resetRole := user.RoleID != adminRole.ID
	resetEnabled := !user.Enabled

	if !resetPassword && !resetRole && !resetEnabled {
		return
	}

	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if resetPassword {
		hash, herr := bcrypt.GenerateFromPassword([]byte(superPassword), bcrypt.DefaultCost)
		if herr != nil {
			zap.L().Error("failed to hash super admin password", zap.Error(herr))
			return
		}
		updates["password"] = string(hash)
	}
	if resetRole {
		updates["role_id"] = adminRole.ID
	}
	if resetEnabled {
		updates["enabled"] = true
	}

	if err := a.gormDB.Model(&domain.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
		zap.L().Error("failed to repair super admin account", zap.Error(err))
		return
	}

	zap.L().Warn("repaired default super admin account",
		zap.String("username", superUsername),
		zap.Bool("passwordReset", resetPassword),
		zap.Bool("roleReset", resetRole),
		zap.Bool("enabledReset", resetEnabled))
}

// checkCategories initializes demo categories
func (a *Application) checkCategories() {
	defaultCategories := []domain.Category{
		{Name: "Electronics", Description: "Phones, laptops and accessories"},
		{Name: "Books", Description: "Print and digital books"},
		{Name: "Home", Description: "Home and kitchen goods"},
		{Name: "Clothing", Description: "Apparel and footwear"},
	}

	for _, cat := range defaultCategories {
		var count int64
		a.gormDB.Model(&domain.Category{}).Where("name = ?", cat.Name).Count(&count)
		if count == 0 {
			cat.ID = common.UUIDint64()
			if err := a.gormDB.Create(&cat).Error; err != nil {
				zap.L().Error("failed to create default category",
					zap.String("name", cat.Name), zap.Error(err))
			} else {
				zap.L().Info("initialized default category", zap.String("name", cat.Name))
			}
		}
	}
}
