package shop

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gomallhq/gomall/internal/domain"
	"github.com/gomallhq/gomall/pkg/common"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AccountService handles registration, authentication and profile
// maintenance.
type AccountService struct {
	db *gorm.DB
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

type RegisterInput struct {
	FirstName  string `json:"first_name" form:"first_name"`
	MiddleName string `json:"middle_name" form:"middle_name"`
	LastName   string `json:"last_name" form:"last_name"`
	Email      string `json:"email" form:"email"`
	Password   string `json:"password" form:"password"`
	RoleName   string `json:"role" form:"role"`
}

// Register creates a user. The username is derived from the email
// local part; email and username must be unique; the requested role
// must exist.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	input.Email = strings.TrimSpace(input.Email)
	if input.Email == "" || !strings.Contains(input.Email, "@") {
		return nil, invalidf("email %q is not valid", input.Email)
	}
	if input.Password == "" {
		return nil, invalidf("password is required")
	}
	if input.RoleName == "" {
		input.RoleName = RoleUser
	}

	role, err := s.findRoleByName(ctx, input.RoleName)
	if err != nil {
		return nil, err
	}

	username := strings.SplitN(input.Email, "@", 2)[0]

	var count int64
	err = s.db.WithContext(ctx).Model(&domain.User{}).
		Where("email = ? OR username = ?", input.Email, username).
		Count(&count).Error
	if err != nil {
		return nil, wrapDBError(err, "accounts: check duplicates")
	}
	if count > 0 {
		return nil, ErrDuplicate
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, wrapDBError(err, "accounts: hash password")
	}

	user := &domain.User{
		ID:         common.UUIDint64(),
		Username:   username,
		Email:      input.Email,
		Password:   string(hash),
		RoleID:     role.ID,
		Enabled:    true,
		FirstName:  strings.TrimSpace(input.FirstName),
		MiddleName: strings.TrimSpace(input.MiddleName),
		LastName:   strings.TrimSpace(input.LastName),
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, wrapDBError(err, "accounts: create user")
	}
	user.Role = role

	zap.L().Info("user registered",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username),
		zap.String("role", role.Name))
	return user, nil
}

// Authenticate verifies the credentials and returns the user with the
// role preloaded. Disabled accounts are rejected even with the right
// password.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).
		Preload("Role").
		Where("email = ?", strings.TrimSpace(email)).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, wrapDBError(err, "accounts: load user")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.Enabled {
		return nil, ErrForbidden
	}

	// Non-fatal: a failed timestamp write must not block the login.
	err = s.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", user.ID).
		Update("last_login", time.Now()).Error
	if err != nil {
		zap.L().Warn("failed to record last login",
			zap.Int64("user_id", user.ID),
			zap.Error(err))
	}
	return &user, nil
}

// GetUser loads a user with the role preloaded.
func (s *AccountService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).Preload("Role").First(&user, id).Error
	if err != nil {
		return nil, wrapDBError(err, "accounts: load user")
	}
	return &user, nil
}

type ProfileInput struct {
	FirstName  string `json:"first_name" form:"first_name"`
	MiddleName string `json:"middle_name" form:"middle_name"`
	LastName   string `json:"last_name" form:"last_name"`
	Email      string `json:"email" form:"email"`
	Password   string `json:"password" form:"password"`
	RoleID     int64  `json:"role_id,string" form:"role_id"`
}

// UpdateProfile lets a user edit their own record. The password and
// role only change when a new value is supplied.
func (s *AccountService) UpdateProfile(ctx context.Context, ident Identity, input ProfileInput) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, ident.UserID).Error; err != nil {
		return nil, wrapDBError(err, "accounts: load user")
	}

	updates := map[string]interface{}{
		"first_name":  strings.TrimSpace(input.FirstName),
		"middle_name": strings.TrimSpace(input.MiddleName),
		"last_name":   strings.TrimSpace(input.LastName),
		"updated_at":  time.Now(),
	}
	if email := strings.TrimSpace(input.Email); email != "" && email != user.Email {
		var count int64
		err := s.db.WithContext(ctx).Model(&domain.User{}).
			Where("email = ? AND id != ?", email, user.ID).
			Count(&count).Error
		if err != nil {
			return nil, wrapDBError(err, "accounts: check email")
		}
		if count > 0 {
			return nil, ErrDuplicate
		}
		updates["email"] = email
	}
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, wrapDBError(err, "accounts: hash password")
		}
		updates["password"] = string(hash)
	}
	if input.RoleID != 0 && input.RoleID != user.RoleID {
		var role domain.Role
		if err := s.db.WithContext(ctx).First(&role, input.RoleID).Error; err != nil {
			return nil, wrapDBError(err, "accounts: load role")
		}
		updates["role_id"] = role.ID
	}

	if err := s.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
		return nil, wrapDBError(err, "accounts: update profile")
	}
	return s.GetUser(ctx, user.ID)
}

func (s *AccountService) findRoleByName(ctx context.Context, name string) (*domain.Role, error) {
	var roles []domain.Role
	if err := s.db.WithContext(ctx).Find(&roles).Error; err != nil {
		return nil, wrapDBError(err, "accounts: list roles")
	}
	for i := range roles {
		if normalizeRole(roles[i].Name) == normalizeRole(name) {
			return &roles[i], nil
		}
	}
	return nil, ErrNotFound
}
