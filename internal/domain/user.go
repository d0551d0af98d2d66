package domain

import (
	"strings"
	"time"
)

// Role names are free text; authorization always compares them
// lower-cased and trimmed.
type Role struct {
	ID   int64  `json:"id,string" form:"id"`
	Name string `gorm:"uniqueIndex" json:"name" form:"name"`
}

// TableName Specify table name
func (Role) TableName() string {
	return "roles"
}

type User struct {
	ID         int64     `json:"id,string" form:"id"`
	Username   string    `gorm:"uniqueIndex" json:"username" form:"username"`
	Email      string    `gorm:"uniqueIndex" json:"email" form:"email"`
	Password   string    `json:"-" form:"-"`
	RoleID     int64     `gorm:"index" json:"role_id,string" form:"role_id"`
	Enabled    bool      `json:"enabled" form:"enabled"`
	FirstName  string    `json:"first_name" form:"first_name"`
	MiddleName string    `json:"middle_name" form:"middle_name"`
	LastName   string    `json:"last_name" form:"last_name"`
	LastLogin  time.Time `json:"last_login"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Role *Role `gorm:"foreignKey:RoleID" json:"role,omitempty"`
}

// TableName Specify table name
func (User) TableName() string {
	return "users"
}

// HasRole reports whether the user's loaded role matches name,
// ignoring case and surrounding whitespace.
func (u *User) HasRole(name string) bool {
	if u.Role == nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(u.Role.Name), strings.TrimSpace(name))
}

// DisplayName prefers the first name over the username.
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}
