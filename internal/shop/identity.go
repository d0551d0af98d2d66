package shop

import (
	"strings"

	"github.com/gomallhq/gomall/internal/domain"
)

// Well-known role names. Roles are free text in the store, so every
// comparison goes through the lower+trim normalization.
const (
	RoleAdmin  = "admin"
	RoleSeller = "seller"
	RoleUser   = "user"
)

// Identity is the capability value passed into every service call.
// Services never reach for ambient session state; the HTTP layer
// resolves the session or token into an Identity up front.
type Identity struct {
	UserID   int64
	Username string
	Role     string
}

// IdentityOf builds an Identity from a loaded user row.
func IdentityOf(u *domain.User) Identity {
	ident := Identity{UserID: u.ID, Username: u.Username}
	if u.Role != nil {
		ident.Role = u.Role.Name
	}
	return ident
}

func normalizeRole(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// HasRole compares role names case- and whitespace-insensitively.
func (i Identity) HasRole(name string) bool {
	return normalizeRole(i.Role) == normalizeRole(name)
}

func (i Identity) IsAdmin() bool {
	return i.HasRole(RoleAdmin)
}

func (i Identity) IsSeller() bool {
	return i.HasRole(RoleSeller)
}
