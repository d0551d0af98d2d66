package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/gomallhq/gomall/internal/shop"
	"github.com/gomallhq/gomall/internal/webserver"
)

type tokenRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type tokenResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func registerTokenRoutes() {
	// Token issuance cannot sit behind the bearer middleware.
	webserver.PubPOST("/api/token", issueToken)
}

func issueToken(c echo.Context) error {
	var req tokenRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_BODY", "Invalid token request", nil)
	}

	user, err := shop.NewAccountService(GetDB(c)).Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return failError(c, err)
	}

	ident := shop.IdentityOf(user)
	if !ident.IsAdmin() {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "Admin role required", nil)
	}

	token, err := webserver.Server().IssueToken(user)
	if err != nil {
		return failError(c, err)
	}

	zap.L().Info("admin token issued", zap.String("username", user.Username))
	return ok(c, tokenResponse{Token: token, Username: user.Username, Role: ident.Role})
}
