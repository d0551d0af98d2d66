package webapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/gomallhq/gomall/internal/shop"
	"github.com/gomallhq/gomall/internal/webserver"
)

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func registerAuthRoutes() {
	webserver.PubPOST("/register", register)
	webserver.PubPOST("/login", login)
	webserver.AuthGET("/logout", logout)
	webserver.AuthGET("/profile", getProfile)
	webserver.AuthPOST("/profile", updateProfile)
}

func register(c echo.Context) error {
	var input shop.RegisterInput
	if err := c.Bind(&input); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_BODY", "Invalid registration payload", nil)
	}

	user, err := shop.NewAccountService(GetDB(c)).Register(c.Request().Context(), input)
	if err != nil {
		return failError(c, err)
	}
	return ok(c, user)
}

func login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_BODY", "Invalid login payload", nil)
	}

	user, err := shop.NewAccountService(GetDB(c)).Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return failError(c, err)
	}

	if err := webserver.SetLoginSession(c, user); err != nil {
		return failError(c, err)
	}

	zap.L().Info("user logged in", zap.String("username", user.Username))
	return ok(c, user)
}

func logout(c echo.Context) error {
	if err := webserver.ClearSession(c); err != nil {
		return failError(c, err)
	}
	return okMessage(c, "logged out")
}

func getProfile(c echo.Context) error {
	ident, err := currentIdentity(c)
	if err != nil {
		return err
	}

	user, err := shop.NewAccountService(GetDB(c)).GetUser(c.Request().Context(), ident.UserID)
	if err != nil {
		return failError(c, err)
	}
	return ok(c, user)
}

func updateProfile(c echo.Context) error {
	ident, err := currentIdentity(c)
	if err != nil {
		return err
	}

	var input shop.ProfileInput
	if err := c.Bind(&input); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_BODY", "Invalid profile payload", nil)
	}

	user, err := shop.NewAccountService(GetDB(c)).UpdateProfile(c.Request().Context(), ident, input)
	if err != nil {
		return failError(c, err)
	}

	// Role or name changes must be reflected in the session.
	if err := webserver.SetLoginSession(c, user); err != nil {
		return failError(c, err)
	}
	return ok(c, user)
}
