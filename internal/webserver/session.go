package webserver

import (
	"net/http"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/gomallhq/gomall/internal/domain"
	"github.com/gomallhq/gomall/internal/shop"
)

const sessionName = "gomall_session"

const (
	sessionKeyUserID   = "uid"
	sessionKeyUsername = "username"
	sessionKeyRole     = "role"
)

// SetLoginSession stores the authenticated identity in the cookie
// session. The role name is captured at login time, like the rest of
// the identity.
func SetLoginSession(c echo.Context, user *domain.User) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Options.HttpOnly = true
	sess.Options.MaxAge = 86400 * 7
	sess.Values[sessionKeyUserID] = user.ID
	sess.Values[sessionKeyUsername] = user.Username
	if user.Role != nil {
		sess.Values[sessionKeyRole] = user.Role.Name
	}
	return sess.Save(c.Request(), c.Response())
}

// ClearSession logs the caller out.
func ClearSession(c echo.Context) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Options.MaxAge = -1
	sess.Values = map[interface{}]interface{}{}
	return sess.Save(c.Request(), c.Response())
}

// CurrentIdentity resolves the session into the capability value the
// service layer expects.
func CurrentIdentity(c echo.Context) (shop.Identity, bool) {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return shop.Identity{}, false
	}
	uid := cast.ToInt64(sess.Values[sessionKeyUserID])
	if uid == 0 {
		return shop.Identity{}, false
	}
	return shop.Identity{
		UserID:   uid,
		Username: cast.ToString(sess.Values[sessionKeyUsername]),
		Role:     cast.ToString(sess.Values[sessionKeyRole]),
	}, true
}

// requireSession rejects unauthenticated storefront requests.
func requireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := CurrentIdentity(c); !ok {
				return Fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Login required", nil)
			}
			return next(c)
		}
	}
}
