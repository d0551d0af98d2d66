package webserver

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/gomallhq/gomall/internal/domain"
	"github.com/gomallhq/gomall/internal/shop"
)

// TokenClaims is the back-office bearer token payload.
type TokenClaims struct {
	UserID   int64  `json:"uid,string"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs a back-office token for the user.
func (s *WebServer) IssueToken(user *domain.User) (string, error) {
	claims := TokenClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			Issuer:    s.cfg.System.Appid,
		},
	}
	if user.Role != nil {
		claims.Role = user.Role.Name
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Web.JwtSecret))
}

func adminJWT(secret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(secret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(TokenClaims)
		},
	})
}

// TokenIdentity resolves the verified bearer token into an Identity.
func TokenIdentity(c echo.Context) (shop.Identity, bool) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return shop.Identity{}, false
	}
	claims, ok := token.Claims.(*TokenClaims)
	if !ok {
		return shop.Identity{}, false
	}
	return shop.Identity{
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     claims.Role,
	}, true
}
