package webserver

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/sessions"
	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/gomallhq/gomall/config"
)

var server *WebServer

// WebServer hosts both the storefront API and the back-office API on
// one echo instance.
type WebServer struct {
	cfg  *config.AppConfig
	db   *gorm.DB
	root *echo.Echo

	pub  *echo.Group // no auth
	auth *echo.Group // session auth (storefront)
	api  *echo.Group // jwt auth (back office)
}

// jsonSerializer plugs jsoniter into echo.
type jsonSerializer struct{}

func (jsonSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := jsoniter.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (jsonSerializer) Deserialize(c echo.Context, i interface{}) error {
	if err := jsoniter.NewDecoder(c.Request().Body).Decode(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed json body").SetInternal(err)
	}
	return nil
}

// Init builds the global web server instance.
func Init(cfg *config.AppConfig, db *gorm.DB) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = cfg.System.Debug
	e.JSONSerializer = jsonSerializer{}
	e.Logger.SetOutput(io.Discard)

	e.Use(middleware.Recover())
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(cfg.Web.Secret))))
	e.Use(injectDB(db))
	e.Use(zapRequestLogger())

	s := &WebServer{
		cfg:  cfg,
		db:   db,
		root: e,
	}
	s.pub = e.Group("")
	s.auth = e.Group("", requireSession())
	s.api = e.Group("/api", adminJWT(cfg.Web.JwtSecret))

	server = s
	return s
}

// Server returns the global instance built by Init.
func Server() *WebServer {
	return server
}

// Listen blocks serving HTTP until the listener fails.
func (s *WebServer) Listen() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Web.Host, s.cfg.Web.Port)
	zap.L().Info("web server starting", zap.String("listen", addr))
	return s.root.Start(addr)
}

// Echo exposes the underlying instance for tests.
func (s *WebServer) Echo() *echo.Echo {
	return s.root
}

const ctxDBKey = "gomall_db"

func injectDB(db *gorm.DB) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ctxDBKey, db)
			return next(c)
		}
	}
}

// GetDB returns the request-scoped database handle.
func GetDB(c echo.Context) *gorm.DB {
	return c.Get(ctxDBKey).(*gorm.DB)
}

func zapRequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				zap.L().Warn("http request failed",
					zap.String("method", v.Method),
					zap.String("uri", v.URI),
					zap.Int("status", v.Status),
					zap.Error(v.Error))
				return nil
			}
			zap.L().Debug("http request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status))
			return nil
		},
	})
}

// Public route registration (no authentication).

func PubGET(path string, h echo.HandlerFunc) {
	server.pub.GET(path, h)
}

func PubPOST(path string, h echo.HandlerFunc) {
	server.pub.POST(path, h)
}

// Session-authenticated storefront routes.

func AuthGET(path string, h echo.HandlerFunc) {
	server.auth.GET(path, h)
}

func AuthPOST(path string, h echo.HandlerFunc) {
	server.auth.POST(path, h)
}

func AuthPUT(path string, h echo.HandlerFunc) {
	server.auth.PUT(path, h)
}

func AuthDELETE(path string, h echo.HandlerFunc) {
	server.auth.DELETE(path, h)
}

// JWT-authenticated back-office routes under /api.

func ApiGET(path string, h echo.HandlerFunc) {
	server.api.GET(path, h)
}

func ApiPOST(path string, h echo.HandlerFunc) {
	server.api.POST(path, h)
}

func ApiPUT(path string, h echo.HandlerFunc) {
	server.api.PUT(path, h)
}

func ApiDELETE(path string, h echo.HandlerFunc) {
	server.api.DELETE(path, h)
}
