package webapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gomallhq/gomall/config"
	"github.com/gomallhq/gomall/internal/domain"
	"github.com/gomallhq/gomall/internal/webserver"
	"github.com/gomallhq/gomall/pkg/common"
)

var apiTestSeq int64

type apiFixture struct {
	srv *webserver.WebServer
	db  *gorm.DB
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:webapitest%d?mode=memory&cache=shared", atomic.AddInt64(&apiTestSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))

	require.NoError(t, db.Create(&domain.Role{ID: common.UUIDint64(), Name: "User"}).Error)
	require.NoError(t, db.Create(&domain.Role{ID: common.UUIDint64(), Name: "Seller"}).Error)

	cfg := &config.AppConfig{
		System: config.SystemConfig{Appid: "gomall-test"},
		Web: config.WebConfig{
			Secret:    "webapi-test-secret",
			JwtSecret: "webapi-test-jwt",
		},
	}
	srv := webserver.Init(cfg, db)
	InitRouter(EventBus.New())

	return &apiFixture{srv: srv, db: db}
}

func (f *apiFixture) do(t *testing.T, method, target, contentType, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	f.srv.Echo().ServeHTTP(rec, req)
	return rec
}

func (f *apiFixture) registerAndLogin(t *testing.T, email, password string) []*http.Cookie {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := f.do(t, http.MethodPost, "/register", "application/json", body, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodPost, "/login", "application/json", body, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func (f *apiFixture) seedProduct(t *testing.T, name string, price float64) *domain.Product {
	t.Helper()
	var sellerRole domain.Role
	require.NoError(t, f.db.Where("name = ?", "Seller").First(&sellerRole).Error)

	seller := domain.User{
		ID:       common.UUIDint64(),
		Username: "seller-" + name,
		Email:    "seller-" + name + "@example.com",
		RoleID:   sellerRole.ID,
		Enabled:  true,
	}
	require.NoError(t, f.db.Create(&seller).Error)

	category := domain.Category{ID: common.UUIDint64(), Name: "cat-" + name}
	require.NoError(t, f.db.Create(&category).Error)

	product := domain.Product{
		ID:         common.UUIDint64(),
		Name:       name,
		Price:      price,
		CategoryID: category.ID,
		Published:  true,
		CreatedBy:  seller.ID,
	}
	require.NoError(t, f.db.Create(&product).Error)
	return &product
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newAPIFixture(t)
	f.registerAndLogin(t, "carol@example.com", "s3cret")

	rec := f.do(t, http.MethodPost, "/login", "application/json",
		`{"email":"carol@example.com","password":"wrong"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_CREDENTIALS")
}

func TestCartRequiresSession(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/cart", "", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
}

func TestPublicCatalogNeedsNoSession(t *testing.T) {
	f := newAPIFixture(t)
	f.seedProduct(t, "lamp", 19.5)

	rec := f.do(t, http.MethodGet, "/products", "", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "lamp")

	rec = f.do(t, http.MethodGet, "/products/search?q=lam", "", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "lamp")
}

func TestCartCheckoutFlow(t *testing.T) {
	f := newAPIFixture(t)
	product := f.seedProduct(t, "teapot", 12.5)
	cookies := f.registerAndLogin(t, "dave@example.com", "s3cret")

	target := fmt.Sprintf("/cart/%d", product.ID)
	rec := f.do(t, http.MethodPost, target, "application/x-www-form-urlencoded", "quantity=2", cookies)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/cart", "", "", cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data struct {
			Total float64 `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.InDelta(t, 25.0, envelope.Data.Total, 0.001)

	rec = f.do(t, http.MethodPost, "/checkout", "", "", cookies)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "pending")

	// The cart was consumed, a second checkout has nothing to place.
	rec = f.do(t, http.MethodPost, "/checkout", "", "", cookies)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "EMPTY_CART")
}

func TestCheckoutUnknownProductHiddenFromCart(t *testing.T) {
	f := newAPIFixture(t)
	cookies := f.registerAndLogin(t, "erin@example.com", "s3cret")

	rec := f.do(t, http.MethodPost, "/cart/990011", "application/x-www-form-urlencoded", "quantity=1", cookies)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}
