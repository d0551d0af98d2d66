package shop

import (
	"fmt"
	"testing"

	"github.com/gomallhq/gomall/internal/domain"
	"github.com/gomallhq/gomall/pkg/common"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq int

// newTestDB opens a private in-memory database and migrates the full
// schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDBSeq++
	dsn := fmt.Sprintf("file:shoptest%d?mode=memory&cache=shared", testDBSeq)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return db
}

func seedRole(t *testing.T, db *gorm.DB, name string) *domain.Role {
	t.Helper()
	role := &domain.Role{ID: common.UUIDint64(), Name: name}
	require.NoError(t, db.Create(role).Error)
	return role
}

func seedUser(t *testing.T, db *gorm.DB, username string, role *domain.Role) *domain.User {
	t.Helper()
	user := &domain.User{
		ID:       common.UUIDint64(),
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
		RoleID:   role.ID,
		Enabled:  true,
		Role:     role,
	}
	require.NoError(t, db.Omit("Role").Create(user).Error)
	return user
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *domain.Category {
	t.Helper()
	category := &domain.Category{ID: common.UUIDint64(), Name: name}
	require.NoError(t, db.Create(category).Error)
	return category
}

type productOpt func(*domain.Product)

func withPrice(price float64) productOpt {
	return func(p *domain.Product) { p.Price = price }
}

func withStock(stock int) productOpt {
	return func(p *domain.Product) { p.Stock = &stock }
}

func unpublished() productOpt {
	return func(p *domain.Product) { p.Published = false }
}

func seedProduct(t *testing.T, db *gorm.DB, name string, category *domain.Category, seller *domain.User, opts ...productOpt) *domain.Product {
	t.Helper()
	product := &domain.Product{
		ID:         common.UUIDint64(),
		Name:       name,
		Price:      10,
		CategoryID: category.ID,
		Published:  true,
		CreatedBy:  seller.ID,
	}
	for _, opt := range opts {
		opt(product)
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

// mallFixture is the common arrangement: one seller with two published
// products and one customer.
type mallFixture struct {
	db       *gorm.DB
	category *domain.Category
	seller   *domain.User
	customer *domain.User
	widget   *domain.Product
	gadget   *domain.Product
}

func newMallFixture(t *testing.T) *mallFixture {
	t.Helper()
	db := newTestDB(t)
	sellerRole := seedRole(t, db, "Seller")
	userRole := seedRole(t, db, "User")
	category := seedCategory(t, db, "tools")
	seller := seedUser(t, db, "bob", sellerRole)
	customer := seedUser(t, db, "alice", userRole)
	return &mallFixture{
		db:       db,
		category: category,
		seller:   seller,
		customer: customer,
		widget:   seedProduct(t, db, "widget", category, seller, withPrice(10)),
		gadget:   seedProduct(t, db, "gadget", category, seller, withPrice(25)),
	}
}

func (f *mallFixture) customerIdent() Identity {
	return IdentityOf(f.customer)
}

func (f *mallFixture) sellerIdent() Identity {
	return IdentityOf(f.seller)
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
