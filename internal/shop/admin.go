package shop

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/gomallhq/gomall/internal/domain"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AdminService carries the role-gated back-office mutations. Every
// entry point checks the caller's normalized role name before touching
// the store.
type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

func (s *AdminService) requireAdmin(ident Identity) error {
	if !ident.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// ChangeUserRole reassigns a user to the role with the given name.
func (s *AdminService) ChangeUserRole(ctx context.Context, ident Identity, userID int64, roleName string) error {
	if err := s.requireAdmin(ident); err != nil {
		return err
	}
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return wrapDBError(err, "admin: load user")
	}

	var roles []domain.Role
	if err := s.db.WithContext(ctx).Find(&roles).Error; err != nil {
		return wrapDBError(err, "admin: list roles")
	}
	var role *domain.Role
	for i := range roles {
		if normalizeRole(roles[i].Name) == normalizeRole(roleName) {
			role = &roles[i]
			break
		}
	}
	if role == nil {
		return ErrNotFound
	}

	err := s.db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
		"role_id":    role.ID,
		"updated_at": time.Now(),
	}).Error
	if err != nil {
		return wrapDBError(err, "admin: change role")
	}
	zap.L().Info("user role changed",
		zap.Int64("user_id", userID),
		zap.String("role", role.Name),
		zap.String("operator", ident.Username))
	return nil
}

// ToggleUserEnabled flips the active flag of a user.
func (s *AdminService) ToggleUserEnabled(ctx context.Context, ident Identity, userID int64) error {
	if err := s.requireAdmin(ident); err != nil {
		return err
	}
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return wrapDBError(err, "admin: load user")
	}
	err := s.db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
		"enabled":    !user.Enabled,
		"updated_at": time.Now(),
	}).Error
	return wrapDBError(err, "admin: toggle user")
}

// UpdateOrderStatus sets an order's status. The value is free text;
// only non-emptiness is enforced.
func (s *AdminService) UpdateOrderStatus(ctx context.Context, ident Identity, orderID int64, status string) error {
	if err := s.requireAdmin(ident); err != nil {
		return err
	}
	status = strings.TrimSpace(status)
	if status == "" {
		return invalidf("order status must not be empty")
	}
	var order domain.Order
	if err := s.db.WithContext(ctx).First(&order, orderID).Error; err != nil {
		return wrapDBError(err, "admin: load order")
	}
	err := s.db.WithContext(ctx).Model(&order).Update("status", status).Error
	return wrapDBError(err, "admin: update order status")
}

// ToggleProductPublished flips the published flag of a product.
func (s *AdminService) ToggleProductPublished(ctx context.Context, ident Identity, productID int64) error {
	if err := s.requireAdmin(ident); err != nil {
		return err
	}
	var product domain.Product
	if err := s.db.WithContext(ctx).First(&product, productID).Error; err != nil {
		return wrapDBError(err, "admin: load product")
	}
	err := s.db.WithContext(ctx).Model(&product).Updates(map[string]interface{}{
		"published":  !product.Published,
		"updated_at": time.Now(),
	}).Error
	return wrapDBError(err, "admin: toggle product")
}

// DashboardStats feeds the back-office landing page.
type DashboardStats struct {
	UsersCount    int64 `json:"users_count"`
	ProductsCount int64 `json:"products_count"`
	OrdersCount   int64 `json:"orders_count"`
	NewOrders     int64 `json:"new_orders"`
	NewProducts   int64 `json:"new_products"`
	NewClients    int64 `json:"new_clients"`
	NewSellers    int64 `json:"new_sellers"`

	RecentUsers    []domain.User    `json:"recent_users"`
	RecentProducts []domain.Product `json:"recent_products"`
	RecentOrders   []domain.Order   `json:"recent_orders"`
}

// Dashboard aggregates totals, 30-day deltas and recent records.
func (s *AdminService) Dashboard(ctx context.Context, ident Identity) (*DashboardStats, error) {
	if err := s.requireAdmin(ident); err != nil {
		return nil, err
	}
	since := time.Now().Add(-30 * 24 * time.Hour)
	stats := &DashboardStats{}
	db := s.db.WithContext(ctx)

	if err := db.Model(&domain.User{}).Count(&stats.UsersCount).Error; err != nil {
		return nil, wrapDBError(err, "admin: count users")
	}
	if err := db.Model(&domain.Product{}).Count(&stats.ProductsCount).Error; err != nil {
		return nil, wrapDBError(err, "admin: count products")
	}
	if err := db.Model(&domain.Order{}).Count(&stats.OrdersCount).Error; err != nil {
		return nil, wrapDBError(err, "admin: count orders")
	}
	if err := db.Model(&domain.Order{}).Where("created_at >= ?", since).Count(&stats.NewOrders).Error; err != nil {
		return nil, wrapDBError(err, "admin: count new orders")
	}
	if err := db.Model(&domain.Product{}).Where("created_at >= ?", since).Count(&stats.NewProducts).Error; err != nil {
		return nil, wrapDBError(err, "admin: count new products")
	}

	// Role names are free text, so the role join normalizes the same
	// way the gate does.
	newByRole := func(role string, out *int64) error {
		return db.Model(&domain.User{}).
			Joins("JOIN roles ON roles.id = users.role_id").
			Where("LOWER(TRIM(roles.name)) = ?", role).
			Where("users.created_at >= ?", since).
			Count(out).Error
	}
	if err := newByRole(RoleUser, &stats.NewClients); err != nil {
		return nil, wrapDBError(err, "admin: count new clients")
	}
	if err := newByRole(RoleSeller, &stats.NewSellers); err != nil {
		return nil, wrapDBError(err, "admin: count new sellers")
	}

	if err := db.Preload("Role").Order("created_at DESC").Limit(10).Find(&stats.RecentUsers).Error; err != nil {
		return nil, wrapDBError(err, "admin: recent users")
	}
	if err := db.Order("created_at DESC").Limit(10).Find(&stats.RecentProducts).Error; err != nil {
		return nil, wrapDBError(err, "admin: recent products")
	}
	if err := db.Order("created_at DESC").Limit(10).Find(&stats.RecentOrders).Error; err != nil {
		return nil, wrapDBError(err, "admin: recent orders")
	}
	return stats, nil
}

// orderExportRow is the flattened CSV schema of an order.
type orderExportRow struct {
	OrderID     int64     `csv:"order_id"`
	CustomerID  int64     `csv:"customer_id"`
	SellerID    int64     `csv:"seller_id"`
	TotalAmount float64   `csv:"total_amount"`
	Status      string    `csv:"status"`
	ItemCount   int       `csv:"item_count"`
	CreatedAt   time.Time `csv:"created_at"`
}

// ExportOrdersCSV streams every order as CSV, newest first.
func (s *AdminService) ExportOrdersCSV(ctx context.Context, ident Identity, w io.Writer) error {
	if err := s.requireAdmin(ident); err != nil {
		return err
	}
	var orders []domain.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return wrapDBError(err, "admin: load orders")
	}

	rows := make([]orderExportRow, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, orderExportRow{
			OrderID:     o.ID,
			CustomerID:  o.UserID,
			SellerID:    o.SellerID,
			TotalAmount: o.TotalAmount,
			Status:      o.Status,
			ItemCount:   len(o.Items),
			CreatedAt:   o.CreatedAt,
		})
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return errors.Wrap(err, "admin: write csv")
	}
	return nil
}
