package shop

import (
	"context"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/gomallhq/gomall/internal/domain"
	"github.com/gomallhq/gomall/pkg/common"
	"github.com/gomallhq/gomall/pkg/metrics"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EventOrderCreated is published once per committed order.
const EventOrderCreated = "order.created"

// OrderCreatedEvent is the payload delivered to EventOrderCreated
// subscribers after the checkout transaction committed.
type OrderCreatedEvent struct {
	OrderID     int64
	UserID      int64
	Username    string
	SellerID    int64
	TotalAmount float64
	ItemCount   int
}

// CheckoutService converts a cart into durable orders inside a single
// database transaction.
type CheckoutService struct {
	db  *gorm.DB
	bus EventBus.Bus
}

func NewCheckoutService(db *gorm.DB, bus EventBus.Bus) *CheckoutService {
	return &CheckoutService{db: db, bus: bus}
}

// Checkout places the caller's cart as orders. Entries are grouped by
// the product's creator and one order is created per seller, so a
// mixed-seller cart never attributes revenue to the wrong seller.
// Order creation, line-item snapshots, stock decrements and cart
// clearing all commit atomically: on any failure the cart is left
// untouched and no partial order exists.
func (s *CheckoutService) Checkout(ctx context.Context, ident Identity) ([]domain.Order, error) {
	var entries []domain.CartItem
	err := s.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", ident.UserID).
		Order("created_at ASC, id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, errors.Wrap(err, "checkout: load cart")
	}
	if len(entries) == 0 {
		return nil, ErrEmptyCart
	}
	for _, entry := range entries {
		if entry.Product == nil {
			return nil, errors.Wrapf(ErrNotFound, "checkout: cart row %d references a missing product", entry.ID)
		}
	}

	groups := groupBySeller(entries)

	var orders []domain.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		for _, group := range groups {
			order := domain.Order{
				ID:        common.UUIDint64(),
				UserID:    ident.UserID,
				SellerID:  group.sellerID,
				Status:    domain.OrderStatusPending,
				CreatedAt: now,
			}
			for _, entry := range group.entries {
				order.TotalAmount += entry.Product.Price * float64(entry.Quantity)
			}
			if err := tx.Create(&order).Error; err != nil {
				return errors.Wrap(err, "checkout: create order")
			}

			for _, entry := range group.entries {
				if err := s.claimStock(tx, entry.Product, entry.Quantity); err != nil {
					return err
				}
				item := domain.OrderItem{
					ID:        common.UUIDint64(),
					OrderID:   order.ID,
					ProductID: entry.ProductID,
					Quantity:  entry.Quantity,
					Price:     entry.Product.Price,
					CreatedAt: now,
				}
				if err := tx.Create(&item).Error; err != nil {
					return errors.Wrap(err, "checkout: create order item")
				}
				order.Items = append(order.Items, item)
			}
			orders = append(orders, order)
		}

		for _, entry := range entries {
			if err := tx.Delete(&domain.CartItem{}, entry.ID).Error; err != nil {
				return errors.Wrap(err, "checkout: clear cart")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, order := range orders {
		zap.L().Info("order placed",
			zap.Int64("order_id", order.ID),
			zap.Int64("user_id", ident.UserID),
			zap.Int64("seller_id", order.SellerID),
			zap.Float64("total_amount", order.TotalAmount),
			zap.Int("items", len(order.Items)))
		metrics.SetGauge("mall_order_amount", int64(order.TotalAmount*100))
		if s.bus != nil {
			s.bus.Publish(EventOrderCreated, OrderCreatedEvent{
				OrderID:     order.ID,
				UserID:      ident.UserID,
				Username:    ident.Username,
				SellerID:    order.SellerID,
				TotalAmount: order.TotalAmount,
				ItemCount:   len(order.Items),
			})
		}
	}
	return orders, nil
}

// claimStock decrements tracked inventory with a guarded update so two
// concurrent checkouts cannot both consume the last unit. Untracked
// products (nil stock) pass through.
func (s *CheckoutService) claimStock(tx *gorm.DB, product *domain.Product, qty int) error {
	if product.Stock == nil {
		return nil
	}
	res := tx.Model(&domain.Product{}).
		Where("id = ? AND stock >= ?", product.ID, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return errors.Wrap(res.Error, "checkout: decrement stock")
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(ErrInsufficientStock, "product %d: requested %d", product.ID, qty)
	}
	return nil
}

type sellerGroup struct {
	sellerID int64
	entries  []domain.CartItem
}

// groupBySeller splits cart entries by product creator, preserving the
// order sellers first appear in the cart.
func groupBySeller(entries []domain.CartItem) []sellerGroup {
	index := make(map[int64]int)
	var groups []sellerGroup
	for _, entry := range entries {
		sellerID := entry.Product.CreatedBy
		i, ok := index[sellerID]
		if !ok {
			i = len(groups)
			index[sellerID] = i
			groups = append(groups, sellerGroup{sellerID: sellerID})
		}
		groups[i].entries = append(groups[i].entries, entry)
	}
	return groups
}
