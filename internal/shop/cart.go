package shop

import (
	"context"
	"errors"
	"time"

	"github.com/gomallhq/gomall/internal/domain"
	"github.com/gomallhq/gomall/pkg/common"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CartService mutates a user's cart. Every call commits durably before
// returning; there is no staged state across calls.
type CartService struct {
	carts    CartRepository
	products ProductRepository
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{
		carts:    NewGormCartRepository(db),
		products: NewGormProductRepository(db),
	}
}

// AddItem upserts a (user, product) row: an existing row has its
// quantity incremented, otherwise a new row is created. Products that
// do not exist, or that are unpublished and not the caller's own,
// surface as ErrNotFound.
func (s *CartService) AddItem(ctx context.Context, ident Identity, productID int64, qty int) (*domain.CartItem, error) {
	if qty < 1 {
		return nil, invalidf("quantity must be at least 1, got %d", qty)
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, wrapDBError(err, "cart: load product")
	}
	if !product.Published && product.CreatedBy != ident.UserID {
		return nil, ErrNotFound
	}

	item, err := s.carts.GetByUserAndProduct(ctx, ident.UserID, productID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		item = &domain.CartItem{
			ID:        common.UUIDint64(),
			UserID:    ident.UserID,
			ProductID: productID,
			Quantity:  qty,
			CreatedAt: time.Now(),
		}
		if err := s.carts.Create(ctx, item); err != nil {
			return nil, wrapDBError(err, "cart: create item")
		}
	case err != nil:
		return nil, wrapDBError(err, "cart: load item")
	default:
		item.Quantity += qty
		if err := s.carts.UpdateQuantity(ctx, item.ID, item.Quantity); err != nil {
			return nil, wrapDBError(err, "cart: update quantity")
		}
	}

	zap.L().Debug("cart item added",
		zap.Int64("user_id", ident.UserID),
		zap.Int64("product_id", productID),
		zap.Int("quantity", item.Quantity))
	return item, nil
}

// UpdateQuantity applies delta to an existing row. A resulting
// quantity at or below zero deletes the row; no zero-quantity row is
// ever persisted.
func (s *CartService) UpdateQuantity(ctx context.Context, ident Identity, itemID int64, delta int) error {
	item, err := s.carts.GetByID(ctx, itemID)
	if err != nil {
		return wrapDBError(err, "cart: load item")
	}
	if item.UserID != ident.UserID {
		return ErrForbidden
	}

	quantity := item.Quantity + delta
	if quantity <= 0 {
		return wrapDBError(s.carts.Delete(ctx, item.ID), "cart: delete item")
	}
	return wrapDBError(s.carts.UpdateQuantity(ctx, item.ID, quantity), "cart: update quantity")
}

// RemoveItem deletes a row after the same ownership check as
// UpdateQuantity.
func (s *CartService) RemoveItem(ctx context.Context, ident Identity, itemID int64) error {
	item, err := s.carts.GetByID(ctx, itemID)
	if err != nil {
		return wrapDBError(err, "cart: load item")
	}
	if item.UserID != ident.UserID {
		return ErrForbidden
	}
	return wrapDBError(s.carts.Delete(ctx, item.ID), "cart: delete item")
}

// ListItems returns the caller's cart with products preloaded and the
// running total at current prices.
func (s *CartService) ListItems(ctx context.Context, ident Identity) ([]domain.CartItem, float64, error) {
	items, err := s.carts.ListByUser(ctx, ident.UserID)
	if err != nil {
		return nil, 0, wrapDBError(err, "cart: list items")
	}
	var total float64
	for _, item := range items {
		if item.Product != nil {
			total += item.Product.Price * float64(item.Quantity)
		}
	}
	return items, total, nil
}
