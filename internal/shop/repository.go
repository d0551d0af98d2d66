package shop

import (
	"context"

	"github.com/gomallhq/gomall/internal/domain"
	"gorm.io/gorm"
)

// CartRepository handles database operations for cart rows.
type CartRepository interface {
	// GetByID retrieves a cart row by ID
	GetByID(ctx context.Context, id int64) (*domain.CartItem, error)

	// GetByUserAndProduct retrieves the single active row for a (user, product) pair
	GetByUserAndProduct(ctx context.Context, userID, productID int64) (*domain.CartItem, error)

	// ListByUser retrieves all cart rows of a user with products preloaded
	ListByUser(ctx context.Context, userID int64) ([]domain.CartItem, error)

	// Create inserts a new cart row
	Create(ctx context.Context, item *domain.CartItem) error

	// UpdateQuantity persists a new quantity for a row
	UpdateQuantity(ctx context.Context, id int64, quantity int) error

	// Delete removes a cart row
	Delete(ctx context.Context, id int64) error
}

// ProductRepository is the read-side product access used by the cart.
type ProductRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
}

// GormCartRepository is the GORM implementation of CartRepository
type GormCartRepository struct {
	DB *gorm.DB
}

func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{DB: db}
}

func (r *GormCartRepository) GetByID(ctx context.Context, id int64) (*domain.CartItem, error) {
	var item domain.CartItem
	err := r.DB.WithContext(ctx).First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormCartRepository) GetByUserAndProduct(ctx context.Context, userID, productID int64) (*domain.CartItem, error) {
	var item domain.CartItem
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormCartRepository) ListByUser(ctx context.Context, userID int64) ([]domain.CartItem, error) {
	var items []domain.CartItem
	err := r.DB.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	return items, err
}

func (r *GormCartRepository) Create(ctx context.Context, item *domain.CartItem) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

func (r *GormCartRepository) UpdateQuantity(ctx context.Context, id int64, quantity int) error {
	return r.DB.WithContext(ctx).
		Model(&domain.CartItem{}).
		Where("id = ?", id).
		Update("quantity", quantity).Error
}

func (r *GormCartRepository) Delete(ctx context.Context, id int64) error {
	return r.DB.WithContext(ctx).Delete(&domain.CartItem{}, id).Error
}

// GormProductRepository is the GORM implementation of ProductRepository
type GormProductRepository struct {
	DB *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{DB: db}
}

func (r *GormProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := r.DB.WithContext(ctx).First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}
