package shop

import (
	"context"
	"strings"
	"time"

	"github.com/gomallhq/gomall/internal/domain"
	"github.com/gomallhq/gomall/pkg/common"
	"gorm.io/gorm"
)

// ProductService is the seller-facing listing management. Every
// mutation requires the seller role; update and delete additionally
// require ownership of the listing.
type ProductService struct {
	db *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

type ProductInput struct {
	Name       string  `json:"name" form:"name"`
	Price      float64 `json:"price" form:"price"`
	CategoryID int64   `json:"category_id,string" form:"category_id"`
	SupplierID int64   `json:"supplier_id,string" form:"supplier_id"`
	Image      string  `json:"image" form:"image"`
	Published  bool    `json:"published" form:"published"`
	Stock      *int    `json:"stock" form:"stock"`
}

func (s *ProductService) validate(ctx context.Context, input *ProductInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return invalidf("product name is required")
	}
	if input.Price < 0 {
		return invalidf("price must not be negative, got %v", input.Price)
	}
	if input.Stock != nil && *input.Stock < 0 {
		return invalidf("stock must not be negative, got %d", *input.Stock)
	}
	var category domain.Category
	if err := s.db.WithContext(ctx).First(&category, input.CategoryID).Error; err != nil {
		return wrapDBError(err, "products: load category")
	}
	if input.SupplierID != 0 {
		var supplier domain.Supplier
		if err := s.db.WithContext(ctx).First(&supplier, input.SupplierID).Error; err != nil {
			return wrapDBError(err, "products: load supplier")
		}
	}
	return nil
}

func (s *ProductService) Create(ctx context.Context, ident Identity, input ProductInput) (*domain.Product, error) {
	if !ident.IsSeller() && !ident.IsAdmin() {
		return nil, ErrForbidden
	}
	if err := s.validate(ctx, &input); err != nil {
		return nil, err
	}

	product := &domain.Product{
		ID:         common.UUIDint64(),
		Name:       input.Name,
		Price:      input.Price,
		CategoryID: input.CategoryID,
		SupplierID: input.SupplierID,
		Image:      strings.TrimSpace(input.Image),
		Published:  input.Published,
		Stock:      input.Stock,
		CreatedBy:  ident.UserID,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, wrapDBError(err, "products: create")
	}
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, ident Identity, id int64, input ProductInput) (*domain.Product, error) {
	if !ident.IsSeller() && !ident.IsAdmin() {
		return nil, ErrForbidden
	}
	var product domain.Product
	if err := s.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, wrapDBError(err, "products: load")
	}
	if product.CreatedBy != ident.UserID && !ident.IsAdmin() {
		return nil, ErrForbidden
	}
	if err := s.validate(ctx, &input); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":        input.Name,
		"price":       input.Price,
		"category_id": input.CategoryID,
		"supplier_id": input.SupplierID,
		"published":   input.Published,
		"stock":       input.Stock,
		"updated_at":  time.Now(),
	}
	if image := strings.TrimSpace(input.Image); image != "" {
		updates["image"] = image
	}
	if err := s.db.WithContext(ctx).Model(&product).Updates(updates).Error; err != nil {
		return nil, wrapDBError(err, "products: update")
	}
	if err := s.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, wrapDBError(err, "products: reload")
	}
	return &product, nil
}

func (s *ProductService) Delete(ctx context.Context, ident Identity, id int64) error {
	if !ident.IsSeller() && !ident.IsAdmin() {
		return ErrForbidden
	}
	var product domain.Product
	if err := s.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return wrapDBError(err, "products: load")
	}
	if product.CreatedBy != ident.UserID && !ident.IsAdmin() {
		return ErrForbidden
	}
	return wrapDBError(s.db.WithContext(ctx).Delete(&domain.Product{}, id).Error, "products: delete")
}

// ListMine returns the caller's own listings, published or not.
func (s *ProductService) ListMine(ctx context.Context, ident Identity) ([]domain.Product, error) {
	if !ident.IsSeller() && !ident.IsAdmin() {
		return nil, ErrForbidden
	}
	var products []domain.Product
	err := s.db.WithContext(ctx).
		Preload("Category").
		Where("created_by = ?", ident.UserID).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, wrapDBError(err, "products: list mine")
	}
	return products, nil
}
