package shop

import (
	"context"
	"strings"

	"github.com/gomallhq/gomall/internal/domain"
	"gorm.io/gorm"
)

// PageSize is the fixed storefront page size.
const PageSize = 12

// TopLimit caps each of the TopProducts rankings.
const TopLimit = 10

// CatalogFilter narrows the published-product listing. Nil price
// bounds are open; both bounds are inclusive.
type CatalogFilter struct {
	CategoryID int64
	MinPrice   *float64
	MaxPrice   *float64
}

// ProductPage is one page of the public catalog plus the category list
// the filter UI needs.
type ProductPage struct {
	Items      []domain.Product  `json:"items"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	Categories []domain.Category `json:"categories"`
}

// ProductSales pairs a product with how many order line-items
// reference it.
type ProductSales struct {
	Product   domain.Product `json:"product"`
	SoldCount int64          `json:"sold_count"`
}

// TopProducts carries the four independent rankings, each capped at
// TopLimit entries.
type TopProducts struct {
	MostExpensive []domain.Product `json:"most_expensive"`
	Cheapest      []domain.Product `json:"cheapest"`
	MostPopular   []ProductSales   `json:"most_popular"`
	Oldest        []domain.Product `json:"oldest"`
}

// ProductStat is one row of the per-product statistics report.
// Products with no orders are included with a zero count.
type ProductStat struct {
	ProductID       int64   `json:"product_id,string"`
	ProductName     string  `json:"product_name"`
	Price           float64 `json:"price"`
	CategoryName    string  `json:"category_name"`
	CreatorUsername string  `json:"creator_username"`
	OrderCount      int64   `json:"order_count"`
}

// CatalogService answers read-only storefront queries.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// ListPublished returns one page of published products in stable id
// order. A page past the end yields an empty page, never an error.
func (s *CatalogService) ListPublished(ctx context.Context, filter CatalogFilter, page int) (*ProductPage, error) {
	if page < 1 {
		page = 1
	}

	query := s.db.WithContext(ctx).Model(&domain.Product{}).Where("published = ?", true)
	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, wrapDBError(err, "catalog: count products")
	}

	var items []domain.Product
	err := query.
		Preload("Category").
		Order("id ASC").
		Offset((page - 1) * PageSize).
		Limit(PageSize).
		Find(&items).Error
	if err != nil {
		return nil, wrapDBError(err, "catalog: list products")
	}

	var categories []domain.Category
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&categories).Error; err != nil {
		return nil, wrapDBError(err, "catalog: list categories")
	}

	return &ProductPage{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   PageSize,
		Categories: categories,
	}, nil
}

// Search matches term as a case-insensitive substring of the product
// name, its category name, or its creator's username. A blank term is
// an empty result, not "everything".
func (s *CatalogService) Search(ctx context.Context, term string) ([]domain.Product, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []domain.Product{}, nil
	}
	pattern := "%" + strings.ToLower(term) + "%"

	var items []domain.Product
	err := s.db.WithContext(ctx).
		Model(&domain.Product{}).
		Joins("JOIN categories ON categories.id = products.category_id").
		Joins("JOIN users ON users.id = products.created_by").
		Where("LOWER(products.name) LIKE ? OR LOWER(categories.name) LIKE ? OR LOWER(users.username) LIKE ?",
			pattern, pattern, pattern).
		Preload("Category").
		Preload("Creator").
		Order("products.id ASC").
		Find(&items).Error
	if err != nil {
		return nil, wrapDBError(err, "catalog: search products")
	}
	return items, nil
}

// TopProducts computes the four rankings independently.
func (s *CatalogService) TopProducts(ctx context.Context) (*TopProducts, error) {
	top := &TopProducts{}

	err := s.db.WithContext(ctx).
		Order("price DESC").Limit(TopLimit).Find(&top.MostExpensive).Error
	if err != nil {
		return nil, wrapDBError(err, "catalog: most expensive")
	}
	err = s.db.WithContext(ctx).
		Order("price ASC").Limit(TopLimit).Find(&top.Cheapest).Error
	if err != nil {
		return nil, wrapDBError(err, "catalog: cheapest")
	}
	err = s.db.WithContext(ctx).
		Order("created_at ASC").Limit(TopLimit).Find(&top.Oldest).Error
	if err != nil {
		return nil, wrapDBError(err, "catalog: oldest")
	}

	popular, err := s.mostPopular(ctx)
	if err != nil {
		return nil, err
	}
	top.MostPopular = popular
	return top, nil
}

type productCount struct {
	ProductID int64
	Cnt       int64
}

func (s *CatalogService) mostPopular(ctx context.Context) ([]ProductSales, error) {
	var counts []productCount
	err := s.db.WithContext(ctx).
		Model(&domain.OrderItem{}).
		Select("product_id, COUNT(id) AS cnt").
		Group("product_id").
		Order("cnt DESC").
		Limit(TopLimit).
		Scan(&counts).Error
	if err != nil {
		return nil, wrapDBError(err, "catalog: popular counts")
	}
	if len(counts) == 0 {
		return []ProductSales{}, nil
	}

	ids := make([]int64, 0, len(counts))
	for _, c := range counts {
		ids = append(ids, c.ProductID)
	}
	var products []domain.Product
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, wrapDBError(err, "catalog: popular products")
	}
	byID := make(map[int64]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	sales := make([]ProductSales, 0, len(counts))
	for _, c := range counts {
		if p, ok := byID[c.ProductID]; ok {
			sales = append(sales, ProductSales{Product: p, SoldCount: c.Cnt})
		}
	}
	return sales, nil
}

// StatsByProduct reports every product with its category, creator and
// order-item count. The outer join keeps zero-order products in the
// result.
func (s *CatalogService) StatsByProduct(ctx context.Context) ([]ProductStat, error) {
	var stats []ProductStat
	err := s.db.WithContext(ctx).
		Model(&domain.Product{}).
		Select(`products.id AS product_id,
			products.name AS product_name,
			products.price AS price,
			categories.name AS category_name,
			users.username AS creator_username,
			COUNT(order_items.id) AS order_count`).
		Joins("JOIN categories ON categories.id = products.category_id").
		Joins("JOIN users ON users.id = products.created_by").
		Joins("LEFT JOIN order_items ON order_items.product_id = products.id").
		Group("products.id, products.name, products.price, categories.name, users.username").
		Order("products.id ASC").
		Scan(&stats).Error
	if err != nil {
		return nil, wrapDBError(err, "catalog: product stats")
	}
	return stats, nil
}
