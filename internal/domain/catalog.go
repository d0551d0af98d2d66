package domain

import (
	"time"
)

type Category struct {
	ID          int64  `json:"id,string" form:"id"`
	Name        string `gorm:"index" json:"name" form:"name"`
	Description string `json:"description" form:"description"`
}

// TableName Specify table name
func (Category) TableName() string {
	return "categories"
}

type Supplier struct {
	ID          int64  `json:"id,string" form:"id"`
	Name        string `gorm:"index" json:"name" form:"name"`
	ContactInfo string `json:"contact_info" form:"contact_info"`
	UserID      int64  `gorm:"index" json:"user_id,string" form:"user_id"`
}

// TableName Specify table name
func (Supplier) TableName() string {
	return "suppliers"
}

// Product is a seller-owned listing. Stock is optional: nil means the
// product is not inventory-tracked and checkout never blocks on it.
type Product struct {
	ID         int64     `json:"id,string" form:"id"`
	Name       string    `gorm:"index" json:"name" form:"name"`
	Price      float64   `json:"price" form:"price"`
	CategoryID int64     `gorm:"index" json:"category_id,string" form:"category_id"`
	SupplierID int64     `gorm:"index" json:"supplier_id,string" form:"supplier_id"`
	Image      string    `json:"image" form:"image"`
	Published  bool      `gorm:"index" json:"published" form:"published"`
	Stock      *int      `json:"stock" form:"stock"`
	CreatedBy  int64     `gorm:"index" json:"created_by,string" form:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Supplier *Supplier `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Creator  *User     `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "products"
}
