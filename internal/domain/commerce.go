package domain

import (
	"time"
)

// CartItem is an unconfirmed purchase intent. The service layer keeps
// at most one row per (user, product) and deletes rows instead of
// persisting a quantity at or below zero.
type CartItem struct {
	ID        int64     `json:"id,string" form:"id"`
	UserID    int64     `gorm:"index" json:"user_id,string" form:"user_id"`
	ProductID int64     `gorm:"index" json:"product_id,string" form:"product_id"`
	Quantity  int       `json:"quantity" form:"quantity"`
	CreatedAt time.Time `json:"created_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TableName Specify table name
func (CartItem) TableName() string {
	return "cart_items"
}

const OrderStatusPending = "pending"

// Order is immutable after checkout except for its status, which only
// the seller/admin workflow changes.
type Order struct {
	ID          int64     `json:"id,string" form:"id"`
	UserID      int64     `gorm:"index" json:"user_id,string" form:"user_id"`
	SellerID    int64     `gorm:"index" json:"seller_id,string" form:"seller_id"`
	TotalAmount float64   `json:"total_amount" form:"total_amount"`
	Status      string    `gorm:"index" json:"status" form:"status"`
	CreatedAt   time.Time `json:"created_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// TableName Specify table name
func (Order) TableName() string {
	return "orders"
}

// OrderItem captures the product price at checkout time; later price
// changes never touch it.
type OrderItem struct {
	ID        int64     `json:"id,string" form:"id"`
	OrderID   int64     `gorm:"index" json:"order_id,string" form:"order_id"`
	ProductID int64     `gorm:"index" json:"product_id,string" form:"product_id"`
	Quantity  int       `json:"quantity" form:"quantity"`
	Price     float64   `json:"price" form:"price"`
	CreatedAt time.Time `json:"created_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TableName Specify table name
func (OrderItem) TableName() string {
	return "order_items"
}
