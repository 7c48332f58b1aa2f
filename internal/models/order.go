// internal/models/order.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is immutable after placement except for its payment status.
type Order struct {
	BaseModel
	PlacedAt      time.Time     `json:"placed_at" gorm:"autoCreateTime"`
	PaymentStatus PaymentStatus `json:"payment_status" gorm:"type:varchar(10);not null;default:'pending'"`
	CustomerID    uuid.UUID     `json:"customer_id" gorm:"type:uuid;not null;index"`

	// A customer with order history cannot be removed.
	Customer *Customer   `json:"customer,omitempty" gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT"`
	Items    []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
}

// OrderItem carries a copy of the product's price taken at placement
// time. UnitPrice never tracks later changes to Product.UnitPrice.
type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID       `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `json:"product_id" gorm:"type:uuid;not null;index"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:decimal(12,2);not null"`

	// A product referenced by order history cannot be removed.
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
}
