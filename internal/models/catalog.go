// internal/models/catalog.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Collection struct {
	BaseModel
	Title             string     `json:"title" gorm:"size:255;not null"`
	FeaturedProductID *uuid.UUID `json:"featured_product_id,omitempty" gorm:"type:uuid"`

	// Cleared, not cascaded, when the featured product goes away.
	FeaturedProduct *Product  `json:"featured_product,omitempty" gorm:"foreignKey:FeaturedProductID;constraint:OnDelete:SET NULL"`
	Products        []Product `json:"products,omitempty" gorm:"foreignKey:CollectionID"`

	// Populated by the list query, not a column.
	ProductsCount int64 `json:"products_count" gorm:"-"`
}

type Product struct {
	BaseModel
	Title        string          `json:"title" gorm:"size:255;not null;index"`
	Slug         string          `json:"slug" gorm:"size:255;not null"`
	Description  string          `json:"description" gorm:"type:text"`
	UnitPrice    decimal.Decimal `json:"unit_price" gorm:"type:decimal(12,2);not null"`
	Inventory    int             `json:"inventory" gorm:"not null;default:0"`
	LastUpdate   time.Time       `json:"last_update" gorm:"autoUpdateTime"`
	CollectionID uuid.UUID       `json:"collection_id" gorm:"type:uuid;not null;index"`

	Collection *Collection    `json:"collection,omitempty" gorm:"foreignKey:CollectionID;constraint:OnDelete:RESTRICT"`
	Promotions []Promotion    `json:"promotions,omitempty" gorm:"many2many:product_promotions;"`
	Images     []ProductImage `json:"images,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Reviews    []Review       `json:"reviews,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

type Promotion struct {
	BaseModel
	Description string  `json:"description" gorm:"size:255;not null"`
	Discount    float64 `json:"discount" gorm:"not null"`
}

type ProductImage struct {
	BaseModel
	ProductID  uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	URL        string    `json:"url" gorm:"size:1024;not null"`
	StorageKey string    `json:"storage_key" gorm:"size:512"`
}

type Review struct {
	BaseModel
	ProductID   uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Date        time.Time `json:"date" gorm:"autoCreateTime"`
}
