// internal/models/customer.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is the storefront-side record for an authenticated
// principal. The principal itself (credentials, sessions) lives in an
// external identity service; only its id is referenced here.
type Customer struct {
	BaseModel
	PrincipalID uuid.UUID      `json:"principal_id" gorm:"type:uuid;not null;uniqueIndex:ux_customers_principal"`
	Phone       string         `json:"phone" gorm:"size:255"`
	BirthDate   *time.Time     `json:"birth_date,omitempty"`
	Membership  MembershipTier `json:"membership" gorm:"type:varchar(10);not null;default:'bronze'"`

	Addresses []Address `json:"addresses,omitempty" gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
}

type Address struct {
	BaseModel
	CustomerID uuid.UUID `json:"customer_id" gorm:"type:uuid;not null;index"`
	Street     string    `json:"street" gorm:"size:255;not null"`
	City       string    `json:"city" gorm:"size:255;not null"`
}
