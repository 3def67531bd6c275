package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account status values
const (
	StatusActive    = "Active"
	StatusInactive  = "Inactive"
	StatusSuspended = "Suspended"
)

// User represents a customer account, the identity anchor for orders and
// reviews.
type User struct {
	ID               uint            `json:"id" gorm:"primaryKey"`
	Username         string          `json:"username" gorm:"uniqueIndex;not null" validate:"required"`
	Email            string          `json:"email" gorm:"uniqueIndex;not null" validate:"required,email"`
	PasswordHash     string          `json:"-" gorm:"not null" validate:"required"`
	FirstName        string          `json:"first_name" gorm:"not null" validate:"required"`
	LastName         string          `json:"last_name" gorm:"not null" validate:"required"`
	Phone            string          `json:"phone"`
	Gender           string          `json:"gender" validate:"omitempty,oneof=M F Other"`
	RegistrationDate time.Time       `json:"registration_date" gorm:"index"`
	Status           string          `json:"status" gorm:"not null;default:'Active'" validate:"oneof=Active Inactive Suspended"`
	LoyaltyPoints    int             `json:"loyalty_points" gorm:"not null;default:0" validate:"gte=0"`
	TotalSpent       decimal.Decimal `json:"total_spent" gorm:"type:decimal(16,2);default:0.00" validate:"gte=0"`
	ShippingAddress  string          `json:"shipping_address"`
	BillingAddress   string          `json:"billing_address"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

// IsActive reports whether the account may place orders
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}
