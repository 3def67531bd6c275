package domain

import (
	"time"
)

// Review status values
const (
	ReviewPending  = "Pending"
	ReviewApproved = "Approved"
	ReviewRejected = "Rejected"
)

// Review represents a product review. At most one review may exist per
// (user, product, order) triple; the store treats a nil OrderID as a value
// when enforcing that rule.
type Review struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	ProductID        uint      `json:"product_id" gorm:"not null;index;uniqueIndex:idx_reviews_user_product_order" validate:"required"`
	UserID           uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_reviews_user_product_order" validate:"required"`
	OrderID          *uint     `json:"order_id" gorm:"uniqueIndex:idx_reviews_user_product_order"`
	Rating           int       `json:"rating" gorm:"not null" validate:"gte=1,lte=5"`
	Title            string    `json:"title"`
	Body             string    `json:"body"`
	VerifiedPurchase bool      `json:"verified_purchase" gorm:"default:false"`
	Status           string    `json:"status" gorm:"not null;default:'Pending'" validate:"oneof=Pending Approved Rejected"`
	ReviewDate       time.Time `json:"review_date" gorm:"index"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (Review) TableName() string {
	return "reviews"
}
