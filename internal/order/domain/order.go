package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order status values
const (
	OrderPending    = "Pending"
	OrderProcessing = "Processing"
	OrderShipped    = "Shipped"
	OrderDelivered  = "Delivered"
	OrderCancelled  = "Cancelled"
	OrderRefunded   = "Refunded"
)

// Payment status values
const (
	PaymentPending  = "Pending"
	PaymentPaid     = "Paid"
	PaymentFailed   = "Failed"
	PaymentRefunded = "Refunded"
)

// PaymentMethods lists the accepted payment methods
var PaymentMethods = []string{
	"Credit Card", "Debit Card", "PayPal", "Bank Transfer", "Cash on Delivery",
}

// Order represents a purchase. Subtotal, TaxAmount and TotalAmount are
// derived from the order's items; the store finalizes them when the order
// and its items are written as one transaction.
type Order struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	UserID          uint            `json:"user_id" gorm:"not null;index" validate:"required"`
	OrderNumber     string          `json:"order_number" gorm:"uniqueIndex;not null" validate:"required"`
	Status          string          `json:"status" gorm:"not null;default:'Pending'" validate:"oneof=Pending Processing Shipped Delivered Cancelled Refunded"`
	OrderDate       time.Time       `json:"order_date" gorm:"index"`
	Subtotal        decimal.Decimal `json:"subtotal" gorm:"type:decimal(16,2);not null" validate:"gte=0"`
	TaxAmount       decimal.Decimal `json:"tax_amount" gorm:"type:decimal(16,2);default:0.00" validate:"gte=0"`
	ShippingCost    decimal.Decimal `json:"shipping_cost" gorm:"type:decimal(16,2);default:0.00" validate:"gte=0"`
	DiscountAmount  decimal.Decimal `json:"discount_amount" gorm:"type:decimal(16,2);default:0.00" validate:"gte=0"`
	TotalAmount     decimal.Decimal `json:"total_amount" gorm:"type:decimal(16,2);not null;index" validate:"gte=0"`
	PaymentMethod   string          `json:"payment_method" gorm:"not null" validate:"oneof='Credit Card' 'Debit Card' PayPal 'Bank Transfer' 'Cash on Delivery'"`
	PaymentStatus   string          `json:"payment_status" gorm:"not null;default:'Pending'" validate:"oneof=Pending Paid Failed Refunded"`
	ShippingAddress string          `json:"shipping_address" gorm:"not null"`
	BillingAddress  string          `json:"billing_address" gorm:"not null"`
	Items           []OrderItem     `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// TableName specifies the table name
func (Order) TableName() string {
	return "orders"
}

// ComputeTotal derives the order total from its monetary components
func (o *Order) ComputeTotal() decimal.Decimal {
	return o.Subtotal.Add(o.TaxAmount).Add(o.ShippingCost).Sub(o.DiscountAmount)
}

// OrderItem is the authoritative source for an order's monetary totals.
// UnitPrice, ProductName and ProductSKU are point-in-time snapshots of the
// product, not live references.
type OrderItem struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	OrderID        uint            `json:"order_id" gorm:"not null;index"`
	ProductID      uint            `json:"product_id" gorm:"not null;index" validate:"required"`
	Quantity       int             `json:"quantity" gorm:"not null" validate:"gt=0"`
	UnitPrice      decimal.Decimal `json:"unit_price" gorm:"type:decimal(16,2);not null" validate:"gte=0"`
	DiscountAmount decimal.Decimal `json:"discount_amount" gorm:"type:decimal(16,2);default:0.00" validate:"gte=0"`
	TotalPrice     decimal.Decimal `json:"total_price" gorm:"type:decimal(16,2);not null" validate:"gte=0"`
	ProductName    string          `json:"product_name" gorm:"not null"`
	ProductSKU     string          `json:"product_sku" gorm:"not null"`
	CreatedAt      time.Time       `json:"created_at"`
}

// TableName specifies the table name
func (OrderItem) TableName() string {
	return "order_items"
}

// ComputeTotal derives the line total from quantity, unit price and discount
func (i *OrderItem) ComputeTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity))).Sub(i.DiscountAmount)
}
