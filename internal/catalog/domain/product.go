package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product status values
const (
	ProductActive       = "Active"
	ProductInactive     = "Inactive"
	ProductDiscontinued = "Discontinued"
)

// Product represents a sellable item. RatingAverage and RatingCount are
// derived from review rows and owned by the reconciliation pass, not by
// callers.
type Product struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	Name          string          `json:"name" gorm:"not null;index" validate:"required"`
	Description   string          `json:"description"`
	CategoryID    uint            `json:"category_id" gorm:"not null;index" validate:"required"`
	Brand         string          `json:"brand"`
	SKU           string          `json:"sku" gorm:"uniqueIndex;not null" validate:"required"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(16,2);not null" validate:"gt=0"`
	CostPrice     decimal.Decimal `json:"cost_price" gorm:"type:decimal(16,2);default:0.00" validate:"gte=0"`
	StockQuantity int             `json:"stock_quantity" gorm:"not null;default:0" validate:"gte=0"`
	MinStockLevel int             `json:"min_stock_level" gorm:"default:10" validate:"gte=0"`
	Status        string          `json:"status" gorm:"not null;default:'Active'" validate:"oneof=Active Inactive Discontinued"`
	RatingAverage decimal.Decimal `json:"rating_average" gorm:"type:decimal(4,2);default:0.00" validate:"gte=0,lte=5"`
	RatingCount   int             `json:"rating_count" gorm:"not null;default:0" validate:"gte=0"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// LowStock reports whether stock has fallen below the minimum level
func (p *Product) LowStock() bool {
	return p.StockQuantity < p.MinStockLevel
}
