package seed

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Config is the generator's entire external surface: entity counts, value
// ranges and the seed of the pseudo-random source. Two runs with the same
// config produce the same dataset (password hashes excepted, which carry
// their own random salt).
type Config struct {
	Users    int
	Products int
	Orders   int
	Reviews  int

	PriceMin      float64
	PriceMax      float64
	StockMax      int
	MaxItems      int // order items per order, 1..MaxItems
	MaxQuantity   int // units per order item, 1..MaxQuantity
	TaxRate       decimal.Decimal
	ShippingCosts []decimal.Decimal

	Seed int64
}

// DefaultConfig mirrors the reference dataset: 100 users, 200 products,
// 150 orders, 300 review attempts, 10% tax and a fixed shipping cost set.
func DefaultConfig() Config {
	return Config{
		Users:       100,
		Products:    200,
		Orders:      150,
		Reviews:     300,
		PriceMin:    10,
		PriceMax:    1000,
		StockMax:    1000,
		MaxItems:    5,
		MaxQuantity: 5,
		TaxRate:     decimal.New(10, -2),
		ShippingCosts: []decimal.Decimal{
			decimal.New(599, -2),
			decimal.New(799, -2),
			decimal.New(1099, -2),
			decimal.New(1599, -2),
		},
		Seed: 1,
	}
}

// Validate rejects configurations the generator cannot honor
func (c Config) Validate() error {
	if c.Users <= 0 || c.Products <= 0 {
		return fmt.Errorf("seed: user and product counts must be positive")
	}
	if c.Orders < 0 || c.Reviews < 0 {
		return fmt.Errorf("seed: order and review counts must not be negative")
	}
	if c.PriceMin <= 0 || c.PriceMax < c.PriceMin {
		return fmt.Errorf("seed: price range [%v, %v] is invalid", c.PriceMin, c.PriceMax)
	}
	if c.MaxItems <= 0 || c.MaxQuantity <= 0 {
		return fmt.Errorf("seed: items per order and quantity must be positive")
	}
	if c.TaxRate.IsNegative() {
		return fmt.Errorf("seed: tax rate must not be negative")
	}
	if len(c.ShippingCosts) == 0 {
		return fmt.Errorf("seed: shipping cost set must not be empty")
	}
	return nil
}
