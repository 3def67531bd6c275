// Package query provides the read-only views over the store. Every query
// is a pure function of store state at call time; nothing here mutates a
// row and no caching layer sits in between.
package query

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	catalog "github.com/shopseed/shopseed/internal/catalog/domain"
	order "github.com/shopseed/shopseed/internal/order/domain"
	"github.com/shopseed/shopseed/internal/store"
)

// Queries bundles the report queries around an explicit store handle
type Queries struct {
	store *store.Store
}

// New creates the query layer
func New(st *store.Store) *Queries {
	return &Queries{store: st}
}

// TopRatedProducts returns the n best-rated products. Ties break by higher
// rating count, then lower id, so the ranking is deterministic.
func (q *Queries) TopRatedProducts(n int) ([]catalog.Product, error) {
	var products []catalog.Product
	err := q.store.DB().
		Order("rating_average DESC, rating_count DESC, id ASC").
		Limit(n).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query top rated products: %w", err)
	}
	return products, nil
}

// RecentOrders returns the n most recent orders, newest first; ties on the
// order date break by id descending.
func (q *Queries) RecentOrders(n int) ([]order.Order, error) {
	var orders []order.Order
	err := q.store.DB().
		Order("order_date DESC, id DESC").
		Limit(n).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query recent orders: %w", err)
	}
	return orders, nil
}

// LowStockProducts returns products whose stock fell below their minimum
// level, lowest stock first.
func (q *Queries) LowStockProducts(n int) ([]catalog.Product, error) {
	var products []catalog.Product
	err := q.store.DB().
		Where("stock_quantity < min_stock_level").
		Order("stock_quantity ASC, id ASC").
		Limit(n).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query low stock products: %w", err)
	}
	return products, nil
}

// Stats is a snapshot of descriptive statistics over the whole store
type Stats struct {
	Users             int64           `json:"users"`
	Categories        int64           `json:"categories"`
	Products          int64           `json:"products"`
	Orders            int64           `json:"orders"`
	OrderItems        int64           `json:"order_items"`
	Reviews           int64           `json:"reviews"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	LowStockProducts  int64           `json:"low_stock_products"`
}

// StoreStats computes entity counts, revenue figures and the low-stock
// count. Monetary means are computed in decimal from the order rows, not
// through floating-point SQL aggregates.
func (q *Queries) StoreStats() (*Stats, error) {
	stats := &Stats{}

	counts := []struct {
		dest  *int64
		count func() (int64, error)
	}{
		{&stats.Users, q.store.CountUsers},
		{&stats.Categories, q.store.CountCategories},
		{&stats.Products, q.store.CountProducts},
		{&stats.Orders, q.store.CountOrders},
		{&stats.OrderItems, q.store.CountOrderItems},
		{&stats.Reviews, q.store.CountReviews},
	}
	for _, c := range counts {
		n, err := c.count()
		if err != nil {
			return nil, fmt.Errorf("failed to count rows: %w", err)
		}
		*c.dest = n
	}

	orders, err := q.store.Orders()
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	for i := range orders {
		stats.TotalRevenue = stats.TotalRevenue.Add(orders[i].TotalAmount)
	}
	if len(orders) > 0 {
		stats.AverageOrderValue = stats.TotalRevenue.
			Div(decimal.NewFromInt(int64(len(orders)))).Round(2)
	}

	err = q.store.DB().Model(&catalog.Product{}).
		Where("stock_quantity < min_stock_level").
		Count(&stats.LowStockProducts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count low stock products: %w", err)
	}

	return stats, nil
}

// OrderSummary is one row of the orders-with-user join
type OrderSummary struct {
	OrderNumber string          `json:"order_number"`
	Username    string          `json:"username"`
	Email       string          `json:"email"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	OrderDate   time.Time       `json:"order_date"`
}

// OrderSummaries joins orders with their users, newest first
func (q *Queries) OrderSummaries(limit int) ([]OrderSummary, error) {
	var rows []OrderSummary
	err := q.store.DB().Table("orders").
		Select("orders.order_number, users.username, users.email, orders.status, orders.total_amount, orders.order_date").
		Joins("JOIN users ON users.id = orders.user_id").
		Order("orders.order_date DESC, orders.id DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query order summaries: %w", err)
	}
	return rows, nil
}

// CategorySales is one row of the sales-by-category aggregate
type CategorySales struct {
	Category  string          `json:"category"`
	ItemsSold int64           `json:"items_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// SalesByCategory groups sold items and revenue by product category
func (q *Queries) SalesByCategory() ([]CategorySales, error) {
	var rows []CategorySales
	err := q.store.DB().Table("order_items").
		Select("categories.name AS category, SUM(order_items.quantity) AS items_sold, SUM(order_items.total_price) AS revenue").
		Joins("JOIN products ON products.id = order_items.product_id").
		Joins("JOIN categories ON categories.id = products.category_id").
		Group("categories.name").
		Order("revenue DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query sales by category: %w", err)
	}
	return rows, nil
}

// ReviewDetail is one row of the reviews-with-product-and-user join
type ReviewDetail struct {
	ProductName      string    `json:"product_name"`
	Username         string    `json:"username"`
	Rating           int       `json:"rating"`
	Title            string    `json:"title"`
	Status           string    `json:"status"`
	VerifiedPurchase bool      `json:"verified_purchase"`
	ReviewDate       time.Time `json:"review_date"`
}

// ReviewDetails joins reviews with their product and author, newest first
func (q *Queries) ReviewDetails(limit int) ([]ReviewDetail, error) {
	var rows []ReviewDetail
	err := q.store.DB().Table("reviews").
		Select("products.name AS product_name, users.username, reviews.rating, reviews.title, reviews.status, reviews.verified_purchase, reviews.review_date").
		Joins("JOIN products ON products.id = reviews.product_id").
		Joins("JOIN users ON users.id = reviews.user_id").
		Order("reviews.review_date DESC, reviews.id DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query review details: %w", err)
	}
	return rows, nil
}
