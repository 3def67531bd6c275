package store

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	catalog "github.com/shopseed/shopseed/internal/catalog/domain"
	identity "github.com/shopseed/shopseed/internal/identity/domain"
	order "github.com/shopseed/shopseed/internal/order/domain"
)

// CreateOrder writes an order and its items as one transaction. Line and
// order totals are computed from the items before anything is written, so
// a reader can never observe the order with missing items or unreconciled
// totals.
func (s *Store) CreateOrder(o *order.Order, items []order.OrderItem) error {
	if len(items) == 0 {
		return rangeViolation("order", "items", "an order requires at least one item")
	}

	if o.Status == "" {
		o.Status = order.OrderPending
	}
	if o.PaymentStatus == "" {
		o.PaymentStatus = order.PaymentPending
	}
	if o.OrderDate.IsZero() {
		o.OrderDate = time.Now()
	}

	subtotal := decimal.Zero
	for i := range items {
		items[i].TotalPrice = items[i].ComputeTotal()
		subtotal = subtotal.Add(items[i].TotalPrice)
	}
	o.Subtotal = subtotal
	o.TotalAmount = o.ComputeTotal()

	if err := s.checkRange("order", o); err != nil {
		return err
	}
	for i := range items {
		if err := s.checkRange("order_item", &items[i]); err != nil {
			return err
		}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		ok, err := exists(tx, &identity.User{}, "id = ?", o.UserID)
		if err != nil {
			return err
		}
		if !ok {
			return fkViolation("order", "user_id", o.UserID)
		}

		taken, err := exists(tx, &order.Order{}, "order_number = ?", o.OrderNumber)
		if err != nil {
			return err
		}
		if taken {
			return uniqueViolation("order", "order_number", o.OrderNumber)
		}

		for i := range items {
			var product catalog.Product
			if err := tx.First(&product, items[i].ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fkViolation("order_item", "product_id", items[i].ProductID)
				}
				return err
			}
			if items[i].ProductName == "" {
				items[i].ProductName = product.Name
			}
			if items[i].ProductSKU == "" {
				items[i].ProductSKU = product.SKU
			}
		}

		o.Items = items
		return tx.Create(o).Error
	})
}

// OrderPatch carries the mutable order fields; nil fields are left
// unchanged. Monetary fields are owned by the reconciler.
type OrderPatch struct {
	Status        *string
	PaymentStatus *string
}

// UpdateOrder applies a patch under the same validation contract as insert
func (s *Store) UpdateOrder(id uint, patch OrderPatch) (*order.Order, error) {
	var o order.Order
	if err := firstOrNotFound(s.db, &o, id); err != nil {
		return nil, err
	}

	if patch.Status != nil {
		o.Status = *patch.Status
	}
	if patch.PaymentStatus != nil {
		o.PaymentStatus = *patch.PaymentStatus
	}

	if err := s.checkRange("order", &o); err != nil {
		return nil, err
	}

	if err := s.db.Save(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// UpdateOrderTotals writes the derived monetary fields. Only order creation
// and the reconciliation pass should call this.
func (s *Store) UpdateOrderTotals(id uint, subtotal, tax, total decimal.Decimal) error {
	var o order.Order
	if err := firstOrNotFound(s.db, &o, id); err != nil {
		return err
	}

	return s.db.Model(&order.Order{}).Where("id = ?", id).Updates(map[string]any{
		"subtotal":     subtotal,
		"tax_amount":   tax,
		"total_amount": total,
	}).Error
}

// UpdateOrderItemTotal repairs a drifted line total. Only the
// reconciliation pass should call this.
func (s *Store) UpdateOrderItemTotal(id uint, total decimal.Decimal) error {
	var item order.OrderItem
	if err := firstOrNotFound(s.db, &item, id); err != nil {
		return err
	}

	return s.db.Model(&order.OrderItem{}).Where("id = ?", id).
		Update("total_price", total).Error
}

// OrderByID loads a single order without its items
func (s *Store) OrderByID(id uint) (*order.Order, error) {
	var o order.Order
	if err := firstOrNotFound(s.db, &o, id); err != nil {
		return nil, err
	}
	return &o, nil
}

// Orders returns all orders ordered by id
func (s *Store) Orders() ([]order.Order, error) {
	var orders []order.Order
	err := s.db.Order("id").Find(&orders).Error
	return orders, err
}

// ItemsByOrder returns the items belonging to one order
func (s *Store) ItemsByOrder(orderID uint) ([]order.OrderItem, error) {
	var items []order.OrderItem
	err := s.db.Where("order_id = ?", orderID).Order("id").Find(&items).Error
	return items, err
}

// OrderItems returns all order items ordered by id
func (s *Store) OrderItems() ([]order.OrderItem, error) {
	var items []order.OrderItem
	err := s.db.Order("id").Find(&items).Error
	return items, err
}

// CountOrders returns the number of order rows
func (s *Store) CountOrders() (int64, error) {
	var n int64
	err := s.db.Model(&order.Order{}).Count(&n).Error
	return n, err
}

// CountOrderItems returns the number of order item rows
func (s *Store) CountOrderItems() (int64, error) {
	var n int64
	err := s.db.Model(&order.OrderItem{}).Count(&n).Error
	return n, err
}
