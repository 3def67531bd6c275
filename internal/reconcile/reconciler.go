// Package reconcile recomputes the denormalized aggregate fields from
// their authoritative source rows. The derived values must always be
// re-derivable: a reconciliation pass produces exactly the same result as
// computing the aggregates directly, and running it twice changes nothing.
package reconcile

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shopseed/shopseed/internal/store"
	"github.com/shopseed/shopseed/pkg/logger"
)

// DefaultTaxRate matches the generator's fixed tax percentage
var DefaultTaxRate = decimal.New(10, -2) // 0.10

// Reconciler recomputes derived fields through an explicit store handle
type Reconciler struct {
	store   *store.Store
	taxRate decimal.Decimal
}

// New creates a reconciler with the default tax rate
func New(st *store.Store) *Reconciler {
	return &Reconciler{store: st, taxRate: DefaultTaxRate}
}

// WithTaxRate overrides the tax rate used when recomputing order totals
func (r *Reconciler) WithTaxRate(rate decimal.Decimal) *Reconciler {
	r.taxRate = rate
	return r
}

// ProductRatings recomputes rating_count and rating_average for every
// product strictly from the current review rows. Products without reviews
// get count 0 and average 0. Idempotent.
func (r *Reconciler) ProductRatings() error {
	products, err := r.store.Products()
	if err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}

	reviews, err := r.store.Reviews()
	if err != nil {
		return fmt.Errorf("failed to load reviews: %w", err)
	}

	type ratingSum struct {
		count int
		sum   decimal.Decimal
	}
	sums := make(map[uint]ratingSum, len(products))
	for _, rv := range reviews {
		agg := sums[rv.ProductID]
		agg.count++
		agg.sum = agg.sum.Add(decimal.NewFromInt(int64(rv.Rating)))
		sums[rv.ProductID] = agg
	}

	var updated int
	for _, p := range products {
		agg := sums[p.ID]

		average := decimal.Zero
		if agg.count > 0 {
			average = agg.sum.Div(decimal.NewFromInt(int64(agg.count))).Round(2)
		}

		if p.RatingCount == agg.count && p.RatingAverage.Equal(average) {
			continue
		}
		if err := r.store.UpdateProductRating(p.ID, agg.count, average); err != nil {
			return fmt.Errorf("failed to update rating for product %d: %w", p.ID, err)
		}
		updated++
	}

	logger.Debug().
		Int("products", len(products)).
		Int("updated", updated).
		Msg("reconciled product ratings")
	return nil
}

// OrderTotals recomputes subtotal, tax and total for one order strictly
// from its current item rows. Used at order creation and as a repair
// operation if items are ever mutated independently.
func (r *Reconciler) OrderTotals(orderID uint) error {
	o, err := r.store.OrderByID(orderID)
	if err != nil {
		return err
	}

	items, err := r.store.ItemsByOrder(orderID)
	if err != nil {
		return fmt.Errorf("failed to load items for order %d: %w", orderID, err)
	}

	subtotal := decimal.Zero
	for i := range items {
		line := items[i].ComputeTotal()
		if !items[i].TotalPrice.Equal(line) {
			if err := r.store.UpdateOrderItemTotal(items[i].ID, line); err != nil {
				return fmt.Errorf("failed to repair total for item %d: %w", items[i].ID, err)
			}
		}
		subtotal = subtotal.Add(line)
	}

	tax := subtotal.Mul(r.taxRate).Round(2)
	total := subtotal.Add(tax).Add(o.ShippingCost).Sub(o.DiscountAmount)

	if o.Subtotal.Equal(subtotal) && o.TaxAmount.Equal(tax) && o.TotalAmount.Equal(total) {
		return nil
	}
	return r.store.UpdateOrderTotals(orderID, subtotal, tax, total)
}

// AllOrderTotals runs OrderTotals across every order
func (r *Reconciler) AllOrderTotals() error {
	orders, err := r.store.Orders()
	if err != nil {
		return fmt.Errorf("failed to load orders: %w", err)
	}

	for _, o := range orders {
		if err := r.OrderTotals(o.ID); err != nil {
			return err
		}
	}

	logger.Debug().Int("orders", len(orders)).Msg("reconciled order totals")
	return nil
}
