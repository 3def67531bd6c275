package query

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	catalog "github.com/shopseed/shopseed/internal/catalog/domain"
	order "github.com/shopseed/shopseed/internal/order/domain"
)

// Table is a CSV-serializable tabular result
type Table struct {
	Header []string
	Rows   [][]string
}

// WriteCSV writes the table to w in CSV form, header first
func (t Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// TopProductsTable renders a product ranking as a table
func TopProductsTable(products []catalog.Product) Table {
	t := Table{Header: []string{"id", "name", "sku", "price", "rating_average", "rating_count", "stock_quantity"}}
	for i := range products {
		p := &products[i]
		t.Rows = append(t.Rows, []string{
			strconv.FormatUint(uint64(p.ID), 10),
			p.Name,
			p.SKU,
			p.Price.StringFixed(2),
			p.RatingAverage.StringFixed(2),
			strconv.Itoa(p.RatingCount),
			strconv.Itoa(p.StockQuantity),
		})
	}
	return t
}

// RecentOrdersTable renders an order listing as a table
func RecentOrdersTable(orders []order.Order) Table {
	t := Table{Header: []string{"id", "order_number", "status", "subtotal", "tax_amount", "shipping_cost", "total_amount", "order_date"}}
	for i := range orders {
		o := &orders[i]
		t.Rows = append(t.Rows, []string{
			strconv.FormatUint(uint64(o.ID), 10),
			o.OrderNumber,
			o.Status,
			o.Subtotal.StringFixed(2),
			o.TaxAmount.StringFixed(2),
			o.ShippingCost.StringFixed(2),
			o.TotalAmount.StringFixed(2),
			o.OrderDate.Format(time.RFC3339),
		})
	}
	return t
}

// OrderSummariesTable renders the orders-with-user join as a table
func OrderSummariesTable(rows []OrderSummary) Table {
	t := Table{Header: []string{"order_number", "username", "email", "status", "total_amount", "order_date"}}
	for i := range rows {
		r := &rows[i]
		t.Rows = append(t.Rows, []string{
			r.OrderNumber,
			r.Username,
			r.Email,
			r.Status,
			r.TotalAmount.StringFixed(2),
			r.OrderDate.Format(time.RFC3339),
		})
	}
	return t
}

// CategorySalesTable renders the sales-by-category aggregate as a table
func CategorySalesTable(rows []CategorySales) Table {
	t := Table{Header: []string{"category", "items_sold", "revenue"}}
	for i := range rows {
		r := &rows[i]
		t.Rows = append(t.Rows, []string{
			r.Category,
			strconv.FormatInt(r.ItemsSold, 10),
			r.Revenue.StringFixed(2),
		})
	}
	return t
}

// ReviewDetailsTable renders the review join as a table
func ReviewDetailsTable(rows []ReviewDetail) Table {
	t := Table{Header: []string{"product_name", "username", "rating", "title", "status", "verified_purchase", "review_date"}}
	for i := range rows {
		r := &rows[i]
		t.Rows = append(t.Rows, []string{
			r.ProductName,
			r.Username,
			strconv.Itoa(r.Rating),
			r.Title,
			r.Status,
			strconv.FormatBool(r.VerifiedPurchase),
			r.ReviewDate.Format(time.RFC3339),
		})
	}
	return t
}
