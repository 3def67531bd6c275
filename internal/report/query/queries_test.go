package query

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalog "github.com/shopseed/shopseed/internal/catalog/domain"
	identity "github.com/shopseed/shopseed/internal/identity/domain"
	order "github.com/shopseed/shopseed/internal/order/domain"
	review "github.com/shopseed/shopseed/internal/review/domain"
	"github.com/shopseed/shopseed/internal/store"
	"github.com/shopseed/shopseed/pkg/database"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := database.NewMemory()
	require.NoError(t, err)
	st := store.New(db)
	require.NoError(t, st.Migrate())
	return st
}

func seedUser(t *testing.T, st *store.Store, username string) *identity.User {
	t.Helper()
	u := &identity.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
		FirstName:    "Test",
		LastName:     "User",
	}
	require.NoError(t, st.CreateUser(u))
	return u
}

func seedProduct(t *testing.T, st *store.Store, sku string, categoryID uint, stock, minStock int) *catalog.Product {
	t.Helper()
	p := &catalog.Product{
		Name:          "Product " + sku,
		CategoryID:    categoryID,
		SKU:           sku,
		Price:         decimal.RequireFromString("25.00"),
		StockQuantity: stock,
		MinStockLevel: minStock,
	}
	require.NoError(t, st.CreateProduct(p))
	return p
}

func seedOrder(t *testing.T, st *store.Store, userID uint, number string, p *catalog.Product, qty int, date time.Time) *order.Order {
	t.Helper()
	o := &order.Order{
		UserID:        userID,
		OrderNumber:   number,
		PaymentMethod: "PayPal",
		OrderDate:     date,
	}
	require.NoError(t, st.CreateOrder(o, []order.OrderItem{
		{ProductID: p.ID, Quantity: qty, UnitPrice: p.Price},
	}))
	return o
}

func TestTopRatedProductsTieBreak(t *testing.T) {
	st := newTestStore(t)
	cat := &catalog.Category{Name: "Electronics"}
	require.NoError(t, st.CreateCategory(cat))

	a := seedProduct(t, st, "AAA-001", cat.ID, 50, 10)
	b := seedProduct(t, st, "BBB-001", cat.ID, 50, 10)
	c := seedProduct(t, st, "CCC-001", cat.ID, 50, 10)

	rating := decimal.RequireFromString("4.50")
	require.NoError(t, st.UpdateProductRating(a.ID, 10, rating))
	require.NoError(t, st.UpdateProductRating(b.ID, 5, rating))
	require.NoError(t, st.UpdateProductRating(c.ID, 10, rating))

	top, err := New(st).TopRatedProducts(10)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, a.ID, top[0].ID)
	assert.Equal(t, c.ID, top[1].ID)
	assert.Equal(t, b.ID, top[2].ID)
}

func TestRecentOrdersTieBreak(t *testing.T) {
	st := newTestStore(t)
	u := seedUser(t, st, "alice")
	cat := &catalog.Category{Name: "Electronics"}
	require.NoError(t, st.CreateCategory(cat))
	p := seedProduct(t, st, "AAA-001", cat.ID, 50, 10)

	sameDay := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	older := sameDay.AddDate(0, 0, -7)
	first := seedOrder(t, st, u.ID, "ORD-1", p, 1, sameDay)
	seedOrder(t, st, u.ID, "ORD-2", p, 1, older)
	third := seedOrder(t, st, u.ID, "ORD-3", p, 1, sameDay)

	recent, err := New(st).RecentOrders(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, third.ID, recent[0].ID)
	assert.Equal(t, first.ID, recent[1].ID)
}

func TestLowStockProducts(t *testing.T) {
	st := newTestStore(t)
	cat := &catalog.Category{Name: "Electronics"}
	require.NoError(t, st.CreateCategory(cat))

	low := seedProduct(t, st, "AAA-001", cat.ID, 2, 10)
	seedProduct(t, st, "BBB-001", cat.ID, 50, 10)
	lower := seedProduct(t, st, "CCC-001", cat.ID, 1, 10)

	got, err := New(st).LowStockProducts(10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, lower.ID, got[0].ID)
	assert.Equal(t, low.ID, got[1].ID)
}

func TestStoreStats(t *testing.T) {
	st := newTestStore(t)
	u := seedUser(t, st, "alice")
	cat := &catalog.Category{Name: "Electronics"}
	require.NoError(t, st.CreateCategory(cat))
	p := seedProduct(t, st, "AAA-001", cat.ID, 2, 10)

	seedOrder(t, st, u.ID, "ORD-1", p, 1, time.Now()) // total 25.00
	seedOrder(t, st, u.ID, "ORD-2", p, 3, time.Now()) // total 75.00

	require.NoError(t, st.CreateReview(&review.Review{
		ProductID: p.ID, UserID: u.ID, Rating: 4,
	}))

	stats, err := New(st).StoreStats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Users)
	assert.Equal(t, int64(1), stats.Categories)
	assert.Equal(t, int64(1), stats.Products)
	assert.Equal(t, int64(2), stats.Orders)
	assert.Equal(t, int64(2), stats.OrderItems)
	assert.Equal(t, int64(1), stats.Reviews)
	assert.Equal(t, "100.00", stats.TotalRevenue.StringFixed(2))
	assert.Equal(t, "50.00", stats.AverageOrderValue.StringFixed(2))
	assert.Equal(t, int64(1), stats.LowStockProducts)
}

func TestStoreStatsEmpty(t *testing.T) {
	st := newTestStore(t)

	stats, err := New(st).StoreStats()
	require.NoError(t, err)
	assert.Zero(t, stats.Orders)
	assert.True(t, stats.TotalRevenue.IsZero())
	assert.True(t, stats.AverageOrderValue.IsZero())
}

func TestOrderSummaries(t *testing.T) {
	st := newTestStore(t)
	u := seedUser(t, st, "alice")
	cat := &catalog.Category{Name: "Electronics"}
	require.NoError(t, st.CreateCategory(cat))
	p := seedProduct(t, st, "AAA-001", cat.ID, 50, 10)
	seedOrder(t, st, u.ID, "ORD-1", p, 2, time.Now())

	rows, err := New(st).OrderSummaries(10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ORD-1", rows[0].OrderNumber)
	assert.Equal(t, "alice", rows[0].Username)
	assert.Equal(t, "alice@example.com", rows[0].Email)
	assert.Equal(t, "50.00", rows[0].TotalAmount.StringFixed(2))
}

func TestSalesByCategory(t *testing.T) {
	st := newTestStore(t)
	u := seedUser(t, st, "alice")

	electronics := &catalog.Category{Name: "Electronics"}
	require.NoError(t, st.CreateCategory(electronics))
	books := &catalog.Category{Name: "Books"}
	require.NoError(t, st.CreateCategory(books))

	tv := seedProduct(t, st, "TV-001", electronics.ID, 50, 10)
	novel := seedProduct(t, st, "BOK-001", books.ID, 50, 10)

	seedOrder(t, st, u.ID, "ORD-1", tv, 3, time.Now())    // 75.00
	seedOrder(t, st, u.ID, "ORD-2", novel, 1, time.Now()) // 25.00

	rows, err := New(st).SalesByCategory()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Electronics", rows[0].Category)
	assert.Equal(t, int64(3), rows[0].ItemsSold)
	assert.Equal(t, "75.00", rows[0].Revenue.StringFixed(2))
	assert.Equal(t, "Books", rows[1].Category)
	assert.Equal(t, int64(1), rows[1].ItemsSold)
}

func TestReviewDetails(t *testing.T) {
	st := newTestStore(t)
	u := seedUser(t, st, "alice")
	cat := &catalog.Category{Name: "Electronics"}
	require.NoError(t, st.CreateCategory(cat))
	p := seedProduct(t, st, "AAA-001", cat.ID, 50, 10)

	require.NoError(t, st.CreateReview(&review.Review{
		ProductID: p.ID, UserID: u.ID, Rating: 5, Title: "Great",
	}))

	rows, err := New(st).ReviewDetails(10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Product AAA-001", rows[0].ProductName)
	assert.Equal(t, "alice", rows[0].Username)
	assert.Equal(t, 5, rows[0].Rating)
	assert.Equal(t, "Great", rows[0].Title)
}

func TestCategoryTree(t *testing.T) {
	st := newTestStore(t)

	electronics := &catalog.Category{Name: "Electronics"}
	require.NoError(t, st.CreateCategory(electronics))
	laptops := &catalog.Category{Name: "Laptops", ParentID: &electronics.ID}
	require.NoError(t, st.CreateCategory(laptops))
	gaming := &catalog.Category{Name: "Gaming", ParentID: &laptops.ID}
	require.NoError(t, st.CreateCategory(gaming))
	clothing := &catalog.Category{Name: "Clothing", IsActive: true}
	require.NoError(t, st.CreateCategory(clothing))

	tree, err := New(st).CategoryTree()
	require.NoError(t, err)

	want := "Clothing\n" +
		"Electronics\n" +
		"  Laptops\n" +
		"    Gaming\n"
	assert.Equal(t, want, tree)

	inactive := false
	_, err = st.UpdateCategory(clothing.ID, store.CategoryPatch{IsActive: &inactive})
	require.NoError(t, err)

	tree, err = New(st).CategoryTree()
	require.NoError(t, err)
	assert.Contains(t, tree, "Clothing (inactive)\n")
}

func TestTableWriteCSV(t *testing.T) {
	tbl := Table{
		Header: []string{"category", "items_sold", "revenue"},
		Rows: [][]string{
			{"Electronics", "3", "75.00"},
			{"Books, used", "1", "25.00"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, tbl.WriteCSV(&buf))

	want := "category,items_sold,revenue\n" +
		"Electronics,3,75.00\n" +
		"\"Books, used\",1,25.00\n"
	assert.Equal(t, want, buf.String())
}

func TestTopProductsTable(t *testing.T) {
	products := []catalog.Product{
		{
			ID:            7,
			Name:          "Widget",
			SKU:           "WID-001",
			Price:         decimal.RequireFromString("9.99"),
			RatingAverage: decimal.RequireFromString("4.5"),
			RatingCount:   12,
			StockQuantity: 3,
		},
	}

	tbl := TopProductsTable(products)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, []string{"7", "Widget", "WID-001", "9.99", "4.50", "12", "3"}, tbl.Rows[0])
}

func TestRecentOrdersRespectsLimit(t *testing.T) {
	st := newTestStore(t)
	u := seedUser(t, st, "alice")
	cat := &catalog.Category{Name: "Electronics"}
	require.NoError(t, st.CreateCategory(cat))
	p := seedProduct(t, st, "AAA-001", cat.ID, 50, 10)

	for i := 0; i < 5; i++ {
		seedOrder(t, st, u.ID, fmt.Sprintf("ORD-%d", i), p, 1, time.Now())
	}

	recent, err := New(st).RecentOrders(3)
	require.NoError(t, err)
	assert.Len(t, recent, 3)
}
