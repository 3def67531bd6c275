package store

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalog "github.com/shopseed/shopseed/internal/catalog/domain"
	identity "github.com/shopseed/shopseed/internal/identity/domain"
	order "github.com/shopseed/shopseed/internal/order/domain"
	review "github.com/shopseed/shopseed/internal/review/domain"
	"github.com/shopseed/shopseed/pkg/database"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.NewMemory()
	require.NoError(t, err)
	st := New(db)
	require.NoError(t, st.Migrate())
	return st
}

func makeUser(t *testing.T, st *Store, username string) *identity.User {
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

func makeCategory(t *testing.T, st *Store, name string, parentID *uint) *catalog.Category {
	t.Helper()
	c := &catalog.Category{Name: name, ParentID: parentID, IsActive: true}
	require.NoError(t, st.CreateCategory(c))
	return c
}

func makeProduct(t *testing.T, st *Store, sku, price string, categoryID uint) *catalog.Product {
	t.Helper()
	p := &catalog.Product{
		Name:          "Product " + sku,
		CategoryID:    categoryID,
		SKU:           sku,
		Price:         decimal.RequireFromString(price),
		StockQuantity: 50,
	}
	require.NoError(t, st.CreateProduct(p))
	return p
}

func TestMigrateIdempotent(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.Migrate())
	require.NoError(t, st.Migrate())
}

func TestMigrateConflictingTableShape(t *testing.T) {
	db, err := database.NewMemory()
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE users (id INTEGER PRIMARY KEY)").Error)

	err = New(db).Migrate()
	require.Error(t, err)
	var serr *SchemaError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "users", serr.Table)
	assert.Contains(t, serr.Detail, "username")

	// the conflict is detected before any table is created or altered
	assert.False(t, db.Migrator().HasTable(&catalog.Product{}))
	assert.False(t, db.Migrator().HasColumn(&identity.User{}, "username"))
}

func TestCreateUserDefaults(t *testing.T) {
	st := newTestStore(t)

	u := makeUser(t, st, "alice")
	assert.NotZero(t, u.ID)
	assert.Equal(t, identity.StatusActive, u.Status)
	assert.False(t, u.RegistrationDate.IsZero())
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	st := newTestStore(t)
	makeUser(t, st, "alice")

	dup := &identity.User{
		Username:     "alice",
		Email:        "other@example.com",
		PasswordHash: "hash",
		FirstName:    "Other",
		LastName:     "User",
	}
	err := st.CreateUser(dup)
	require.Error(t, err)
	assert.True(t, IsConstraint(err, ConstraintUnique))

	n, err := st.CountUsers()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	st := newTestStore(t)
	makeUser(t, st, "alice")

	dup := &identity.User{
		Username:     "bob",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		FirstName:    "Bob",
		LastName:     "User",
	}
	err := st.CreateUser(dup)
	require.Error(t, err)
	assert.True(t, IsConstraint(err, ConstraintUnique))
}

func TestCreateUserInvalidGender(t *testing.T) {
	st := newTestStore(t)

	u := &identity.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		FirstName:    "Test",
		LastName:     "User",
		Gender:       "X",
	}
	err := st.CreateUser(u)
	require.Error(t, err)
	assert.True(t, IsConstraint(err, ConstraintCheckRange))
}

func TestUpdateUserNotFound(t *testing.T) {
	st := newTestStore(t)

	points := 10
	_, err := st.UpdateUser(999, UserPatch{LoyaltyPoints: &points})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateUserNegativeLoyaltyPoints(t *testing.T) {
	st := newTestStore(t)
	u := makeUser(t, st, "alice")

	points := -5
	_, err := st.UpdateUser(u.ID, UserPatch{LoyaltyPoints: &points})
	require.Error(t, err)
	assert.True(t, IsConstraint(err, ConstraintCheckRange))

	got, err := st.UserByID(u.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.LoyaltyPoints)
}

func TestCreateProductUnknownCategory(t *testing.T) {
	st := newTestStore(t)

	p := &catalog.Product{
		Name:       "Widget",
		CategoryID: 42,
		SKU:        "WID-001",
		Price:      decimal.RequireFromString("9.99"),
	}
	err := st.CreateProduct(p)
	require.Error(t, err)
	assert.True(t, IsConstraint(err, ConstraintForeignKey))
}

func TestCreateProductNonPositivePrice(t *testing.T) {
	st := newTestStore(t)
	cat := makeCategory(t, st, "Electronics", nil)

	p := &catalog.Product{
		Name:       "Widget",
		CategoryID: cat.ID,
		SKU:        "WID-001",
		Price:      decimal.Zero,
	}
	err := st.CreateProduct(p)
	require.Error(t, err)
	assert.True(t, IsConstraint(err, ConstraintCheckRange))
}

func TestCreateProductDuplicateSKU(t *testing.T) {
	st := newTestStore(t)
	cat := makeCategory(t, st, "Electronics", nil)
	makeProduct(t, st, "WID-001", "9.99", cat.ID)

	dup := &catalog.Product{
		Name:       "Other widget",
		CategoryID: cat.ID,
		SKU:        "WID-001",
		Price:      decimal.RequireFromString("19.99"),
	}
	err := st.CreateProduct(dup)
	require.Error(t, err)
	assert.True(t, IsConstraint(err, ConstraintUnique))
}

func TestUpdateProductRatingBounds(t *testing.T) {
	st := newTestStore(t)
	cat := makeCategory(t, st, "Electronics", nil)
	p := makeProduct(t, st, "WID-001", "9.99", cat.ID)

	err := st.UpdateProductRating(p.ID, 3, decimal.RequireFromString("5.50"))
	require.Error(t, err)
	assert.True(t, IsConstraint(err, ConstraintCheckRange))

	require.NoError(t, st.UpdateProductRating(p.ID, 3, decimal.RequireFromString("4.33")))
	got, err := st.ProductByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.RatingCount)
	assert.Equal(t, "4.33", got.RatingAverage.StringFixed(2))
}

func TestCategorySelfParentRejected(t *testing.T) {
	st := newTestStore(t)
	cat := makeCategory(t, st, "Electronics", nil)

	_, err := st.UpdateCategory(cat.ID, CategoryPatch{ParentID: &cat.ID})
	require.Error(t, err)
	var cycle *CycleError
	assert.ErrorAs(t, err, &cycle)
}

func TestCategoryReparentOntoDescendantRejected(t *testing.T) {
	st := newTestStore(t)
	a := makeCategory(t, st, "A", nil)
	b := makeCategory(t, st, "B", &a.ID)
	c := makeCategory(t, st, "C", &b.ID)

	_, err := st.UpdateCategory(a.ID, CategoryPatch{ParentID: &c.ID})
	require.Error(t, err)
	var cycle *CycleError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, a.ID, cycle.CategoryID)
	assert.Equal(t, c.ID, cycle.ParentID)

	got, err := st.CategoryByID(a.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ParentID)
}

func TestCategoryUnknownParentRejected(t *testing.T) {
	st := newTestStore(t)

	missing := uint(99)
	c := &catalog.Category{Name: "Orphan", ParentID: &missing}
	err := st.CreateCategory(c)
	require.Error(t, err)
	assert.True(t, IsConstraint(err, ConstraintForeignKey))
}

func TestCategoryClearParent(t *testing.T) {
	st := newTestStore(t)
	a := makeCategory(t, st, "A", nil)
	b := makeCategory(t, st, "B", &a.ID)

	got, err := st.UpdateCategory(b.ID, CategoryPatch{ClearParent: true})
	require.NoError(t, err)
	assert.Nil(t, got.ParentID)
}

func TestCreateOrderComputesTotals(t *testing.T) {
	st := newTestStore(t)
	u := makeUser(t, st, "alice")
	cat := makeCategory(t, st, "Electronics", nil)
	p1 := makeProduct(t, st, "WID-001", "9.99", cat.ID)
	p2 := makeProduct(t, st, "WID-002", "45.00", cat.ID)

	o := &order.Order{
		UserID:        u.ID,
		OrderNumber:   "ORD-00000001",
		PaymentMethod: "Credit Card",
		TaxAmount:     decimal.RequireFromString("6.50"),
		ShippingCost:  decimal.RequireFromString("7.99"),
	}
	items := []order.OrderItem{
		{ProductID: p1.ID, Quantity: 2, UnitPrice: p1.Price},
		{ProductID: p2.ID, Quantity: 1, UnitPrice: p2.Price},
	}
	require.NoError(t, st.CreateOrder(o, items))

	got, err := st.OrderByID(o.ID)
	require.NoError(t, err)
	assert.Equal(t, "64.98", got.Subtotal.StringFixed(2))
	assert.Equal(t, "6.50", got.TaxAmount.StringFixed(2))
	assert.Equal(t, "79.47", got.TotalAmount.StringFixed(2))

	saved, err := st.ItemsByOrder(o.ID)
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, "19.98", saved[0].TotalPrice.StringFixed(2))
	assert.Equal(t, "Product WID-001", saved[0].ProductName)
	assert.Equal(t, "WID-001", saved[0].ProductSKU)
}

func TestCreateOrderRequiresItems(t *testing.T) {
	st := newTestStore(t)
	u := makeUser(t, st, "alice")

	o := &order.Order{UserID: u.ID, OrderNumber: "ORD-1", PaymentMethod: "PayPal"}
	err := st.CreateOrder(o, nil)
	require.Error(t, err)
	assert.True(t, IsConstraint(err, ConstraintCheckRange))
}

func TestCreateOrderUnknownProductRollsBack(t *testing.T) {
	st := newTestStore(t)
	u := makeUser(t, st, "alice")
	cat := makeCategory(t, st, "Electronics", nil)
	p := makeProduct(t, st, "WID-001", "9.99", cat.ID)

	o := &order.Order{UserID: u.ID, OrderNumber: "ORD-1", PaymentMethod: "PayPal"}
	items := []order.OrderItem{
		{ProductID: p.ID, Quantity: 1, UnitPrice: p.Price},
		{ProductID: 999, Quantity: 1, UnitPrice: decimal.RequireFromString("1.00")},
	}
	err := st.CreateOrder(o, items)
	require.Error(t, err)
	assert.True(t, IsConstraint(err, ConstraintForeignKey))

	orders, err := st.CountOrders()
	require.NoError(t, err)
	assert.Zero(t, orders)

	lines, err := st.CountOrderItems()
	require.NoError(t, err)
	assert.Zero(t, lines)
}

func TestCreateOrderDuplicateNumber(t *testing.T) {
	st := newTestStore(t)
	u := makeUser(t, st, "alice")
	cat := makeCategory(t, st, "Electronics", nil)
	p := makeProduct(t, st, "WID-001", "9.99", cat.ID)

	first := &order.Order{UserID: u.ID, OrderNumber: "ORD-1", PaymentMethod: "PayPal"}
	require.NoError(t, st.CreateOrder(first, []order.OrderItem{
		{ProductID: p.ID, Quantity: 1, UnitPrice: p.Price},
	}))

	second := &order.Order{UserID: u.ID, OrderNumber: "ORD-1", PaymentMethod: "PayPal"}
	err := st.CreateOrder(second, []order.OrderItem{
		{ProductID: p.ID, Quantity: 1, UnitPrice: p.Price},
	})
	require.Error(t, err)
	assert.True(t, IsConstraint(err, ConstraintUnique))
}

func TestCreateOrderInvalidPaymentMethod(t *testing.T) {
	st := newTestStore(t)
	u := makeUser(t, st, "alice")
	cat := makeCategory(t, st, "Electronics", nil)
	p := makeProduct(t, st, "WID-001", "9.99", cat.ID)

	o := &order.Order{UserID: u.ID, OrderNumber: "ORD-1", PaymentMethod: "Barter"}
	err := st.CreateOrder(o, []order.OrderItem{
		{ProductID: p.ID, Quantity: 1, UnitPrice: p.Price},
	})
	require.Error(t, err)
	assert.True(t, IsConstraint(err, ConstraintCheckRange))
}

func TestCreateReviewDuplicateTriple(t *testing.T) {
	st := newTestStore(t)
	u := makeUser(t, st, "alice")
	cat := makeCategory(t, st, "Electronics", nil)
	p := makeProduct(t, st, "WID-001", "9.99", cat.ID)

	first := &review.Review{ProductID: p.ID, UserID: u.ID, Rating: 5}
	require.NoError(t, st.CreateReview(first))

	dup := &review.Review{ProductID: p.ID, UserID: u.ID, Rating: 3}
	err := st.CreateReview(dup)
	require.Error(t, err)
	assert.True(t, IsConstraint(err, ConstraintUnique))
}

func TestCreateReviewDistinctOrdersAllowed(t *testing.T) {
	st := newTestStore(t)
	u := makeUser(t, st, "alice")
	cat := makeCategory(t, st, "Electronics", nil)
	p := makeProduct(t, st, "WID-001", "9.99", cat.ID)

	var orderIDs []uint
	for i := 0; i < 2; i++ {
		o := &order.Order{
			UserID:        u.ID,
			OrderNumber:   fmt.Sprintf("ORD-%d", i),
			PaymentMethod: "PayPal",
		}
		require.NoError(t, st.CreateOrder(o, []order.OrderItem{
			{ProductID: p.ID, Quantity: 1, UnitPrice: p.Price},
		}))
		orderIDs = append(orderIDs, o.ID)
	}

	for i := range orderIDs {
		r := &review.Review{ProductID: p.ID, UserID: u.ID, OrderID: &orderIDs[i], Rating: 4}
		require.NoError(t, st.CreateReview(r))
	}

	err := st.CreateReview(&review.Review{ProductID: p.ID, UserID: u.ID, OrderID: &orderIDs[0], Rating: 2})
	require.Error(t, err)
	assert.True(t, IsConstraint(err, ConstraintUnique))

	n, err := st.CountReviews()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestCreateReviewRatingOutOfRange(t *testing.T) {
	st := newTestStore(t)
	u := makeUser(t, st, "alice")
	cat := makeCategory(t, st, "Electronics", nil)
	p := makeProduct(t, st, "WID-001", "9.99", cat.ID)

	err := st.CreateReview(&review.Review{ProductID: p.ID, UserID: u.ID, Rating: 6})
	require.Error(t, err)
	assert.True(t, IsConstraint(err, ConstraintCheckRange))

	err = st.CreateReview(&review.Review{ProductID: p.ID, UserID: u.ID, Rating: 0})
	require.Error(t, err)
	assert.True(t, IsConstraint(err, ConstraintCheckRange))
}

func TestCreateReviewUnknownUser(t *testing.T) {
	st := newTestStore(t)
	cat := makeCategory(t, st, "Electronics", nil)
	p := makeProduct(t, st, "WID-001", "9.99", cat.ID)

	err := st.CreateReview(&review.Review{ProductID: p.ID, UserID: 999, Rating: 4})
	require.Error(t, err)
	assert.True(t, IsConstraint(err, ConstraintForeignKey))
}
