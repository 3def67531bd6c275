// Package seed populates a store with a referentially consistent synthetic
// dataset. Stages run in strict dependency order (categories, users,
// products, orders with their items, reviews) and a reconciliation pass
// settles the derived product ratings at the end. Review candidates that
// collide on the (user, product, order) uniqueness rule are skipped and
// counted; every other constraint failure is a generator bug and aborts
// the run.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	catalog "github.com/shopseed/shopseed/internal/catalog/domain"
	identity "github.com/shopseed/shopseed/internal/identity/domain"
	order "github.com/shopseed/shopseed/internal/order/domain"
	review "github.com/shopseed/shopseed/internal/review/domain"
	"github.com/shopseed/shopseed/internal/reconcile"
	"github.com/shopseed/shopseed/internal/store"
	"github.com/shopseed/shopseed/pkg/logger"
)

// Result reports what a generation run produced. Skipped review duplicates
// are part of the contract, not an error channel.
type Result struct {
	RunID             string `json:"run_id"`
	CategoriesCreated int    `json:"categories_created"`
	UsersCreated      int    `json:"users_created"`
	ProductsCreated   int    `json:"products_created"`
	OrdersCreated     int    `json:"orders_created"`
	ItemsCreated      int    `json:"items_created"`
	ReviewsCreated    int    `json:"reviews_created"`
	ReviewsSkipped    int    `json:"reviews_skipped"`
}

// Generator writes a synthetic dataset through an explicit store handle
type Generator struct {
	store *store.Store
	cfg   Config
	rng   *rand.Rand
}

// New creates a generator. The same config (including its seed) produces
// the same dataset on every run.
func New(st *store.Store, cfg Config) *Generator {
	return &Generator{
		store: st,
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Run executes all stages and returns the outcome. On error the completed
// stages remain committed but the run counts as failed.
func (g *Generator) Run() (*Result, error) {
	if err := g.cfg.Validate(); err != nil {
		return nil, err
	}

	res := &Result{RunID: uuid.NewString()}
	start := time.Now()
	logger.Info().
		Str("run_id", res.RunID).
		Int64("seed", g.cfg.Seed).
		Msg("starting population run")

	cats, err := g.seedCategories(res)
	if err != nil {
		return res, fmt.Errorf("category stage failed: %w", err)
	}

	users, err := g.seedUsers(res)
	if err != nil {
		return res, fmt.Errorf("user stage failed: %w", err)
	}

	products, err := g.seedProducts(res, cats)
	if err != nil {
		return res, fmt.Errorf("product stage failed: %w", err)
	}

	orders, err := g.seedOrders(res, users, products)
	if err != nil {
		return res, fmt.Errorf("order stage failed: %w", err)
	}

	if err := g.seedReviews(res, users, products, orders); err != nil {
		return res, fmt.Errorf("review stage failed: %w", err)
	}

	rec := reconcile.New(g.store).WithTaxRate(g.cfg.TaxRate)
	if err := rec.ProductRatings(); err != nil {
		return res, fmt.Errorf("rating reconciliation failed: %w", err)
	}

	logger.Info().
		Str("run_id", res.RunID).
		Int("users", res.UsersCreated).
		Int("products", res.ProductsCreated).
		Int("orders", res.OrdersCreated).
		Int("reviews", res.ReviewsCreated).
		Int("reviews_skipped", res.ReviewsSkipped).
		Dur("elapsed", time.Since(start)).
		Msg("population run complete")
	return res, nil
}

// starter forest seeded before products; reused if categories already exist
var starterCategories = []struct {
	name        string
	parent      string
	description string
}{
	{"Electronics", "", "Electronic devices and accessories"},
	{"Smartphones", "Electronics", "Mobile phones and accessories"},
	{"Laptops", "Electronics", "Portable computers"},
	{"Clothing", "", "Apparel and fashion"},
	{"Men's Clothing", "Clothing", "Clothing for men"},
	{"Women's Clothing", "Clothing", "Clothing for women"},
}

func (g *Generator) seedCategories(res *Result) ([]catalog.Category, error) {
	existing, err := g.store.Categories()
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	idByName := make(map[string]uint, len(starterCategories))
	for i, sc := range starterCategories {
		cat := catalog.Category{
			Name:        sc.name,
			Description: sc.description,
			IsActive:    true,
			SortOrder:   i,
		}
		if sc.parent != "" {
			parentID := idByName[sc.parent]
			cat.ParentID = &parentID
		}
		if err := g.store.CreateCategory(&cat); err != nil {
			return nil, err
		}
		idByName[sc.name] = cat.ID
		res.CategoriesCreated++
	}

	logger.Info().Int("count", res.CategoriesCreated).Msg("seeded categories")
	return g.store.Categories()
}

func (g *Generator) seedUsers(res *Result) ([]identity.User, error) {
	start := time.Now()
	users := make([]identity.User, 0, g.cfg.Users)
	usedNames := make(map[string]bool, g.cfg.Users)

	for i := 0; i < g.cfg.Users; i++ {
		first := g.pick(firstNames)
		last := g.pick(lastNames)

		var username string
		for {
			username = fmt.Sprintf("%s%s%d",
				strings.ToLower(first), strings.ToLower(last), 1+g.rng.Intn(999))
			if !usedNames[username] {
				usedNames[username] = true
				break
			}
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(g.password()), bcrypt.MinCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}

		user := identity.User{
			Username:         username,
			Email:            fmt.Sprintf("%s@%s", username, g.pick(emailDomains)),
			PasswordHash:     string(hash),
			FirstName:        first,
			LastName:         last,
			Phone:            fmt.Sprintf("+1-555-%03d-%04d", g.rng.Intn(1000), g.rng.Intn(10000)),
			Gender:           g.pick([]string{"M", "F", "Other"}),
			RegistrationDate: g.pastTime(2 * 365),
			Status:           identity.StatusActive,
			ShippingAddress:  g.address(),
			BillingAddress:   g.address(),
		}

		if err := g.store.CreateUser(&user); err != nil {
			return nil, err
		}
		users = append(users, user)
		res.UsersCreated++
	}

	logger.Info().
		Int("count", res.UsersCreated).
		Dur("elapsed", time.Since(start)).
		Msg("seeded users")
	return users, nil
}

func (g *Generator) seedProducts(res *Result, cats []catalog.Category) ([]catalog.Product, error) {
	start := time.Now()
	products := make([]catalog.Product, 0, g.cfg.Products)
	usedSKUs := make(map[string]bool, g.cfg.Products)

	for i := 0; i < g.cfg.Products; i++ {
		base := g.pick(productNames)
		brand := g.pick(brands)

		var sku string
		for {
			sku = fmt.Sprintf("%s-%s-%04d",
				strings.ToUpper(brand[:3]), strings.ToUpper(base[:3]), 1000+g.rng.Intn(9000))
			if !usedSKUs[sku] {
				usedSKUs[sku] = true
				break
			}
		}

		price := g.money(g.cfg.PriceMin, g.cfg.PriceMax)
		product := catalog.Product{
			Name:          fmt.Sprintf("%s %s", brand, base),
			Description:   g.sentence(8 + g.rng.Intn(8)),
			CategoryID:    cats[g.rng.Intn(len(cats))].ID,
			Brand:         brand,
			SKU:           sku,
			Price:         price,
			CostPrice:     price.Mul(decimal.NewFromFloat(0.4 + 0.5*g.rng.Float64())).Round(2),
			StockQuantity: g.rng.Intn(g.cfg.StockMax + 1),
			Status:        catalog.ProductActive,
		}

		if err := g.store.CreateProduct(&product); err != nil {
			return nil, err
		}
		products = append(products, product)
		res.ProductsCreated++
	}

	logger.Info().
		Int("count", res.ProductsCreated).
		Dur("elapsed", time.Since(start)).
		Msg("seeded products")
	return products, nil
}

func (g *Generator) seedOrders(res *Result, users []identity.User, products []catalog.Product) ([]order.Order, error) {
	start := time.Now()
	orders := make([]order.Order, 0, g.cfg.Orders)

	for i := 0; i < g.cfg.Orders; i++ {
		user := users[g.rng.Intn(len(users))]

		items := make([]order.OrderItem, 1+g.rng.Intn(g.cfg.MaxItems))
		subtotal := decimal.Zero
		for j := range items {
			p := products[g.rng.Intn(len(products))]
			qty := 1 + g.rng.Intn(g.cfg.MaxQuantity)
			items[j] = order.OrderItem{
				ProductID:   p.ID,
				Quantity:    qty,
				UnitPrice:   p.Price, // point-in-time snapshot
				ProductName: p.Name,
				ProductSKU:  p.SKU,
			}
			subtotal = subtotal.Add(items[j].ComputeTotal())
		}

		o := order.Order{
			UserID:          user.ID,
			OrderNumber:     fmt.Sprintf("ORD-%08X", g.rng.Uint32()),
			Status:          g.pick([]string{order.OrderPending, order.OrderProcessing, order.OrderShipped, order.OrderDelivered}),
			OrderDate:       g.pastTime(365),
			TaxAmount:       subtotal.Mul(g.cfg.TaxRate).Round(2),
			ShippingCost:    g.cfg.ShippingCosts[g.rng.Intn(len(g.cfg.ShippingCosts))],
			PaymentMethod:   g.pick([]string{"Credit Card", "PayPal", "Bank Transfer"}),
			PaymentStatus:   g.pick([]string{order.PaymentPending, order.PaymentPaid}),
			ShippingAddress: user.ShippingAddress,
			BillingAddress:  user.BillingAddress,
		}

		if err := g.store.CreateOrder(&o, items); err != nil {
			return nil, err
		}
		orders = append(orders, o)
		res.OrdersCreated++
		res.ItemsCreated += len(items)
	}

	logger.Info().
		Int("count", res.OrdersCreated).
		Int("items", res.ItemsCreated).
		Dur("elapsed", time.Since(start)).
		Msg("seeded orders")
	return orders, nil
}

func (g *Generator) seedReviews(res *Result, users []identity.User, products []catalog.Product, orders []order.Order) error {
	start := time.Now()

	for i := 0; i < g.cfg.Reviews; i++ {
		r := review.Review{
			ProductID:  products[g.rng.Intn(len(products))].ID,
			UserID:     users[g.rng.Intn(len(users))].ID,
			Rating:     1 + g.rng.Intn(5),
			Title:      g.sentence(3 + g.rng.Intn(5)),
			Body:       g.paragraph(),
			Status:     review.ReviewPending,
			ReviewDate: g.pastTime(365),
		}
		if len(orders) > 0 && g.rng.Float64() > 0.2 {
			orderID := orders[g.rng.Intn(len(orders))].ID
			r.OrderID = &orderID
			r.VerifiedPurchase = true
		}

		err := g.store.CreateReview(&r)
		if store.IsConstraint(err, store.ConstraintUnique) {
			res.ReviewsSkipped++
			continue
		}
		if err != nil {
			return err
		}
		res.ReviewsCreated++
	}

	logger.Info().
		Int("count", res.ReviewsCreated).
		Int("skipped", res.ReviewsSkipped).
		Dur("elapsed", time.Since(start)).
		Msg("seeded reviews")
	return nil
}

func (g *Generator) pick(pool []string) string {
	return pool[g.rng.Intn(len(pool))]
}

func (g *Generator) money(min, max float64) decimal.Decimal {
	return decimal.NewFromFloat(min + g.rng.Float64()*(max-min)).Round(2)
}

func (g *Generator) pastTime(maxDays int) time.Time {
	offset := time.Duration(g.rng.Intn(maxDays*24)) * time.Hour
	return time.Now().Add(-offset)
}

func (g *Generator) address() string {
	return fmt.Sprintf("%d %s, %s", 1+g.rng.Intn(9999), g.pick(streetNames), g.pick(cityNames))
}

func (g *Generator) password() string {
	return fmt.Sprintf("%s-%s-%d", g.pick(loremWords), g.pick(loremWords), g.rng.Intn(10000))
}

func (g *Generator) sentence(words int) string {
	parts := make([]string, words)
	for i := range parts {
		parts[i] = g.pick(loremWords)
	}
	s := strings.Join(parts, " ")
	return strings.ToUpper(s[:1]) + s[1:] + "."
}

func (g *Generator) paragraph() string {
	sentences := make([]string, 2+g.rng.Intn(3))
	for i := range sentences {
		sentences[i] = g.sentence(5 + g.rng.Intn(8))
	}
	return strings.Join(sentences, " ")
}
