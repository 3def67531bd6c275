package main

import (
	"github.com/spf13/cobra"

	"github.com/shopseed/shopseed/internal/seed"
	"github.com/shopseed/shopseed/pkg/logger"
)

var (
	flagUsers    int
	flagProducts int
	flagOrders   int
	flagReviews  int
	flagSeed     int64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the database with a consistent synthetic dataset",
	Long:  `Create categories, users, products, orders with items, and reviews in dependency order, then reconcile the derived aggregate fields. Any constraint failure other than a duplicate review aborts the run.`,
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&flagUsers, "users", 0, "number of users to create (overrides SEED_USERS)")
	seedCmd.Flags().IntVar(&flagProducts, "products", 0, "number of products to create (overrides SEED_PRODUCTS)")
	seedCmd.Flags().IntVar(&flagOrders, "orders", 0, "number of orders to create (overrides SEED_ORDERS)")
	seedCmd.Flags().IntVar(&flagReviews, "reviews", 0, "number of review attempts (overrides SEED_REVIEWS)")
	seedCmd.Flags().Int64Var(&flagSeed, "seed", 0, "random seed for reproducible datasets (overrides SEED_RANDOM_SEED)")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	st, cfg, err := openStore()
	if err != nil {
		return err
	}

	gcfg := seed.DefaultConfig()
	gcfg.Users = cfg.Seed.Users
	gcfg.Products = cfg.Seed.Products
	gcfg.Orders = cfg.Seed.Orders
	gcfg.Reviews = cfg.Seed.Reviews
	gcfg.Seed = cfg.Seed.Seed

	if flagUsers > 0 {
		gcfg.Users = flagUsers
	}
	if flagProducts > 0 {
		gcfg.Products = flagProducts
	}
	if flagOrders > 0 {
		gcfg.Orders = flagOrders
	}
	if flagReviews > 0 {
		gcfg.Reviews = flagReviews
	}
	if cmd.Flags().Changed("seed") {
		gcfg.Seed = flagSeed
	}

	result, err := seed.New(st, gcfg).Run()
	if err != nil {
		logger.Error().Err(err).Msg("population run failed")
		return err
	}

	logger.Info().
		Str("run_id", result.RunID).
		Int("categories", result.CategoriesCreated).
		Int("users", result.UsersCreated).
		Int("products", result.ProductsCreated).
		Int("orders", result.OrdersCreated).
		Int("order_items", result.ItemsCreated).
		Int("reviews", result.ReviewsCreated).
		Int("reviews_skipped", result.ReviewsSkipped).
		Msg("dataset ready")
	return nil
}
