package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/shopseed/shopseed/internal/config"
	"github.com/shopseed/shopseed/internal/store"
	"github.com/shopseed/shopseed/pkg/database"
	"github.com/shopseed/shopseed/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "shopseed [command]",
	Short: "Sample e-commerce dataset generator and report server",
	Long:  `Generate a referentially consistent synthetic e-commerce dataset (users, products, orders, reviews) and serve read-only reports over it.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openStore loads configuration, initializes logging and returns a
// migrated store handle
func openStore() (*store.Store, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger.Init("shopseed", cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	db, err := database.Connect(cfg.DatabaseSettings())
	if err != nil {
		return nil, nil, err
	}

	st := store.New(db)
	if err := st.Migrate(); err != nil {
		return nil, nil, err
	}
	return st, cfg, nil
}
