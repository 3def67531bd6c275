package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shopseed/shopseed/internal/report/query"
)

var (
	flagCSV   bool
	flagLimit int
)

var reportCmd = &cobra.Command{
	Use:       "report [tree|top|recent|sales|reviews|stats]",
	Short:     "Print a read-only report on stdout",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"tree", "top", "recent", "sales", "reviews", "stats"},
	RunE:      runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&flagCSV, "csv", false, "emit CSV instead of plain text")
	reportCmd.Flags().IntVar(&flagLimit, "limit", 10, "maximum number of rows for ranked reports")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	st, _, err := openStore()
	if err != nil {
		return err
	}
	q := query.New(st)

	switch args[0] {
	case "tree":
		tree, err := q.CategoryTree()
		if err != nil {
			return err
		}
		fmt.Print(tree)

	case "top":
		products, err := q.TopRatedProducts(flagLimit)
		if err != nil {
			return err
		}
		if flagCSV {
			return query.TopProductsTable(products).WriteCSV(os.Stdout)
		}
		for i := range products {
			p := &products[i]
			fmt.Printf("%-40s %8s  %s (%d reviews)\n",
				p.Name, p.Price.StringFixed(2), p.RatingAverage.StringFixed(2), p.RatingCount)
		}

	case "recent":
		orders, err := q.RecentOrders(flagLimit)
		if err != nil {
			return err
		}
		if flagCSV {
			return query.RecentOrdersTable(orders).WriteCSV(os.Stdout)
		}
		for i := range orders {
			o := &orders[i]
			fmt.Printf("%-16s %-12s %10s  %s\n",
				o.OrderNumber, o.Status, o.TotalAmount.StringFixed(2), o.OrderDate.Format("2006-01-02"))
		}

	case "sales":
		rows, err := q.SalesByCategory()
		if err != nil {
			return err
		}
		if flagCSV {
			return query.CategorySalesTable(rows).WriteCSV(os.Stdout)
		}
		for i := range rows {
			fmt.Printf("%-24s %6d items %12s\n", rows[i].Category, rows[i].ItemsSold, rows[i].Revenue.StringFixed(2))
		}

	case "reviews":
		rows, err := q.ReviewDetails(flagLimit)
		if err != nil {
			return err
		}
		if flagCSV {
			return query.ReviewDetailsTable(rows).WriteCSV(os.Stdout)
		}
		for i := range rows {
			fmt.Printf("%-40s %d/5 by %s (%s)\n", rows[i].ProductName, rows[i].Rating, rows[i].Username, rows[i].Status)
		}

	case "stats":
		stats, err := q.StoreStats()
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))

	default:
		return fmt.Errorf("unknown report %q", args[0])
	}
	return nil
}
