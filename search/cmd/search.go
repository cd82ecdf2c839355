package cmd

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Alturino/storefront/internal/cli"
	"github.com/Alturino/storefront/search/pkg/request"
)

func NewCommand(shop cli.ShopFunc) *cobra.Command {
	var (
		minPrice  string
		maxPrice  string
		minRating float64
		inStock   bool
		pages     int
	)
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search products",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cmd.Context()
			s := shop()

			filters := request.Filters{}
			if cmd.Flags().Changed("min-price") {
				d, err := decimal.NewFromString(minPrice)
				if err != nil {
					return fmt.Errorf("failed parsing min-price=%s with error=%w", minPrice, err)
				}
				filters.MinPrice = &d
			}
			if cmd.Flags().Changed("max-price") {
				d, err := decimal.NewFromString(maxPrice)
				if err != nil {
					return fmt.Errorf("failed parsing max-price=%s with error=%w", maxPrice, err)
				}
				filters.MaxPrice = &d
			}
			if cmd.Flags().Changed("min-rating") {
				filters.MinRating = &minRating
			}
			if cmd.Flags().Changed("in-stock") {
				filters.InStock = &inStock
			}

			f := s.Search.NewFeed()
			defer f.Close()
			if err := s.Search.Search(c, f, strings.Join(args, " "), filters); err != nil {
				return err
			}
			for page := 1; page < pages && f.State().HasMore; page++ {
				if err := f.LoadNextPage(c); err != nil {
					return err
				}
			}

			state := f.State()
			if len(state.Items) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "No results.")
				return err
			}
			return cli.PrintProducts(cmd.OutOrStdout(), state.Items)
		},
	}
	cmd.Flags().StringVar(&minPrice, "min-price", "", "lowest price")
	cmd.Flags().StringVar(&maxPrice, "max-price", "", "highest price")
	cmd.Flags().Float64Var(&minRating, "min-rating", 0, "lowest rating, 0 to 5")
	cmd.Flags().BoolVar(&inStock, "in-stock", false, "only products in stock")
	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages to load")

	recent := &cobra.Command{
		Use:   "recent",
		Short: "Show your recent searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			terms, err := shop().Search.RecentSearches(cmd.Context())
			if err != nil {
				return err
			}
			for _, term := range terms {
				fmt.Fprintln(cmd.OutOrStdout(), term)
			}
			return nil
		},
	}

	cmd.AddCommand(recent)
	return cmd
}
