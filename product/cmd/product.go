package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Alturino/storefront/internal/cli"
	"github.com/Alturino/storefront/product/service"
)

const FEED_CATALOG = "catalog"

func NewCommand(shop cli.ShopFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse the catalog",
	}

	var (
		category    string
		subcategory string
		pages       int
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List products, optionally narrowed to a category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cmd.Context()
			f := shop().Products.NewFeed(FEED_CATALOG)
			defer f.Close()

			if err := f.Configure(c, service.CategoryParams(category, subcategory)); err != nil {
				return err
			}
			for page := 1; page < pages && f.State().HasMore; page++ {
				if err := f.LoadNextPage(c); err != nil {
					return err
				}
			}

			state := f.State()
			if state.IsEmpty() {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "No products found.")
				return err
			}
			if err := cli.PrintProducts(cmd.OutOrStdout(), state.Items); err != nil {
				return err
			}
			if state.HasMore {
				fmt.Fprintf(cmd.OutOrStdout(), "more available, use --pages %d\n", pages+1)
			}
			return nil
		},
	}
	list.Flags().StringVar(&category, "category", "All", "category, All for every product")
	list.Flags().StringVar(&subcategory, "subcategory", "", "subcategory within the category")
	list.Flags().IntVar(&pages, "pages", 1, "number of pages to load")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			product, err := shop().Products.FindProductById(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return cli.PrintJSON(cmd.OutOrStdout(), product)
		},
	}

	cmd.AddCommand(list, get)
	return cmd
}
