package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Alturino/storefront/internal/cli"
	"github.com/Alturino/storefront/internal/types"
)

func NewCommand(shop cli.ShopFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage your cart",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cart := shop().Cart
			if err := cart.FetchCart(cmd.Context()); err != nil {
				return err
			}
			if err := cart.LastError(); err != nil {
				return err
			}
			return cli.PrintCart(cmd.OutOrStdout(), cart.Items())
		},
	}

	var (
		quantity int
		size     string
	)
	add := &cobra.Command{
		Use:   "add <productId>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cart := shop().Cart
			if err := cart.AddItem(cmd.Context(), types.ID(args[0]), quantity, size); err != nil {
				return err
			}
			return cli.PrintCart(cmd.OutOrStdout(), cart.Items())
		},
	}
	add.Flags().IntVarP(&quantity, "quantity", "q", 1, "units to add")
	add.Flags().StringVar(&size, "size", "", "size to remember for checkout")

	remove := &cobra.Command{
		Use:   "remove <productId>",
		Short: "Remove a product from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cart := shop().Cart
			if err := cart.FetchCart(cmd.Context()); err != nil {
				return err
			}
			if err := cart.RemoveItem(cmd.Context(), types.ID(args[0])); err != nil {
				return err
			}
			return cli.PrintCart(cmd.OutOrStdout(), cart.Items())
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return shop().Cart.ClearCart(cmd.Context())
		},
	}

	cmd.AddCommand(show, add, remove, clearCmd)
	return cmd
}
