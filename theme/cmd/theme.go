package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Alturino/storefront/internal/cli"
)

func NewCommand(shop cli.ShopFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or toggle the dark theme",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the current theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dark, err := shop().Theme.Load(cmd.Context())
			if err != nil {
				return err
			}
			return printTheme(cmd.OutOrStdout(), dark)
		},
	}

	toggle := &cobra.Command{
		Use:   "toggle",
		Short: "Switch between light and dark",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			theme := shop().Theme
			if _, err := theme.Load(cmd.Context()); err != nil {
				return err
			}
			return printTheme(cmd.OutOrStdout(), theme.Toggle(cmd.Context()))
		},
	}

	cmd.AddCommand(show, toggle)
	return cmd
}

func printTheme(w io.Writer, dark bool) error {
	theme := "light"
	if dark {
		theme = "dark"
	}
	_, err := fmt.Fprintf(w, "Theme: %s\n", theme)
	return err
}
