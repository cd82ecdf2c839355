// Package cli holds what the storefront subcommands share: access to the assembled shop and
// output formatting.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	cartResponse "github.com/Alturino/storefront/cart/pkg/response"
	productResponse "github.com/Alturino/storefront/product/pkg/response"
	"github.com/Alturino/storefront/shop"
)

// ShopFunc returns the shop built for the running command. It is only valid inside RunE.
type ShopFunc func() *shop.Shop

func PrintJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func PrintProducts(w io.Writer, products []productResponse.Product) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tRATING\tCATEGORY\tSTOCK")
	for _, p := range products {
		stock := "-"
		if p.Stock != nil {
			stock = fmt.Sprint(*p.Stock)
		}
		category := strings.Trim(p.Category+"/"+p.Subcategory, "/")
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f\t%s\t%s\n", p.ID, p.Name, p.Price.StringFixed(2), p.Rating, category, stock)
	}
	return tw.Flush()
}

func PrintCart(w io.Writer, items cartResponse.CartItems) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "Your cart is empty.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCT\tNAME\tSIZE\tQTY\tPRICE\tSUBTOTAL")
	for _, item := range items {
		size := item.Size
		if size == "" {
			size = "-"
		}
		fmt.Fprintf(
			tw,
			"%s\t%s\t%s\t%d\t%s\t%s\n",
			item.ProductID,
			item.Name,
			size,
			item.Quantity,
			item.UnitPrice.StringFixed(2),
			item.LineSubtotal.StringFixed(2),
		)
	}
	fmt.Fprintf(tw, "\t\t\t%d\tTOTAL\t%s\n", items.Units(), items.Total().StringFixed(2))
	return tw.Flush()
}
