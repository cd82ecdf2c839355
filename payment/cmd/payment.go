package cmd

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Alturino/storefront/internal/cli"
	"github.com/Alturino/storefront/internal/types"
	"github.com/Alturino/storefront/payment/pkg/request"
)

func NewCommand(shop cli.ShopFunc) *cobra.Command {
	param := request.MobileMoney{}
	var (
		orderID string
		amount  string
	)
	cmd := &cobra.Command{
		Use:   "pay",
		Short: "Pay for an order with mobile money",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := decimal.NewFromString(amount)
			if err != nil {
				return err
			}
			param.OrderID = types.ID(orderID)
			param.Amount = parsed

			payment, err := shop().Payment.InitiateMobileMoney(cmd.Context(), param)
			if err != nil {
				return err
			}
			return cli.PrintJSON(cmd.OutOrStdout(), payment)
		},
	}
	cmd.Flags().StringVar(&orderID, "order-id", "", "order returned by checkout")
	cmd.Flags().StringVar(&amount, "amount", "", "amount to charge")
	cmd.Flags().StringVar(&param.CustomerEmail, "email", "", "receipt email")
	cmd.Flags().StringVar(&param.MobileNumber, "mobile-number", "", "wallet number to charge")
	cmd.Flags().StringVar(&param.MobileNetwork, "mobile-network", "", "carrier such as MTN")
	cmd.Flags().StringVar(&param.PaymentMethod, "payment-method", "", "wallet such as MTN_MOBILE_MONEY")
	cmd.MarkFlagRequired("order-id")
	cmd.MarkFlagRequired("amount")
	return cmd
}
