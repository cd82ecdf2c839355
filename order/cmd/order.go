package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Alturino/storefront/internal/cli"
	"github.com/Alturino/storefront/order/pkg/request"
	paymentRequest "github.com/Alturino/storefront/payment/pkg/request"
)

func NewCommand(shop cli.ShopFunc) *cobra.Command {
	param := request.Checkout{}
	var pay bool
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cmd.Context()
			s := shop()

			if err := s.Cart.FetchCart(c); err != nil {
				return err
			}
			checkout, err := s.Checkout.Checkout(c, param)
			if err != nil {
				return err
			}
			if !pay {
				return cli.PrintJSON(cmd.OutOrStdout(), checkout)
			}

			payment, err := s.Payment.InitiateMobileMoney(c, paymentRequest.MobileMoney{
				OrderID:       checkout.OrderID,
				Amount:        checkout.Amount,
				CustomerEmail: checkout.CustomerEmail,
				MobileNumber:  checkout.MobileNumber,
				MobileNetwork: checkout.MobileNetwork,
				PaymentMethod: checkout.PaymentMethod,
			})
			if err != nil {
				return err
			}
			return cli.PrintJSON(cmd.OutOrStdout(), payment)
		},
	}
	cmd.Flags().StringVar(&param.ShippingAddress, "shipping-address", "", "delivery address")
	cmd.Flags().StringVar(&param.BillingAddress, "billing-address", "", "defaults to the shipping address")
	cmd.Flags().StringVar(&param.MobileNumber, "mobile-number", "", "wallet number to charge")
	cmd.Flags().StringVar(&param.MobileNetwork, "mobile-network", "", "carrier such as MTN")
	cmd.Flags().StringVar(&param.PaymentMethod, "payment-method", "", "wallet such as MTN_MOBILE_MONEY")
	cmd.Flags().BoolVar(&pay, "pay", false, "initiate mobile money payment right after ordering")
	return cmd
}
