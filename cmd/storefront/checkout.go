package main

import (
	"fmt"

	"github.com/nikolayk812/storefront/internal/checkout"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/spf13/cobra"
)

func newCheckoutCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Review totals and place an order",
	}

	summary := &cobra.Command{
		Use:   "summary",
		Short: "Show subtotal, shipping and total",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printSummary(cmd, rt.app.checkout.Summary(cmd.Context()))
			return nil
		},
	}

	var info domain.ShippingInfo
	place := &cobra.Command{
		Use:   "place",
		Short: "Place an order for the current cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if info.Email == "" {
				if user := rt.app.sessions.CurrentUser(ctx); user != nil {
					info.Email = user.Email
				}
			}

			order, err := rt.app.checkout.PlaceOrder(ctx, info)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Order #%d placed, status %s.\n", order.ID, order.Status)
			fmt.Fprintf(w, "Cart: %d items\n", rt.app.navbar.State().CartCount)
			return nil
		},
	}
	f := place.Flags()
	f.StringVar(&info.FirstName, "first-name", "", "first name")
	f.StringVar(&info.LastName, "last-name", "", "last name")
	f.StringVar(&info.Email, "email", "", "e-mail, defaults to the signed-in user's")
	f.StringVar(&info.Phone, "phone", "", "phone number")
	f.StringVar(&info.Address, "address", "", "street address")
	f.StringVar(&info.City, "city", "", "city")
	f.StringVar(&info.PostalCode, "postal-code", "", "postal code")
	f.StringVar(&info.Country, "country", "", "country")

	cmd.AddCommand(summary, place)
	return cmd
}

func printSummary(cmd *cobra.Command, s checkout.Summary) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "\nItems:    %d\n", s.ItemCount)
	fmt.Fprintf(w, "Subtotal: %s\n", s.Subtotal)
	if s.FreeShipping() {
		fmt.Fprintln(w, "Shipping: free")
	} else {
		fmt.Fprintf(w, "Shipping: %s (add %s more for free shipping)\n", s.Shipping, s.RemainingForFreeShipping)
	}
	fmt.Fprintf(w, "Total:    %s\n", s.Total)
}
