package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newOrdersCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Order history",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List your orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := rt.app.client.ListOrders(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDATE\tSTATUS\tITEMS\tTOTAL")
			for _, o := range page.Results {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", o.ID, o.CreatedAt.Format("2006-01-02"), o.Status, o.ItemsCount, o.TotalAmount.StringFixed(2))
			}
			return tw.Flush()
		},
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("order id: %w", err)
			}

			o, err := rt.app.client.GetOrder(cmd.Context(), id)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Order #%d, %s, placed %s\n", o.ID, o.Status, o.CreatedAt.Format("2006-01-02 15:04"))
			fmt.Fprintf(w, "Ship to: %s %s, %s, %s %s, %s\n\n", o.FirstName, o.LastName, o.Address, o.PostalCode, o.City, o.Country)

			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PRODUCT\tQTY\tPRICE\tTOTAL")
			for _, it := range o.Items {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", it.ProductName, it.Quantity, it.Price.StringFixed(2), it.TotalPrice.StringFixed(2))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(w, "\nTotal: %s\n", o.TotalAmount.StringFixed(2))
			return nil
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}
