package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/nikolayk812/storefront/internal/apperr"
	"github.com/nikolayk812/storefront/internal/bus"
	"github.com/nikolayk812/storefront/internal/ui"
	"github.com/spf13/cobra"
)

func newCartCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the cart kept on this device",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show cart contents and totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			current := rt.app.carts.GetCart(ctx)
			w := cmd.OutOrStdout()

			if current.IsEmpty() {
				fmt.Fprintln(w, "Your cart is empty.")
				return nil
			}

			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tPRICE\tQTY\tSUBTOTAL")
			for _, l := range current.Lines {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", l.ProductID, l.Name, l.UnitPrice.StringFixed(2), l.Quantity, l.Subtotal().StringFixed(2))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			printSummary(cmd, rt.app.checkout.Summary(ctx))
			return nil
		},
	}

	var quantity int
	add := &cobra.Command{
		Use:   "add <slug>",
		Short: "Add a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			p, err := rt.app.client.GetProduct(ctx, args[0])
			if err != nil {
				return err
			}
			if !p.InStock() {
				return fmt.Errorf("%s is out of stock", p.Name)
			}

			inCart := 0
			if line, ok := rt.app.carts.GetCart(ctx).Line(p.ID); ok {
				inCart = line.Quantity
			}
			if quantity < 1 || inCart+quantity > p.Stock {
				return fmt.Errorf("quantity must be between 1 and %d", p.Stock-inCart)
			}

			ui.RequestAddToCart(rt.app.bus, p, quantity)

			if _, ok := rt.app.carts.GetCart(ctx).Line(p.ID); !ok {
				return fmt.Errorf("could not add %s to the cart", p.Name)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s. Cart: %d items\n", p.Name, rt.app.navbar.State().CartCount)
			return nil
		},
	}
	add.Flags().IntVarP(&quantity, "qty", "q", 1, "quantity to add")

	update := &cobra.Command{
		Use:   "update <product-id> <quantity>",
		Short: "Set the quantity of a cart line; 0 removes it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("product id: %w", err)
			}
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("quantity: %w", err)
			}

			line, ok := rt.app.carts.GetCart(ctx).Line(id)
			if !ok {
				return apperr.NotFoundErr(fmt.Sprintf("Product %d is not in the cart.", id))
			}
			if line.StockLimit > 0 && qty > line.StockLimit {
				return fmt.Errorf("only %d of %s available", line.StockLimit, line.Name)
			}

			updated, err := rt.app.carts.UpdateQuantity(ctx, id, qty)
			if err != nil {
				return err
			}
			return announce(rt, cmd, updated.ItemCount())
		},
	}

	remove := &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a product from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("product id: %w", err)
			}

			updated, err := rt.app.carts.RemoveItem(cmd.Context(), id)
			if err != nil {
				return err
			}
			return announce(rt, cmd, updated.ItemCount())
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := rt.app.carts.Clear(cmd.Context()); err != nil {
				return err
			}
			return announce(rt, cmd, 0)
		},
	}

	cmd.AddCommand(show, add, update, remove, clearCmd)
	return cmd
}

// announce tells the rest of the app the cart changed and prints the new badge.
func announce(rt *runtime, cmd *cobra.Command, count int) error {
	bus.Publish(rt.app.bus, bus.CartUpdated, bus.CartChanged{ItemCount: count})
	fmt.Fprintf(cmd.OutOrStdout(), "Cart: %d items\n", rt.app.navbar.State().CartCount)
	return nil
}
