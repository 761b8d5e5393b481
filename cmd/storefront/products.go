package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/spf13/cobra"
)

func newProductsCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse products",
	}

	var q domain.ProductQuery
	list := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := rt.app.client.ListProducts(cmd.Context(), q)
			if err != nil {
				return err
			}

			printProducts(cmd.OutOrStdout(), page.Results)
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d products", page.Count)
			if page.HasNext() {
				fmt.Fprintf(cmd.OutOrStdout(), ", more with --page %d", max(q.Page, 1)+1)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
	list.Flags().IntVar(&q.Page, "page", 0, "page number")
	list.Flags().StringVar(&q.Category, "category", "", "category slug")
	list.Flags().StringVar(&q.Search, "search", "", "search text")
	list.Flags().StringVar(&q.Ordering, "ordering", "", "ordering field, e.g. -price")

	show := &cobra.Command{
		Use:   "show <slug>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := rt.app.client.GetProduct(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s (%s)\n", p.Name, p.Slug)
			fmt.Fprintf(w, "Category: %s\n", p.CategoryName)
			fmt.Fprintf(w, "Price:    %s", p.FinalPrice.StringFixed(2))
			if p.IsOnSale {
				fmt.Fprintf(w, " (was %s)", p.Price.StringFixed(2))
			}
			fmt.Fprintln(w)
			if p.InStock() {
				fmt.Fprintf(w, "In stock: %d available\n", p.Stock)
			} else {
				fmt.Fprintln(w, "Out of stock")
			}
			fmt.Fprintf(w, "\n%s\n", p.Description)
			return nil
		},
	}

	featured := &cobra.Command{
		Use:   "featured",
		Short: "List featured products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			products, err := rt.app.client.FeaturedProducts(cmd.Context())
			if err != nil {
				return err
			}
			printProducts(cmd.OutOrStdout(), products)
			return nil
		},
	}

	latest := &cobra.Command{
		Use:   "latest",
		Short: "List the newest products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			products, err := rt.app.client.LatestProducts(cmd.Context())
			if err != nil {
				return err
			}
			printProducts(cmd.OutOrStdout(), products)
			return nil
		},
	}

	cmd.AddCommand(list, show, featured, latest)
	return cmd
}

func newCategoriesCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Browse categories",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			categories, err := rt.app.client.ListCategories(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SLUG\tNAME")
			for _, c := range categories {
				fmt.Fprintf(tw, "%s\t%s\n", c.Slug, c.Name)
			}
			return tw.Flush()
		},
	}

	show := &cobra.Command{
		Use:   "show <slug>",
		Short: "Show one category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := rt.app.client.GetCategory(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n%s\n", c.Name, c.Slug, c.Description)
			return nil
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}

func printProducts(w io.Writer, products []domain.Product) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSLUG\tNAME\tPRICE\tSTOCK")
	for _, p := range products {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\n", p.ID, p.Slug, p.Name, p.FinalPrice.StringFixed(2), p.Stock)
	}
	_ = tw.Flush()
}
