package main

import (
	"github.com/spf13/cobra"
)

// runtime carries the app from the root pre-run hook to the subcommands.
type runtime struct {
	app *app
}

func (rt *runtime) close() error {
	if rt.app == nil {
		return nil
	}
	return rt.app.Close()
}

func newRootCmd() (*cobra.Command, *runtime) {
	rt := &runtime{}

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Browse the organic store, manage your cart and place orders",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			rt.app = a

			a.navbar.Mount(cmd.Context())
			a.catalog.Mount(cmd.Context())
			return nil
		},
	}

	root.AddCommand(
		newProductsCmd(rt),
		newCategoriesCmd(rt),
		newCartCmd(rt),
		newCheckoutCmd(rt),
		newOrdersCmd(rt),
		newAuthCmd(rt),
		newProfileCmd(rt),
		newChatCmd(rt),
	)

	return root, rt
}
