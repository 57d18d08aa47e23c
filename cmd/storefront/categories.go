package main

import (
	"fmt"

	"storefront/internal/query"

	"github.com/spf13/cobra"
)

func newCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the categories the catalog uses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, query.AllCategories)
			for _, c := range a.storefront.Categories() {
				fmt.Fprintln(out, c)
			}
			return nil
		},
	}
}
