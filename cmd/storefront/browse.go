package main

import (
	"fmt"
	"strings"

	"storefront/internal/query"
	"storefront/internal/view"

	"github.com/spf13/cobra"
)

func newBrowseCmd(a *app) *cobra.Command {
	var (
		search    string
		category  string
		sortKey   string
		showLinks bool
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "List catalog items matching a search",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result := a.storefront.Browse(cmd.Context(), query.Criteria{
				SearchText: search,
				Category:   category,
				SortKey:    query.SortKey(sortKey),
			}, a.mobile)

			out := cmd.OutOrStdout()
			if len(result.Cards) == 0 {
				fmt.Fprintln(out, result.EmptyMessage)
			}
			for _, card := range result.Cards {
				printCard(cmd, card, showLinks)
			}
			fmt.Fprintln(out, result.Status)
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive text to look for")
	cmd.Flags().StringVarP(&category, "category", "c", query.AllCategories, "category to show")
	cmd.Flags().StringVar(&sortKey, "sort", string(query.SortFeatured), "featured, priceAsc, priceDesc or nameAsc")
	cmd.Flags().BoolVar(&showLinks, "links", false, "print the contact links of every item")
	return cmd
}

func printCard(cmd *cobra.Command, card *view.Card, showLinks bool) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-20s %-28s %6s  [%s]  %s\n", card.ItemID, card.Name, card.PriceLabel, card.Badge, card.LeadTime)

	if len(card.Options) > 0 {
		opts := make([]string, 0, len(card.Options))
		for _, opt := range card.Options {
			opts = append(opts, fmt.Sprintf("%s: %s", opt.Name, strings.Join(opt.Choices, "/")))
		}
		fmt.Fprintf(out, "%-20s %s\n", "", strings.Join(opts, "; "))
	}

	if showLinks {
		fmt.Fprintf(out, "%-20s whatsapp %s\n", "", card.Links.WhatsApp)
		fmt.Fprintf(out, "%-20s sms      %s\n", "", card.Links.SMS)
		fmt.Fprintf(out, "%-20s signal   %s\n", "", card.Links.Signal)
	}
}
