package main

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/links"
	"storefront/internal/models"
	"storefront/internal/service"

	"github.com/spf13/cobra"
)

// contactFlags describe which message to build
type contactFlags struct {
	kind    string
	options []string
	channel string
	link    string
	site    string
}

func (f *contactFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.kind, "kind", "", "header contact when no item is given: general, custom or model_link")
	cmd.Flags().StringArrayVarP(&f.options, "opt", "o", nil, "option selection as Name=Value, repeatable")
	cmd.Flags().StringVar(&f.channel, "channel", "", "whatsapp, sms, signal or tel")
	cmd.Flags().StringVar(&f.link, "model-link", "", "model URL for a model_link request")
	cmd.Flags().StringVar(&f.site, "site", "", "site the model link comes from")
}

// plan builds the contact plan, applying option selections through a card session
func (f *contactFlags) plan(ctx context.Context, a *app, args []string) (*service.ContactPlan, error) {
	req := &service.ContactRequest{
		Kind:    f.kind,
		Channel: f.channel,
		Link:    f.link,
		Site:    f.site,
	}

	if len(args) == 0 {
		if req.Kind == "" {
			req.Kind = models.ContactKindGeneral
		}
		if len(f.options) > 0 {
			return nil, fmt.Errorf("--opt needs an item id")
		}
		return a.storefront.PlanContact(ctx, req, a.mobile)
	}

	state, err := a.storefront.OpenCard(ctx, args[0], a.mobile)
	if err != nil {
		return nil, err
	}
	defer a.storefront.CloseCard(ctx, state.SessionID)

	for _, opt := range f.options {
		name, value, ok := strings.Cut(opt, "=")
		if !ok {
			return nil, fmt.Errorf("option %q is not Name=Value", opt)
		}
		if _, err := a.storefront.ChangeOption(ctx, state.SessionID, strings.TrimSpace(name), value, a.mobile); err != nil {
			return nil, err
		}
	}

	req.Kind = ""
	req.ItemID = state.Card.ItemID
	req.SessionID = state.SessionID
	return a.storefront.PlanContact(ctx, req, a.mobile)
}

func newLinkCmd(a *app) *cobra.Command {
	flags := &contactFlags{}

	cmd := &cobra.Command{
		Use:   "link [item-id]",
		Short: "Print the prefilled message and its contact links",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := flags.plan(cmd.Context(), a, args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if flags.channel != "" {
				fmt.Fprintln(out, plan.Plan.PrimaryURL)
				return nil
			}

			fmt.Fprintln(out, plan.Message)
			fmt.Fprintln(out)
			for _, ch := range []links.Channel{links.ChannelWhatsApp, links.ChannelSMS, links.ChannelSignal, links.ChannelTel} {
				fmt.Fprintf(out, "%-9s %s\n", ch, plan.Links.For(ch))
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
