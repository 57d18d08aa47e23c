package main

import (
	"fmt"
	"time"

	"storefront/internal/dispatch"
	"storefront/internal/links"
	"storefront/internal/notify"

	"github.com/spf13/cobra"
)

const (
	desktopTip         = "Tip: On desktop, Signal may copy the message and open WhatsApp as backup."
	desktopTipDuration = 2600 * time.Millisecond
)

func newContactCmd(a *app) *cobra.Command {
	flags := &contactFlags{}
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "contact [item-id]",
		Short: "Open a prefilled conversation with the seller",
		Long: `Open a prefilled conversation with the seller.

Signal cannot carry text on desktop, so the message is copied to the
clipboard first and WhatsApp opens as a backup shortly after.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.channel == "" {
				flags.channel = string(links.ChannelSignal)
			}

			plan, err := flags.plan(cmd.Context(), a, args)
			if err != nil {
				return err
			}

			toaster := notify.NewToaster(notify.WriterSink{W: cmd.ErrOrStderr()}, a.dispatchCfg.NoticeDuration)
			if !a.mobile && plan.Plan.Channel == links.ChannelSignal {
				toaster.Show(desktopTip, desktopTipDuration)
			}

			var (
				clip dispatch.Clipboard = systemClipboard{}
				nav  dispatch.Navigator = systemNavigator{}
			)
			if dryRun {
				clip = noClipboard{}
				nav = printNavigator{w: cmd.OutOrStdout()}
			}

			controller := dispatch.NewController(clip, nav, toaster)
			if a.events != nil {
				controller.WithRecorder(a.events)
			}
			attempt := controller.Dispatch(cmd.Context(), plan.Plan)
			controller.Wait()

			if plan.Plan.CopyText != "" && !attempt.Copied {
				fmt.Fprintln(cmd.ErrOrStderr(), "The message could not be copied; paste it from below if needed:")
				fmt.Fprintln(cmd.ErrOrStderr(), plan.Message)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the links instead of opening them")
	return cmd
}
