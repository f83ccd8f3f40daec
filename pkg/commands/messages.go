package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/pitstop/pkg/commands/options"
	"tableflip.dev/pitstop/pkg/runner/messages"
	"tableflip.dev/pitstop/pkg/tabs"
)

func addMessages(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "messages",
		Aliases: []string{"msg"},
		Short:   "List outbound texts and cancel scheduled ones.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addMessagesList(cmd)
	addMessagesCancel(cmd)

	topLevel.AddCommand(cmd)
}

func addMessagesList(topLevel *cobra.Command) {
	vo := &options.VinOptions{}
	do := &options.DateOptions{}
	io := &options.IDOptions{}
	var tab tabs.Tab

	cmd := &cobra.Command{
		Use:   "list [pickup|reminder|sent|all]",
		Short: "List one category of outbound messages.",
		Long: `List one category of outbound messages.

Without a category the dashboard shows reminders and a vehicle shows pickups.
Sent lists reminders that went out, and --date matches the day they were sent.`,
		Example: `
pitstop messages list
pitstop messages list pickup --date 2025-08-09
pitstop messages list sent --since 1w
pitstop messages list --vin 004352 -k
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return cobra.MaximumNArgs(1)(cmd, args)
			}
			if len(args) == 1 {
				var err error
				tab, err = tabs.ParseTab(args[0])
				return err
			}
			return nil
		},
		ValidArgs: tabCompletions(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, _, err := loadService()
			if err != nil {
				return output.HandleError(err)
			}
			ctx := context.Background()
			date, err := do.Filter(time.Now(), svc.Location)
			if err != nil {
				return output.HandleError(err)
			}
			vinID, err := resolveVin(ctx, svc, vo.Vin)
			if err != nil {
				return output.HandleError(err)
			}
			s := messages.List{
				Service: svc,
				Scope:   tabs.ForVin(vinID),
				Tab:     tab,
				Date:    date,
				ShowID:  io.ShowID,
				JSON:    output.JSON,
			}
			err = s.Do(ctx)
			return output.HandleError(err)
		},
	}

	options.AddVinArgs(cmd, vo)
	options.AddDateArgs(cmd, do)
	options.AddSinceArgs(cmd, do)
	options.AddShowIDArgs(cmd, io)

	topLevel.AddCommand(cmd)
}

func addMessagesCancel(topLevel *cobra.Command) {
	co := &options.ConfirmOptions{}

	cmd := &cobra.Command{
		Use:   "cancel <message-id>",
		Short: "Cancel a scheduled message that has not been sent.",
		Example: `
pitstop messages list -k
pitstop messages cancel 118
pitstop messages cancel 118 --yes
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			id, err := parseID("message", args[0])
			if err != nil {
				return output.HandleError(err)
			}
			svc, _, err := loadService()
			if err != nil {
				return output.HandleError(err)
			}
			s := messages.Cancel{
				Service: svc,
				ID:      id,
				Confirm: co.Confirm,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddConfirmArgs(cmd, co)

	topLevel.AddCommand(cmd)
}
