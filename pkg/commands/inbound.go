package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/pitstop/pkg/runner/inbound"
)

func addInbound(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "inbound",
		Short: "Read customer replies. Marks them all read.",
		Example: `
pitstop inbound
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, _, err := loadService()
			if err != nil {
				return output.HandleError(err)
			}
			s := inbound.Inbound{
				Service: svc,
				JSON:    output.JSON,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}

func addUnread(topLevel *cobra.Command) {
	watch := false

	cmd := &cobra.Command{
		Use:   "unread",
		Short: "Count unread customer replies.",
		Example: `
pitstop unread
pitstop unread --watch
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, _, err := loadService()
			if err != nil {
				return output.HandleError(err)
			}
			ctx, cancel := interruptible()
			defer cancel()
			s := inbound.Unread{
				Service: svc,
				Watch:   watch,
				JSON:    output.JSON,
			}
			err = s.Do(ctx)
			return output.HandleError(err)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep polling and print every change.")

	topLevel.AddCommand(cmd)
}
