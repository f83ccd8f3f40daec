package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/pitstop/pkg/commands/options"
	teaui "tableflip.dev/pitstop/pkg/runner/tea"
	"tableflip.dev/pitstop/pkg/tabs"
)

func addDashboard(topLevel *cobra.Command) {
	vo := &options.VinOptions{}

	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"ui"},
		Short:   "Open the message dashboard in the terminal.",
		Example: `
pitstop dashboard
pitstop dashboard --vin 004352
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, _, err := loadService()
			if err != nil {
				return output.HandleError(err)
			}
			ctx := context.Background()
			vinID, err := resolveVin(ctx, svc, vo.Vin)
			if err != nil {
				return output.HandleError(err)
			}
			d := teaui.Dashboard{
				Service: svc,
				Scope:   tabs.ForVin(vinID),
			}
			return d.Do(ctx)
		},
	}

	options.AddVinArgs(cmd, vo)

	topLevel.AddCommand(cmd)
}
