package commands

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/pitstop/pkg/commands/options"
	"tableflip.dev/pitstop/pkg/runner/costs"
)

func addCosts(topLevel *cobra.Command) {
	do := &options.DateOptions{}
	monthly := false

	cmd := &cobra.Command{
		Use:   "costs",
		Short: "Show what texting has cost.",
		Example: `
pitstop costs
pitstop costs --date 2025-08-09
pitstop costs --monthly
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			if monthly && do.Date != "" {
				return output.HandleError(errors.New("use --date or --monthly, not both"))
			}
			svc, _, err := loadService()
			if err != nil {
				return output.HandleError(err)
			}
			date, err := do.Filter(time.Now(), svc.Location)
			if err != nil {
				return output.HandleError(err)
			}
			s := costs.Costs{
				Service: svc,
				Date:    date,
				Monthly: monthly,
				JSON:    output.JSON,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddDateArgs(cmd, do)
	cmd.Flags().BoolVar(&monthly, "monthly", false, "Month by month for the current year.")

	topLevel.AddCommand(cmd)
}
