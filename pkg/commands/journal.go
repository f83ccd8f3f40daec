package commands

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/pitstop/pkg/commands/options"
	"tableflip.dev/pitstop/pkg/runner/journal"
)

func addJournal(topLevel *cobra.Command) {
	do := &options.DateOptions{}
	s := journal.Journal{}

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "What this terminal sent, canceled, linked and created.",
		Example: `
pitstop journal
pitstop journal --date 8/9
pitstop journal --last 1w
pitstop journal --follow
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, _, err := loadService()
			if err != nil {
				return output.HandleError(err)
			}
			if s.Day, err = do.Filter(time.Now(), svc.Location); err != nil {
				return output.HandleError(err)
			}
			ctx, cancel := interruptible()
			defer cancel()
			s.Service = svc
			s.JSON = output.JSON
			err = s.Do(ctx)
			return output.HandleError(err)
		},
	}

	options.AddDateArgs(cmd, do)
	cmd.Flags().StringVar(&s.Window, "last", "", "Report a time window grouped by action, for example 3d or 1w.")
	cmd.Flags().BoolVarP(&s.Follow, "follow", "f", false, "Keep printing new activity.")

	topLevel.AddCommand(cmd)
}
