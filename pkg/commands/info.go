package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/pitstop/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the configuration and where the journal is stored.",
		Example: `
pitstop info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, cfg, err := loadService()
			if err != nil {
				return output.HandleError(err)
			}
			s := info.Info{
				Config: cfg,
			}
			if j, err := svc.Journal(); err == nil {
				s.Journal = j
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}
