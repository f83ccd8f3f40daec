package commands

import (
	"os"

	"github.com/spf13/cobra"

	"tableflip.dev/pitstop/pkg/shop"
	"tableflip.dev/pitstop/pkg/tabs"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(pitstop completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(pitstop completion)
`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = topLevel.GenBashCompletion(os.Stdout)
		},
	}

	topLevel.AddCommand(cmd)
}

func tabCompletions() []string {
	out := make([]string, 0, len(tabs.Tabs)+1)
	for _, t := range tabs.Tabs {
		out = append(out, string(t))
	}
	return append(out, string(tabs.All))
}

func fixedCompletions(values []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

func oilTypeCompletions() []string {
	return append([]string(nil), shop.OilTypes...)
}

func viscosityCompletions() []string {
	return append([]string(nil), shop.Viscosities...)
}
