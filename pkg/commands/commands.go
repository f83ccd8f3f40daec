package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/pitstop/pkg/commands/options"
)

var (
	output = &options.OutputOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "pitstop",
		Short: options.Wrap80("Pickup and reminder texting for the shop, on the command line."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	options.AddOutputArg(cmd, output)

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addDashboard(topLevel)
	addPickup(topLevel)
	addMessages(topLevel)
	addInbound(topLevel)
	addUnread(topLevel)
	addVin(topLevel)
	addServiceRecord(topLevel)
	addContact(topLevel)
	addCosts(topLevel)
	addJournal(topLevel)
	addInfo(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}
