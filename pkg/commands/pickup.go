package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/pitstop/pkg/commands/options"
	"tableflip.dev/pitstop/pkg/runner/pickup"
	teaui "tableflip.dev/pitstop/pkg/runner/tea"
)

func addPickup(topLevel *cobra.Command) {
	co := &options.ConfirmOptions{}
	i := &options.InteractiveOptions{}
	s := pickup.Pickup{}

	cmd := &cobra.Command{
		Use:   "pickup <service-record-id>",
		Short: "Tell customers their vehicle is ready.",
		Long: `Tell customers their vehicle is ready.

With no action the service record and the drafted text for each contact are
printed. --contact sends to one person, --all sends to every linked contact and
--skip closes the record without texting.`,
		Example: `
pitstop pickup 42
pitstop pickup 42 --contact 9
pitstop pickup 42 --contact 9 --message "Ready at 5, keys at the desk."
pitstop pickup 42 --all --yes
pitstop pickup 42 --skip
pitstop pickup 42 -i
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			id, err := parseID("service record", args[0])
			if err != nil {
				return output.HandleError(err)
			}
			svc, _, err := loadService()
			if err != nil {
				return output.HandleError(err)
			}
			ctx := context.Background()
			if i.Interactive {
				t := teaui.Pickup{Service: svc, ID: id}
				return t.Do(ctx)
			}
			s.Service = svc
			s.ID = id
			s.Confirm = co.Confirm
			if err = s.Do(ctx); err != nil {
				return output.HandleError(err)
			}
			if s.Handoff != nil && s.Handoff.VinString != "" {
				fmt.Printf("Vehicle history: pitstop messages list --vin %s\n", s.Handoff.VinString)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&s.ContactID, "contact", 0, "Send the pickup text to this contact id.")
	cmd.Flags().BoolVar(&s.All, "all", false, "Send the pickup text to every linked contact.")
	cmd.Flags().BoolVar(&s.Skip, "skip", false, "Close the record without sending.")
	cmd.Flags().StringVar(&s.Message, "message", "", "Replace the drafted text when sending to one contact.")
	options.AddConfirmArgs(cmd, co)
	options.InteractiveArgs(cmd, i)

	topLevel.AddCommand(cmd)
}
