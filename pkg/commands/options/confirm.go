package options

import (
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

// ConfirmOptions
type ConfirmOptions struct {
	Yes bool
}

func AddConfirmArgs(cmd *cobra.Command, o *ConfirmOptions) {
	cmd.Flags().BoolVarP(&o.Yes, "yes", "y", false,
		"Answer yes to every confirmation.")
}

// Confirm asks a yes/no question on the terminal. --yes answers for the user.
// Anything but an explicit yes, including ctrl+c, is a no.
func (o *ConfirmOptions) Confirm(prompt string) bool {
	if o.Yes {
		return true
	}
	p := promptui.Prompt{
		Label:     prompt,
		IsConfirm: true,
	}
	_, err := p.Run()
	return err == nil
}
