package options

import (
	"github.com/spf13/cobra"
)

// IDOptions
type IDOptions struct {
	ShowID bool
}

func AddShowIDArgs(cmd *cobra.Command, o *IDOptions) {
	cmd.Flags().BoolVarP(&o.ShowID, "show-id", "k", false,
		"Show the backend id of each message, contact or record.")
}

// VinOptions scopes a command to one vehicle.
type VinOptions struct {
	Vin string
}

func AddVinArgs(cmd *cobra.Command, o *VinOptions) {
	cmd.Flags().StringVar(&o.Vin, "vin", "",
		"Scope to one vehicle by its 17-character VIN or last 6 characters.")
}
