package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/pitstop/pkg/commands/options"
	"tableflip.dev/pitstop/pkg/runner/vin"
	"tableflip.dev/pitstop/pkg/shop"
)

func addVin(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "vin",
		Short: "Look up, decode and register vehicles.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addVinGet(cmd)
	addVinDecode(cmd)
	addVinCreate(cmd)

	topLevel.AddCommand(cmd)
}

func addVinGet(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "get <vin|last6>",
		Short: "Show a vehicle with its contacts and service history.",
		Example: `
pitstop vin get 1HGCM82633A004352
pitstop vin get 004352
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, _, err := loadService()
			if err != nil {
				return output.HandleError(err)
			}
			s := vin.Get{
				Service: svc,
				Query:   args[0],
				ShowID:  io.ShowID,
				JSON:    output.JSON,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	options.AddShowIDArgs(cmd, io)

	topLevel.AddCommand(cmd)
}

func addVinDecode(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "decode <vin>",
		Short: "Ask the decoder for make, model, year and trim.",
		Example: `
pitstop vin decode 1HGCM82633A004352
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, _, err := loadService()
			if err != nil {
				return output.HandleError(err)
			}
			s := vin.Decode{
				Service: svc,
				Vin:     args[0],
				JSON:    output.JSON,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}

func addVinCreate(topLevel *cobra.Command) {
	in := shop.NewVin{}
	decode := false

	cmd := &cobra.Command{
		Use:   "create <vin>",
		Short: "Register a vehicle.",
		Example: `
pitstop vin create 1HGCM82633A004352 --decode
pitstop vin create 1HGCM82633A004352 --make Honda --model Accord --year 2003
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, _, err := loadService()
			if err != nil {
				return output.HandleError(err)
			}
			in.Vin = args[0]
			s := vin.Create{
				Service: svc,
				Vin:     in,
				Decode:  decode,
				JSON:    output.JSON,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	cmd.Flags().StringVar(&in.Make, "make", "", "Vehicle make.")
	cmd.Flags().StringVar(&in.Model, "model", "", "Vehicle model.")
	cmd.Flags().IntVar(&in.Year, "year", 0, "Model year.")
	cmd.Flags().StringVar(&in.Trim, "trim", "", "Trim level.")
	cmd.Flags().StringVar(&in.Plate, "plate", "", "License plate.")
	cmd.Flags().BoolVar(&decode, "decode", false, "Fill blank make, model, year and trim from the decoder.")

	topLevel.AddCommand(cmd)
}
