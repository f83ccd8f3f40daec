package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/pitstop/pkg/commands/options"
	"tableflip.dev/pitstop/pkg/runner/service"
	"tableflip.dev/pitstop/pkg/shop"
	"tableflip.dev/pitstop/pkg/timeutil"
)

func addServiceRecord(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "service",
		Aliases: []string{"record"},
		Short:   "Record oil services and show them.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addServiceCreate(cmd)
	addServiceShow(cmd)

	topLevel.AddCommand(cmd)
}

func addServiceCreate(topLevel *cobra.Command) {
	vo := &options.VinOptions{}
	in := shop.NewServiceRecord{}
	var serviceDate, nextDate string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Record an oil service for a vehicle.",
		Example: `
pitstop service create --vin 004352 --mileage 40000 --oil-type "full synthetic" \
  --viscosity 0W-20 --next-mileage 45000 --next-date 2025-11-09
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			if vo.Vin == "" {
				return output.HandleError(errors.New("--vin is required"))
			}
			svc, _, err := loadService()
			if err != nil {
				return output.HandleError(err)
			}
			ctx := context.Background()
			if in.VinID, err = resolveVin(ctx, svc, vo.Vin); err != nil {
				return output.HandleError(err)
			}
			if serviceDate != "" {
				d, err := parseDay("--date", serviceDate, svc.Location)
				if err != nil {
					return output.HandleError(err)
				}
				in.ServiceDate = &d
			}
			if in.NextServiceDateDue, err = parseDay("--next-date", nextDate, svc.Location); err != nil {
				return output.HandleError(err)
			}
			s := service.Create{
				Service: svc,
				Record:  in,
				JSON:    output.JSON,
			}
			err = s.Do(ctx)
			return output.HandleError(err)
		},
	}

	options.AddVinArgs(cmd, vo)
	cmd.Flags().StringVar(&serviceDate, "date", "", "Day of the service as YYYY-MM-DD. Defaults to today on the backend.")
	cmd.Flags().IntVar(&in.MileageAtService, "mileage", 0, "Odometer reading at the service.")
	cmd.Flags().StringVar(&in.OilType, "oil-type", "", "Oil type used.")
	cmd.Flags().StringVar(&in.OilViscosity, "viscosity", "", "Oil viscosity used.")
	cmd.Flags().IntVar(&in.NextServiceMileageDue, "next-mileage", 0, "Mileage the next service is due at.")
	cmd.Flags().StringVar(&nextDate, "next-date", "", "Day the next service is due as YYYY-MM-DD.")
	cmd.Flags().StringVar(&in.Notes, "notes", "", "Free text notes.")

	_ = cmd.RegisterFlagCompletionFunc("oil-type", fixedCompletions(oilTypeCompletions()))
	_ = cmd.RegisterFlagCompletionFunc("viscosity", fixedCompletions(viscosityCompletions()))

	topLevel.AddCommand(cmd)
}

func parseDay(flag, s string, loc *time.Location) (shop.Date, error) {
	t, ok, err := timeutil.LocalDateFromYMD(s, loc)
	if err != nil {
		return shop.Date{}, fmt.Errorf("%s: %w", flag, err)
	}
	if !ok {
		return shop.Date{}, fmt.Errorf("%s is required", flag)
	}
	return shop.NewDate(t), nil
}

func addServiceShow(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "show <service-record-id>",
		Short: "Show a service record, its vehicle contacts and pickup status.",
		Example: `
pitstop service show 42
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
			s := service.Show{
				Service: svc,
				ID:      id,
				JSON:    output.JSON,
			}
			err = s.Do(context.Background())
			return output.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}
