package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/pitstop/pkg/commands/options"
	"tableflip.dev/pitstop/pkg/runner/contact"
	"tableflip.dev/pitstop/pkg/shop"
)

func addContact(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "contact",
		Aliases: []string{"contacts"},
		Short:   "Create, search and link the people who get texts.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addContactCreate(cmd)
	addContactSearch(cmd)
	addContactLink(cmd)

	topLevel.AddCommand(cmd)
}

func addContactCreate(topLevel *cobra.Command) {
	vo := &options.VinOptions{}
	in := shop.NewContact{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a contact, optionally linked to a vehicle.",
		Example: `
pitstop contact create --name "Ana Ruiz" --phone 5551234567
pitstop contact create --name "Ana Ruiz" --phone 5551234567 --vin 004352
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, _, err := loadService()
			if err != nil {
				return output.HandleError(err)
			}
			ctx := context.Background()
			vinID, err := resolveVin(ctx, svc, vo.Vin)
			if err != nil {
				return output.HandleError(err)
			}
			s := contact.Create{
				Service: svc,
				Contact: in,
				VinID:   vinID,
				JSON:    output.JSON,
			}
			err = s.Do(ctx)
			return output.HandleError(err)
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "Full name.")
	cmd.Flags().StringVar(&in.PhoneNumber, "phone", "", "Mobile number that receives texts.")
	cmd.Flags().StringVar(&in.Email, "email", "", "Email address.")
	options.AddVinArgs(cmd, vo)

	topLevel.AddCommand(cmd)
}

func addContactSearch(topLevel *cobra.Command) {
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find contacts by name or phone, at least 3 characters.",
		Example: `
pitstop contact search ana
pitstop contact search 555
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, _, err := loadService()
			if err != nil {
				return output.HandleError(err)
			}
			s := contact.Search{
				Service: svc,
				Query:   strings.Join(args, " "),
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

func addContactLink(topLevel *cobra.Command) {
	vo := &options.VinOptions{}

	cmd := &cobra.Command{
		Use:   "link <contact-id>",
		Short: "Link an existing contact to a vehicle.",
		Example: `
pitstop contact link 12 --vin 004352
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			id, err := parseID("contact", args[0])
			if err != nil {
				return output.HandleError(err)
			}
			if vo.Vin == "" {
				return output.HandleError(errors.New("--vin is required"))
			}
			svc, _, err := loadService()
			if err != nil {
				return output.HandleError(err)
			}
			ctx := context.Background()
			vinID, err := resolveVin(ctx, svc, vo.Vin)
			if err != nil {
				return output.HandleError(err)
			}
			s := contact.Link{
				Service:   svc,
				ContactID: id,
				VinID:     vinID,
			}
			err = s.Do(ctx)
			return output.HandleError(err)
		},
	}

	options.AddVinArgs(cmd, vo)

	topLevel.AddCommand(cmd)
}
