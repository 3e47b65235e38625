package main

import (
	"context"
	"fmt"
	"os"

	"grooming-waitlist/internal/domain/staff"
	"grooming-waitlist/internal/usecase/commands"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func newStaffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staff",
		Short: "Manage staff accounts",
	}
	cmd.AddCommand(newStaffCreateCmd())
	return cmd
}

func newStaffCreateCmd() *cobra.Command {
	var in commands.CreateStaffInput

	c := &cobra.Command{
		Use:   "create",
		Short: "Create a staff account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var auth commands.AuthCommands
			return runWith(cmd.Context(), fx.Populate(&auth), func(ctx context.Context) error {
				id, err := auth.CreateStaff(ctx, in)
				if err != nil {
					return err
				}
				fmt.Fprintf(os.Stdout, "created %s %q (%s)\n", in.Role, in.Email, id)
				return nil
			})
		},
	}

	c.Flags().StringVar(&in.Email, "email", "", "login email")
	c.Flags().StringVar(&in.DisplayName, "name", "", "display name")
	c.Flags().StringVar(&in.Password, "password", "", "password (min 8 characters)")
	c.Flags().StringVar(&in.Role, "role", string(staff.RoleReceptionist), "receptionist, groomer or manager")
	_ = c.MarkFlagRequired("email")
	_ = c.MarkFlagRequired("password")
	return c
}
