package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"moneytrack/internal/config"
	"moneytrack/internal/core"
	"moneytrack/internal/services"
)

func newUserCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage ledger users",
	}
	cmd.AddCommand(newUserCreateCommand(opts), newUserListCommand(opts))
	return cmd
}

func newUserCreateCommand(opts *rootOptions) *cobra.Command {
	var in core.RegisterInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := opts.open()
			if err != nil {
				return err
			}
			defer repo.Close()

			users := services.NewUserService(repo).WithDefaultCurrency(config.Load().DefaultCurrency)
			u, err := users.Register(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %d <%s>\n", u.ID, u.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "login email (required)")
	cmd.Flags().StringVar(&in.Password, "password", "", "password, at least 8 characters (required)")
	cmd.Flags().StringVar(&in.FirstName, "first-name", "", "first name (required)")
	cmd.Flags().StringVar(&in.LastName, "last-name", "", "last name (required)")
	cmd.Flags().StringVar(&in.NamePrefix, "prefix", "", "name prefix such as Dr")
	cmd.Flags().StringVar(&in.TimeZone, "time-zone", "UTC", "IANA time zone for recurrence dates")
	cmd.Flags().StringVar(&in.Currency, "currency", "", "ISO 4217 display currency")
	for _, name := range []string{"email", "password", "first-name", "last-name"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newUserListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := opts.open()
			if err != nil {
				return err
			}
			defer repo.Close()

			users, err := services.NewUserService(repo).List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, u := range users {
				fmt.Fprintf(out, "%d\t%s\t%s %s\t%s\n", u.ID, u.Email, u.FirstName, u.LastName, u.TimeZone)
			}
			return nil
		},
	}
}
