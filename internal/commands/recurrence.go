package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"moneytrack/internal/config"
	"moneytrack/internal/services"
)

func newRecurrenceCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recurrence",
		Short: "Budget resets and subscription posting",
	}
	cmd.AddCommand(newRecurrenceRunCommand(opts))
	return cmd
}

func newRecurrenceRunCommand(opts *rootOptions) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one recurrence pass now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			if at != "" {
				t, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("parsing --at: %w", err)
				}
				now = t
			}

			repo, err := opts.open()
			if err != nil {
				return err
			}
			defer repo.Close()

			processor := services.NewRecurringProcessor(repo, config.Load().Calendar())
			summary, err := processor.RunDue(cmd.Context(), now)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d budgets reset, %d subscriptions posted, %d failed\n",
				summary.Today, summary.BudgetsReset, summary.SubscriptionsPosted, summary.Failed)
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "RFC 3339 instant to run the pass as of (default now)")
	return cmd
}
