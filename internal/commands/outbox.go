package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newOutboxCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outbox",
		Short: "Inspect the ledger event outbox",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "stats",
			Short: "Show outbox counts by status",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				repo, err := opts.open()
				if err != nil {
					return err
				}
				defer repo.Close()

				stats, err := repo.OutboxStats(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "pending %d\nprocessing %d\ncompleted %d\nfailed %d\n",
					stats.Pending, stats.Processing, stats.Completed, stats.Failed)
				return nil
			},
		},
		&cobra.Command{
			Use:   "retry",
			Short: "Return failed events to pending",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				repo, err := opts.open()
				if err != nil {
					return err
				}
				defer repo.Close()

				n, err := repo.RetryFailedOutbox(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "requeued %d events\n", n)
				return nil
			},
		},
	)
	return cmd
}
