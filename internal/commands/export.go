package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"moneytrack/internal/core"
	"moneytrack/internal/export"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	var (
		userID   int64
		from, to string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a user's transactions to an Excel workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var f core.TransactionFilter
			var err error
			if f.From, err = core.ParseDate("from", from); err != nil {
				return err
			}
			if f.To, err = core.ParseDate("to", to); err != nil {
				return err
			}

			repo, err := opts.open()
			if err != nil {
				return err
			}
			defer repo.Close()

			if _, err := repo.GetUser(cmd.Context(), userID); err != nil {
				return fmt.Errorf("user %d: %w", userID, err)
			}

			file, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			n, err := export.WriteTransactions(cmd.Context(), file, repo, userID, f)
			if cerr := file.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				_ = os.Remove(output)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d transactions to %s\n", n, output)
			return nil
		},
	}
	cmd.Flags().Int64Var(&userID, "user-id", 0, "owner of the exported transactions (required)")
	cmd.Flags().StringVar(&from, "from", "", "first date, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last date, YYYY-MM-DD")
	cmd.Flags().StringVarP(&output, "output", "o", "transactions.xlsx", "workbook path")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}
