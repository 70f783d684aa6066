// Package commands implements the ledgerctl administration CLI.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"moneytrack/internal/config"
	"moneytrack/internal/storage"
)

type rootOptions struct {
	dbPath string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Administer a moneytrack ledger database",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.dbPath, "db", config.Load().SQLiteDBPath, "path to the SQLite ledger database")

	rootCmd.AddCommand(
		newMigrateCommand(opts),
		newUserCommand(opts),
		newRecurrenceCommand(opts),
		newExportCommand(opts),
		newOutboxCommand(opts),
	)
	return rootCmd
}

// open returns the migrated ledger store at the --db path.
func (o *rootOptions) open() (*storage.SQLiteRepository, error) {
	repo, err := storage.NewSQLiteRepository(o.dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", o.dbPath, err)
	}
	return repo, nil
}
