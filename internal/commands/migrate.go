package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"moneytrack/internal/storage"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	var statusOnly bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !statusOnly {
				if err := storage.RunMigrations(opts.dbPath); err != nil {
					return err
				}
			}
			version, dirty, err := storage.MigrationVersion(opts.dbPath)
			if err != nil {
				return err
			}
			state := "clean"
			if dirty {
				state = "dirty"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (%s)\n", version, state)
			return nil
		},
	}
	cmd.Flags().BoolVar(&statusOnly, "status", false, "only report the applied version")
	return cmd
}
