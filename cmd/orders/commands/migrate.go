package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// migrate: tables are created when the app starts; this reports the outcome.
func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appCtx.DB.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrated (%s)\n", appCtx.DB.Dialect)
			return nil
		},
	}
}
