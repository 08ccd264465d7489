package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/solatis/regosift/internal/core/db"
	"github.com/spf13/cobra"
)

var migrateStatus bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().BoolVar(&migrateStatus, "status", false, "show migration status without applying")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	if dbURL == "" {
		return fmt.Errorf("--db-url required")
	}

	database, err := db.Open(dbURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	if migrateStatus {
		statuses, err := db.MigrateStatus(database)
		if err != nil {
			return fmt.Errorf("failed to get migration status: %w", err)
		}
		for _, s := range statuses {
			state := "pending"
			if s.Applied {
				state = fmt.Sprintf("applied at %s (%dms)", s.AppliedAt.Format("2006-01-02 15:04:05"), s.ExecutionMs)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-40s %s\n", s.ID, state)
		}
		return nil
	}

	if err := db.MigrateUp(database); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Info().Msg("migrations applied")
	return nil
}
