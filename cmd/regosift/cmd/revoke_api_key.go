package cmd

import (
	"fmt"
	"time"

	"github.com/solatis/regosift/internal/core/db"
	"github.com/spf13/cobra"
)

var revokeAPIKeyCmd = &cobra.Command{
	Use:   "revoke-api-key <api-key-id>",
	Short: "Revoke an API key",
	Long: `Revoke an API key by its api_key_id. Revocation takes effect on the next
authentication attempt; the key row is kept for audit purposes.`,
	Args: cobra.ExactArgs(1),
	RunE: runRevokeAPIKey,
}

func init() {
	rootCmd.AddCommand(revokeAPIKeyCmd)
}

func runRevokeAPIKey(cmd *cobra.Command, args []string) error {
	if dbURL == "" {
		return fmt.Errorf("--db-url required")
	}

	database, err := db.Open(dbURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	queries, err := db.LoadQueries(database)
	if err != nil {
		return fmt.Errorf("failed to load queries: %w", err)
	}

	result, err := queries.Exec("revoke-api-key", time.Now().UTC(), args[0])
	if err != nil {
		return fmt.Errorf("failed to revoke key: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("no API key found with id %s", args[0])
	}

	fmt.Fprintf(cmd.OutOrStdout(), "revoked %s\n", args[0])
	return nil
}
