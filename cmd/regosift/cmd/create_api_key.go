package cmd

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/solatis/regosift/internal/core/auth"
	"github.com/solatis/regosift/internal/core/config"
	"github.com/solatis/regosift/internal/core/db"
	"github.com/spf13/cobra"
)

var createKeyTenant string

var createAPIKeyCmd = &cobra.Command{
	Use:   "create-api-key",
	Short: "Generate an API key for a tenant",
	Long: `Generate an API key under the configured HMAC secret and store its hash.
The key is printed once and cannot be recovered afterwards; only the
HMAC-SHA256 hash is persisted.`,
	RunE: runCreateAPIKey,
}

func init() {
	rootCmd.AddCommand(createAPIKeyCmd)
	createAPIKeyCmd.Flags().StringVar(&createKeyTenant, "tenant", "", "tenant ID the key authenticates as")
	createAPIKeyCmd.MarkFlagRequired("tenant")
}

func runCreateAPIKey(cmd *cobra.Command, args []string) error {
	if dbURL == "" {
		return fmt.Errorf("--db-url required")
	}

	secrets, err := config.HMACSecrets()
	if err != nil {
		return fmt.Errorf("failed to load HMAC secrets: %w", err)
	}
	if len(secrets) == 0 {
		return fmt.Errorf("no HMAC secrets configured (set RS_HMAC_SECRET environment variable)")
	}

	// Any configured secret works; pick deterministically so rotation
	// setups mint against a stable secret_id
	secretID := ""
	for id := range secrets {
		if secretID == "" || id < secretID {
			secretID = id
		}
	}
	secret := secrets[secretID]

	var random [32]byte
	if _, err := rand.Read(random[:]); err != nil {
		return fmt.Errorf("failed to generate key material: %w", err)
	}

	apiKey := auth.FormatAPIKey(secretID, hex.EncodeToString(random[:]))
	keyHash := auth.ComputeHMAC(secret, apiKey)

	database, err := db.Open(dbURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	queries, err := db.LoadQueries(database)
	if err != nil {
		return fmt.Errorf("failed to load queries: %w", err)
	}

	apiKeyID := uuid.Must(uuid.NewV7()).String()
	_, err = queries.Exec("insert-api-key", apiKeyID, createKeyTenant, keyHash, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to store key: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "api_key_id: %s\ntenant_id:  %s\napi_key:    %s\n", apiKeyID, createKeyTenant, apiKey)
	return nil
}
