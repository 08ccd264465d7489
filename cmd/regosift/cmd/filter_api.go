package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/solatis/regosift/internal/core/api"
	"github.com/solatis/regosift/internal/core/auth"
	"github.com/solatis/regosift/internal/core/config"
	"github.com/solatis/regosift/internal/core/db"
	"github.com/solatis/regosift/internal/core/server"
	"github.com/spf13/cobra"
)

const Version = "0.1.0"

var filterAPICmd = &cobra.Command{
	Use:   "filter-api",
	Short: "Start HTTP filter API service",
	RunE:  runFilterAPI,
}

func init() {
	rootCmd.AddCommand(filterAPICmd)
	filterAPICmd.Flags().String("host", "0.0.0.0", "HTTP server host")
	filterAPICmd.Flags().Int("port", 8072, "HTTP server port")
}

func runFilterAPI(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("host") {
		host, _ := cmd.Flags().GetString("host")
		cfg.Host = host
	}
	if cmd.Flags().Changed("port") {
		port, _ := cmd.Flags().GetInt("port")
		cfg.Port = port
	}

	if dbURL == "" {
		return fmt.Errorf("--db-url required")
	}
	database, err := db.Open(dbURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	// Refuse to start against an unmigrated database
	statuses, err := db.MigrateStatus(database)
	if err != nil {
		return fmt.Errorf("failed to check migrations: %w", err)
	}
	for _, status := range statuses {
		if !status.Applied {
			return fmt.Errorf("migration %s not applied - run 'regosift migrate' first", status.ID)
		}
	}

	queries, err := db.LoadQueries(database)
	if err != nil {
		return fmt.Errorf("failed to load queries: %w", err)
	}

	secrets, err := config.HMACSecrets()
	if err != nil {
		return fmt.Errorf("failed to load HMAC secrets: %w", err)
	}
	if len(secrets) == 0 {
		return fmt.Errorf("no HMAC secrets configured (set RS_HMAC_SECRET environment variable)")
	}

	authenticator := auth.NewAuthenticator(secrets, queries)

	service, err := api.NewFilterAPIService(queries, cfg)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	httpServer := server.New(service.Handler(authenticator), cfg.Host, cfg.Port, cfg.RequestTimeout)

	log.Info().Str("version", Version).Str("host", cfg.Host).Int("port", cfg.Port).Msg("starting regosift filter API")
	errChan := make(chan error, 1)
	go func() {
		errChan <- httpServer.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case <-sigChan:
		return httpServer.Shutdown(ctx)
	}
}
