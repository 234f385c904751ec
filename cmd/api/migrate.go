package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/AbhignaKuchukulla/Issueflow/internal/persistence"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the postgres documents table",
	Long: `Apply the embedded SQL migrations to POSTGRES_DSN. Only needed for the
postgres storage backend; serve applies them too unless POSTGRES_RUN_MIGRATIONS=false.`,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	pg, err := persistence.NewPostgres(cmd.Context(), cfg.Postgres, cfg.Storage.DocumentName, logger)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pg.Close()

	if err := persistence.RunMigrations(cmd.Context(), pg.PoolHandle(), logger); err != nil {
		return err
	}
	logger.Info("migrations applied", zap.String("document", cfg.Storage.DocumentName))
	return nil
}
