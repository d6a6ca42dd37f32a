package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/siteoptz/siteoptz/internal/config"
	"github.com/siteoptz/siteoptz/internal/db"
	"github.com/siteoptz/siteoptz/internal/migrations"
	"github.com/siteoptz/siteoptz/internal/seed"
	schema "github.com/siteoptz/siteoptz/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Long: `Apply every pending migration embedded in the binary to DB_PATH.

Examples:
  server migrate
  DB_PATH=/var/lib/siteoptz/app.db server migrate`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the admin user and default guides",
	Long: `Insert the admin user from ADMIN_EMAIL/ADMIN_PASSWORD and the default
downloadable guides. Existing rows are left untouched, so seeding twice is safe.`,
	Args: cobra.NoArgs,
	RunE: runSeed,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	ctx := cmd.Context()
	if err := migrations.UpFS(ctx, database, schema.FS); err != nil {
		return err
	}

	v, err := migrations.Version(ctx, database, schema.FS)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d\n", v)
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	stats, err := prepareDatabase(cmd.Context(), database, cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seed complete: %d inserted\n", stats.Inserts)
	return nil
}

// prepareDatabase migrates the schema and applies the idempotent seed.
func prepareDatabase(ctx context.Context, database *sql.DB, cfg config.Config) (seed.Stats, error) {
	if err := migrations.UpFS(ctx, database, schema.FS); err != nil {
		return seed.Stats{}, fmt.Errorf("failed to run database migrations: %w", err)
	}
	stats, err := seed.Run(database, seed.Config{
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
	})
	if err != nil {
		return seed.Stats{}, fmt.Errorf("failed to seed database: %w", err)
	}
	return stats, nil
}
