package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/Arnur12345/quizmaker-task/internal/config"
	pgmigrations "github.com/Arnur12345/quizmaker-task/internal/infra/postgres/migrations"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

// NewMigrateCmd manages the quiz and result tables. The bare command applies
// pending migrations; `migrate rollback` undoes the last applied group.
func NewMigrateCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd.Context(), *configPath, func(ctx context.Context, m *migrate.Migrator) error {
				group, err := m.Migrate(ctx)
				if err != nil {
					return err
				}
				if group.IsZero() {
					log.Printf("database is up to date")
					return nil
				}
				log.Printf("migrated to %s", group)
				return nil
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "rollback",
		Short: "Roll back the last migration group",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd.Context(), *configPath, func(ctx context.Context, m *migrate.Migrator) error {
				group, err := m.Rollback(ctx)
				if err != nil {
					return err
				}
				if group.IsZero() {
					log.Printf("nothing to roll back")
					return nil
				}
				log.Printf("rolled back %s", group)
				return nil
			})
		},
	})

	return cmd
}

func withMigrator(ctx context.Context, configPath string, fn func(context.Context, *migrate.Migrator) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	return withMigratorConfig(ctx, cfg, fn)
}

func withMigratorConfig(ctx context.Context, cfg config.Config, fn func(context.Context, *migrate.Migrator) error) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return err
	}
	return fn(ctx, migrator)
}
