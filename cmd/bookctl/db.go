package main

import (
	"database/sql"

	"inkdrop-backend/internal/config"
	"inkdrop-backend/internal/infrastructure/database"

	"github.com/spf13/cobra"
)

func dbCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Schema migrations",
	}

	cmd.AddCommand(dbStepCmd("up", "Apply every pending migration", database.RunMigrations))
	cmd.AddCommand(dbStepCmd("down", "Roll back the latest migration", database.MigrateDown))
	cmd.AddCommand(dbStepCmd("status", "Show applied migrations", database.MigrationStatus))
	return cmd
}

func dbStepCmd(use, short string, step func(*sql.DB) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			db, err := database.OpenSQL(cfg.Database.DSN())
			if err != nil {
				return err
			}
			defer db.Close()

			return step(db)
		},
	}
}
