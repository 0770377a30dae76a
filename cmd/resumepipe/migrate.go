package main

import (
	"github.com/spf13/cobra"

	"resume-pipeline/internal/shared/config"
	"resume-pipeline/internal/shared/storage/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		ctx := cmd.Context()

		conn, _, err := openRepo(ctx, cfg, db.DefaultMigrateOptions())
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := db.RunMigrations(ctx, conn); err != nil {
			return err
		}
		printSuccess("migrations applied")
		return nil
	},
}
