package cmd

import (
	"github.com/spf13/cobra"

	"github.com/homewatch/dashboard/internal/db"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			database, driver, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			return db.RunMigrations(cmd.Context(), database.DB, driver)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			database, driver, err := openDB()
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			return db.MigrateDown(cmd.Context(), database.DB, driver)
		},
	})

	return cmd
}
