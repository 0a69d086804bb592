package commands

import (
	"github.com/spf13/cobra"

	"github.com/ygyuri/foodbank-management-system/pkg/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		sqlDB, err := e.db.DB()
		if err != nil {
			return err
		}
		return database.RunMigrations(sqlDB, e.logger)
	},
}
