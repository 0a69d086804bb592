package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ygyuri/foodbank-management-system/internal/repository"
	"github.com/ygyuri/foodbank-management-system/internal/service"
)

var (
	adminName     string
	adminEmail    string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an approved admin account",
	Example: `  fbctl create-admin --name "Ops" --email ops@foodbank.org --password 'change-me-now'
  FBCTL_ADMIN_PASSWORD=... fbctl create-admin --name Ops --email ops@foodbank.org`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if adminPassword == "" {
			adminPassword = os.Getenv("FBCTL_ADMIN_PASSWORD")
		}

		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		repo := repository.NewRepository(e.db)
		user, err := service.CreateAdmin(cmd.Context(), repo, adminName, adminEmail, adminPassword, e.cfg.Auth.BcryptCost, e.logger)
		if err != nil {
			return fmt.Errorf("create admin: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "admin %s created (%s)\n", user.Email, user.ID)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminName, "name", "", "display name")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "login email")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "password, or set FBCTL_ADMIN_PASSWORD")
	_ = createAdminCmd.MarkFlagRequired("name")
	_ = createAdminCmd.MarkFlagRequired("email")
}
