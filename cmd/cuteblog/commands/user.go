package commands

import (
	"fmt"

	"github.com/cuteblog/internal/config"
	"github.com/cuteblog/internal/db"
	"github.com/cuteblog/internal/service"
	"github.com/spf13/cobra"
)

var (
	// create-admin flags
	adminUsername string
	adminEmail    string
	adminPassword string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create the admin account when none exists",
	Long: `Create an admin account. Flags fall back to ADMIN_USERNAME, ADMIN_EMAIL and ADMIN_PASSWORD.

Nothing is changed when an admin already exists.

Examples:
  cuteblog user create-admin --username admin --email admin@example.com --password 'secret-pass'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		return runCreateAdmin(cfg, firstNonEmpty(adminUsername, cfg.AdminUsername),
			firstNonEmpty(adminEmail, cfg.AdminEmail), firstNonEmpty(adminPassword, cfg.AdminPassword))
	},
}

var setRoleCmd = &cobra.Command{
	Use:   "set-role <username> <admin|author|reader>",
	Short: "Change the role of an account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		role, ok := db.ParseRole(args[1])
		if !ok {
			return fmt.Errorf("unknown role %q", args[1])
		}
		return runSetRole(config.Load(), args[0], role)
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(createAdminCmd, setRoleCmd)

	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "Admin username")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Admin email")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Admin password (at least 8 characters)")
}

func runCreateAdmin(cfg config.AppConfig, username, email, password string) error {
	if username == "" || email == "" || password == "" {
		return fmt.Errorf("username, email and password are required")
	}

	gdb, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	auth := service.NewAuthService(gdb, service.NewCredentials(cfg.BcryptCost))
	admin, created, err := auth.EnsureAdmin(username, email, password)
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	if !created {
		fmt.Printf("admin %q already exists, nothing to do\n", admin.Username)
		return nil
	}
	fmt.Printf("created admin %q (id %d)\n", admin.Username, admin.ID)
	return nil
}

func runSetRole(cfg config.AppConfig, username string, role db.Role) error {
	gdb, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	auth := service.NewAuthService(gdb, service.NewCredentials(cfg.BcryptCost))
	if err := auth.SetRole(username, role); err != nil {
		return fmt.Errorf("failed to set role: %w", err)
	}
	fmt.Printf("%s is now %s\n", username, role)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
