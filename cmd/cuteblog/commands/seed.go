package commands

import (
	"errors"
	"fmt"

	"github.com/cuteblog/internal/config"
	"github.com/cuteblog/internal/db"
	"github.com/cuteblog/internal/service"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill an empty blog with demo posts",
	Long: `Create a few demo posts and comments owned by the first admin account.

The command does nothing when posts already exist. Create an admin first with
"cuteblog user create-admin".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed(config.Load())
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cfg config.AppConfig) error {
	gdb, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	var admin db.User
	if err := gdb.Where("role = ?", db.RoleAdmin).Order("id").First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("no admin account found, run \"cuteblog user create-admin\" first")
		}
		return fmt.Errorf("failed to load admin: %w", err)
	}

	created, err := service.SeedDemoContent(service.NewPostService(gdb), service.NewEngagementService(gdb), admin.ID)
	if err != nil {
		return err
	}
	if created == 0 {
		fmt.Println("posts already exist, nothing to do")
		return nil
	}
	fmt.Printf("created %d demo posts for %s\n", created, admin.Username)
	return nil
}
