package commands

import (
	"fmt"
	"os"

	"github.com/cuteblog/internal/config"
	"github.com/cuteblog/internal/db"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	// Global flags
	envFile string
)

// rootCmd represents the base command; without a subcommand it serves the blog.
var rootCmd = &cobra.Command{
	Use:   "cuteblog",
	Short: "CuteBlog - a small server-rendered blog",
	Long: `CuteBlog serves a server-rendered blog with reader accounts, comments,
likes and an author area for drafting and publishing posts.

Configuration comes from environment variables, optionally loaded from a .env file.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadDotEnv(envFile)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional dotenv file loaded before reading the environment")
}

// openStore 打开数据库并完成迁移。
func openStore(cfg config.AppConfig) (*gorm.DB, error) {
	gdb, err := db.Open(db.Options{
		Driver:   cfg.DatabaseDriver,
		DSN:      cfg.DatabaseTarget(),
		LogLevel: db.ParseLogLevel(cfg.DatabaseLogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Migrate(gdb); err != nil {
		_ = db.Close(gdb)
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return gdb, nil
}
