package commands

import (
	"fmt"
	"os"

	"github.com/sangkips/dukahub-api/internal/config"
	"github.com/sangkips/dukahub-api/internal/infrastructure/database"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	// Global flags
	dsn     string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Database maintenance for dukahub-api",
	Long: `Database maintenance for dukahub-api.

Connection settings come from the same DB_* environment variables (or .env)
as the API server unless --dsn is given.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "Postgres DSN, overrides DB_* settings")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log SQL statements")

	rootCmd.AddCommand(upCmd, seedCmd, backfillCustomersCmd, pruneIdempotencyCmd)
}

func openDB() (*gorm.DB, error) {
	if dsn != "" {
		return database.Open(dsn, verbose)
	}
	cfg := config.Load()
	return database.NewPostgresDB(&cfg.Database, verbose)
}
