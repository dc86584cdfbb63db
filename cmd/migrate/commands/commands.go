package commands

import (
	"fmt"

	"github.com/sangkips/dukahub-api/internal/application/service"
	"github.com/sangkips/dukahub-api/internal/infrastructure/database"
	"github.com/sangkips/dukahub-api/internal/infrastructure/repository"
	"github.com/sangkips/dukahub-api/internal/infrastructure/session"
	"github.com/spf13/cobra"
)

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Create or update the schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		return database.AutoMigrate(db)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the ADMIN_EMAIL owner with a demo business",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		return database.SeedDemoData(db)
	},
}

var backfillCustomersCmd = &cobra.Command{
	Use:   "backfill-customers",
	Short: "Ensure every business has its Walk-in and Delivery customers",
	Long: `Ensure every business has its Walk-in and Delivery customers.

Safe to run repeatedly: existing default customers are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}

		businesses := service.NewBusinessService(
			repository.NewBusinessRepository(db),
			repository.NewCustomerRepository(db),
			repository.NewSettingsRepository(db),
			session.NewMemoryBus(),
		)
		n, err := businesses.BackfillDefaultCustomers(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "checked %d businesses\n", n)
		return nil
	},
}

var pruneIdempotencyCmd = &cobra.Command{
	Use:   "prune-idempotency",
	Short: "Delete expired idempotency keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		n, err := repository.NewIdempotencyRepository(db).DeleteExpired(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d expired keys\n", n)
		return nil
	},
}
