package cmd

import (
	"attendtrack/cmd/migration/initialize"
	"attendtrack/cmd/migration/seed"
	"attendtrack/internal/database"
	"attendtrack/internal/logger"
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.New("cmd").Function("migrate")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := database.New(cfg)
		if err != nil {
			return log.Err("failed to open database", err)
		}
		defer db.Close()

		down, _ := cmd.Flags().GetInt("down")
		if down > 0 {
			reverted, err := db.MigrateDown(down)
			if err != nil {
				return log.Err("failed to revert migrations", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reverted %d migration(s)\n", reverted)
			return nil
		}

		applied, err := initialize.InitializeTables(&db, cfg, log)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", applied)
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the administrator account if it is missing",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.New("cmd").Function("seed")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := database.New(cfg)
		if err != nil {
			return log.Err("failed to open database", err)
		}
		defer db.Close()

		if _, err := initialize.InitializeTables(&db, cfg, log); err != nil {
			return err
		}

		created, err := seed.Seed(db.SQL, cfg, log)
		if err != nil {
			return err
		}
		if created {
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %q\n", cfg.SeedAdminLogin)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "admin %q already exists\n", cfg.SeedAdminLogin)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)

	migrateCmd.Flags().Int("down", 0, "revert this many migrations instead of applying")
}
