package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pageza/foodflow/backend/config"
	"github.com/pageza/foodflow/backend/internal/database"
	"github.com/pageza/foodflow/backend/internal/service"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "migrate",
		Short:        "FoodFlow database operations",
		SilenceUsage: true,
	}
	cmd.AddCommand(upCmd(), seedBadgesCmd(), seedDemoCmd(), recomputeAnalyticsCmd(), awardBadgeCmd())
	return cmd
}

func openDatabase() (*gorm.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return database.Open(cfg)
}

func upCmd() *cobra.Command {
	var seed bool

	c := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openDatabase()
			if err != nil {
				return err
			}
			if err := database.RunMigrations(db); err != nil {
				return err
			}
			fmt.Println("All migrations applied successfully.")

			if !seed {
				return nil
			}
			n, err := database.SeedBadges(db)
			if err != nil {
				return err
			}
			fmt.Printf("Seeded %d badges.\n", n)
			return nil
		},
	}

	c.Flags().BoolVar(&seed, "seed", false, "Also seed the badge catalog")
	return c
}

func seedBadgesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-badges",
		Short: "Upsert the built-in badge catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openDatabase()
			if err != nil {
				return err
			}
			n, err := database.SeedBadges(db)
			if err != nil {
				return err
			}
			fmt.Printf("Seeded %d badges.\n", n)
			return nil
		},
	}
}

func recomputeAnalyticsCmd() *cobra.Command {
	var day string

	c := &cobra.Command{
		Use:   "recompute-analytics",
		Short: "Rebuild the waste and shopping analytics of every user for one day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			target := time.Now()
			if day != "" {
				parsed, err := time.Parse("2006-01-02", day)
				if err != nil {
					return fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", day)
				}
				target = parsed
			}

			db, err := openDatabase()
			if err != nil {
				return err
			}
			n, err := service.NewAnalyticsService(db).RecomputeAll(cmd.Context(), target)
			if err != nil {
				return err
			}
			fmt.Printf("Recomputed analytics for %d users on %s.\n", n, target.Format("2006-01-02"))
			return nil
		},
	}

	c.Flags().StringVar(&day, "date", "", "Day to recompute (YYYY-MM-DD, defaults to today)")
	return c
}
