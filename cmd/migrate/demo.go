package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/pageza/foodflow/backend/internal/service"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const demoPassword = "Demo1234!"

type demoUser struct {
	username     string
	email        string
	restrictions []string
	allergies    []string
}

var demoUsers = []demoUser{
	{username: "giulia", email: "giulia@example.com", restrictions: []string{"vegetarian"}},
	{username: "marco", email: "marco@example.com", allergies: []string{"nuts", "dairy"}},
	{username: "sofia", email: "sofia@example.com"},
}

var demoPantry = []service.ProductInput{
	{Name: "Latte", Quantity: 1, Unit: "l", Category: "Latticini"},
	{Name: "Pasta", Quantity: 500, Unit: "g", Category: "Dispensa"},
	{Name: "Pomodori", Quantity: 6, Unit: "pz", Category: "Verdura"},
	{Name: "Uova", Quantity: 4, Unit: "pz", Category: "Proteine"},
}

func seedDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-demo",
		Short: "Create demo users with a small pantry (development only)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openDatabase()
			if err != nil {
				return err
			}
			created, err := seedDemo(cmd.Context(), db, time.Now())
			if err != nil {
				return err
			}
			fmt.Printf("Created %d demo users (password %s).\n", created, demoPassword)
			return nil
		},
	}
}

// seedDemo registers the demo users that do not exist yet and stocks their
// pantries. Products expire on staggered days so notifications have content.
func seedDemo(ctx context.Context, db *gorm.DB, now time.Time) (int, error) {
	auth := service.NewAuthService(db, "")
	products := service.NewProductService(db)
	nutrition := service.NewNutritionService(db)

	created := 0
	for _, u := range demoUsers {
		user, err := auth.Register(ctx, u.username, u.email, demoPassword)
		if errors.Is(err, service.ErrDuplicateKey) {
			log.Printf("User %s already exists, skipping...", u.email)
			continue
		}
		if err != nil {
			return created, fmt.Errorf("failed to create %s: %w", u.email, err)
		}
		created++

		if len(u.restrictions) > 0 || len(u.allergies) > 0 {
			if _, err := nutrition.UpsertProfile(ctx, user.ID, service.ProfileInput{
				DietaryRestrictions: u.restrictions,
				Allergies:           u.allergies,
			}); err != nil {
				return created, fmt.Errorf("failed to create profile for %s: %w", u.email, err)
			}
		}

		for i, p := range demoPantry {
			p.ExpiryDate = now.AddDate(0, 0, 2+i*3)
			if _, err := products.AddProduct(ctx, user.ID, p); err != nil {
				return created, fmt.Errorf("failed to add %s for %s: %w", p.Name, u.email, err)
			}
		}
		log.Printf("Created demo user %s with %d products", u.email, len(demoPantry))
	}
	return created, nil
}
