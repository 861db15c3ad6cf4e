package main

import (
	"context"
	"fmt"

	"github.com/pageza/foodflow/backend/internal/models"
	"github.com/pageza/foodflow/backend/internal/service"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// Badges whose condition no stored counter tracks, such as the recycle ones,
// are granted by an operator through this command.
func awardBadgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "award-badge <username> <badge name or condition>",
		Short: "Grant a badge to a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase()
			if err != nil {
				return err
			}
			created, err := awardBadge(cmd.Context(), db, args[0], args[1])
			if err != nil {
				return err
			}
			if created {
				fmt.Printf("Awarded %q to %s.\n", args[1], args[0])
			} else {
				fmt.Printf("%s already holds %q.\n", args[0], args[1])
			}
			return nil
		},
	}
}

func awardBadge(ctx context.Context, db *gorm.DB, username, badgeRef string) (bool, error) {
	var user models.User
	if err := db.WithContext(ctx).Where("LOWER(username) = LOWER(?)", username).First(&user).Error; err != nil {
		return false, fmt.Errorf("user %q: %w", username, err)
	}
	var badge models.Badge
	if err := db.WithContext(ctx).Where("name = ? OR condition = ?", badgeRef, badgeRef).
		Order("id").First(&badge).Error; err != nil {
		return false, fmt.Errorf("badge %q: %w", badgeRef, err)
	}
	return service.NewGamificationService(db).AwardBadge(ctx, user.ID, badge.ID)
}
