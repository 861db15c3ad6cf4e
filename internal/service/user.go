package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/pageza/foodflow/backend/internal/models"
	"gorm.io/gorm"
)

// UserService owns the user row and everything that cascades from it.
type UserService struct {
	db *gorm.DB
}

var _ IUserService = (*UserService)(nil)

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// CreateUser inserts a user with a fresh stats row. A taken username or email
// (compared case-insensitively) fails with ErrDuplicateKey.
func (s *UserService) CreateUser(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	user := &models.User{
		Username:     strings.TrimSpace(username),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
	}
	if user.Username == "" {
		return nil, invalid("username", "is required")
	}
	if user.Email == "" {
		return nil, invalid("email", "is required")
	}
	if passwordHash == "" {
		return nil, invalid("password", "is required")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).
			Where("LOWER(username) = LOWER(?) OR LOWER(email) = ?", user.Username, user.Email).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateKey
		}

		if err := tx.Create(user).Error; err != nil {
			return translateError(err)
		}
		return tx.Create(&models.UserStats{UserID: user.ID, Level: 1}).Error
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// DeleteUser removes the user and every row owned by it, including families
// the user created. Children go first so the statement order also holds on
// engines without ON DELETE CASCADE.
func (s *UserService) DeleteUser(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireUser(tx, userID); err != nil {
			return err
		}

		ownedLists := tx.Model(&models.ShoppingList{}).Select("id").Where("user_id = ?", userID)
		createdFamilies := tx.Model(&models.Family{}).Select("id").Where("created_by = ?", userID)

		steps := []struct {
			name  string
			query *gorm.DB
			model interface{}
		}{
			{"shopping_item", tx.Where("shopping_list_id IN (?)", ownedLists), &models.ShoppingItem{}},
			{"shopping_list", tx.Where("user_id = ?", userID), &models.ShoppingList{}},
			{"family_member", tx.Where("user_id = ? OR family_id IN (?)", userID, createdFamilies), &models.FamilyMember{}},
			{"family", tx.Where("created_by = ?", userID), &models.Family{}},
			{"product", tx.Where("user_id = ?", userID), &models.Product{}},
			{"user_stats", tx.Where("user_id = ?", userID), &models.UserStats{}},
			{"user_badge", tx.Where("user_id = ?", userID), &models.UserBadge{}},
			{"reward_history", tx.Where("user_id = ?", userID), &models.RewardHistory{}},
			{"nutritional_profile", tx.Where("user_id = ?", userID), &models.NutritionalProfile{}},
			{"nutritional_goal", tx.Where("user_id = ?", userID), &models.NutritionalGoal{}},
			{"meal_plan", tx.Where("user_id = ?", userID), &models.MealPlan{}},
			{"daily_nutrition", tx.Where("user_id = ?", userID), &models.DailyNutrition{}},
			{"waste_analytics", tx.Where("user_id = ?", userID), &models.WasteAnalytics{}},
			{"shopping_analytics", tx.Where("user_id = ?", userID), &models.ShoppingAnalytics{}},
		}

		for _, step := range steps {
			res := step.query.Delete(step.model)
			if res.Error != nil {
				return fmt.Errorf("failed to delete %s rows: %w", step.name, res.Error)
			}
			if res.RowsAffected > 0 {
				log.Printf("[UserService] user %d: removed %d %s rows", userID, res.RowsAffected, step.name)
			}
		}

		if err := tx.Delete(&models.User{}, userID).Error; err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
}

func requireUser(tx *gorm.DB, userID uint) error {
	var count int64
	if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	return nil
}
