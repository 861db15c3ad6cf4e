package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/pageza/foodflow/backend/internal/models"
	"github.com/pageza/foodflow/backend/internal/service"
	"github.com/pageza/foodflow/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateUser(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewUserService(db)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "mario", "Mario@Example.com", "hash")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "mario@example.com", user.Email)

	var stats models.UserStats
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&stats).Error)
	assert.Equal(t, 1, stats.Level)
	assert.Zero(t, stats.Points)

	t.Run("duplicate email is rejected case-insensitively", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, "luigi", "MARIO@example.com", "hash")
		assert.ErrorIs(t, err, service.ErrDuplicateKey)
	})

	t.Run("duplicate username is rejected", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, "Mario", "other@example.com", "hash")
		assert.ErrorIs(t, err, service.ErrDuplicateKey)
	})

	t.Run("missing fields are validation errors", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, "", "x@example.com", "hash")
		assert.ErrorIs(t, err, service.ErrValidation)

		var verr *service.ValidationError
		_, err = svc.CreateUser(ctx, "peach", "", "hash")
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "email", verr.Field)
	})
}

func TestDeleteUserUnknown(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	err := service.NewUserService(db).DeleteUser(context.Background(), 4242)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestDeleteUserCascades(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	ctx := context.Background()

	users := service.NewUserService(db)
	products := service.NewProductService(db)
	shopping := service.NewShoppingService(db)
	families := service.NewFamilyService(db)
	nutrition := service.NewNutritionService(db)

	owner := testhelpers.CreateUser(t, db, "owner")
	peer := testhelpers.CreateUser(t, db, "peer")

	milk, err := products.AddProduct(ctx, owner.ID, service.ProductInput{
		Name: "latte", Quantity: 2, Unit: "l", Category: "Latticini", ExpiryDate: time.Now().AddDate(0, 0, 5),
	})
	require.NoError(t, err)
	_, err = products.WasteProduct(ctx, owner.ID, milk.ID, 100)
	require.NoError(t, err)

	list, err := shopping.CreateList(ctx, owner.ID, service.ShoppingListInput{Name: "Weekly"})
	require.NoError(t, err)
	item, err := shopping.AddItem(ctx, owner.ID, list.ID, service.ShoppingItemInput{Name: "Pane", Quantity: 1, Unit: "pz"})
	require.NoError(t, err)
	_, err = shopping.ToggleItem(ctx, owner.ID, item.ID)
	require.NoError(t, err)
	_, err = shopping.CompleteList(ctx, owner.ID, list.ID, nil)
	require.NoError(t, err)
	_, err = shopping.CreateList(ctx, owner.ID, service.ShoppingListInput{Name: "Open"})
	require.NoError(t, err)

	family, err := families.CreateFamily(ctx, owner.ID, "Rossi")
	require.NoError(t, err)
	_, err = families.JoinFamily(ctx, peer.ID, family.FamilyCode)
	require.NoError(t, err)

	age, weight, height := 30, 70.0, 175.0
	_, err = nutrition.UpsertProfile(ctx, owner.ID, service.ProfileInput{Age: &age, Weight: &weight, Height: &height})
	require.NoError(t, err)
	_, err = nutrition.CreateMealPlan(ctx, owner.ID, service.MealPlanInput{Date: time.Now(), MealType: "lunch"})
	require.NoError(t, err)
	_, err = nutrition.UpsertDailyNutrition(ctx, owner.ID, time.Now(), service.NutritionDelta{Calories: 600})
	require.NoError(t, err)

	_, err = service.NewGamificationService(db).AwardBadge(ctx, owner.ID, testhelpers.BadgeByCondition(t, db, "first_recycle").ID)
	require.NoError(t, err)

	require.NoError(t, users.DeleteUser(ctx, owner.ID))

	owned := map[string]interface{}{
		"product":             &models.Product{},
		"shopping_list":       &models.ShoppingList{},
		"user_stats":          &models.UserStats{},
		"user_badge":          &models.UserBadge{},
		"reward_history":      &models.RewardHistory{},
		"nutritional_profile": &models.NutritionalProfile{},
		"nutritional_goal":    &models.NutritionalGoal{},
		"meal_plan":           &models.MealPlan{},
		"daily_nutrition":     &models.DailyNutrition{},
		"waste_analytics":     &models.WasteAnalytics{},
		"shopping_analytics":  &models.ShoppingAnalytics{},
		"family_member":       &models.FamilyMember{},
	}
	for table, model := range owned {
		assert.Zero(t, countWhere(t, db, model, "user_id = ?", owner.ID), "rows left in %s", table)
	}
	assert.Zero(t, countWhere(t, db, &models.ShoppingItem{}, "shopping_list_id = ?", list.ID))
	assert.Zero(t, countWhere(t, db, &models.Family{}, "id = ?", family.ID))
	assert.Zero(t, countWhere(t, db, &models.FamilyMember{}, "family_id = ?", family.ID))
	assert.Zero(t, countWhere(t, db, &models.User{}, "id = ?", owner.ID))

	_, err = users.GetUser(ctx, peer.ID)
	assert.NoError(t, err, "other users survive")
	assert.Equal(t, int64(9), countWhere(t, db, &models.Badge{}, "1 = 1"), "badge catalog is untouched")
}

func countWhere(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}
