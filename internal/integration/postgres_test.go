package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pageza/foodflow/backend/internal/database"
	"github.com/pageza/foodflow/backend/internal/models"
	"github.com/pageza/foodflow/backend/internal/service"
	"github.com/pageza/foodflow/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresSchema(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}
	db := testhelpers.SetupPostgresDatabase(t)
	ctx := context.Background()

	t.Run("migrations run once", func(t *testing.T) {
		require.NoError(t, database.RunMigrations(db))
		var applied int64
		require.NoError(t, db.Table("migrations").Count(&applied).Error)
		assert.Equal(t, int64(1), applied)

		_, err := database.SeedBadges(db)
		require.NoError(t, err)
		catalog, err := database.BadgeCatalog()
		require.NoError(t, err)
		var badges int64
		require.NoError(t, db.Model(&models.Badge{}).Count(&badges).Error)
		assert.Equal(t, int64(len(catalog)), badges)
	})

	users := service.NewUserService(db)
	families := service.NewFamilyService(db)
	nutrition := service.NewNutritionService(db)
	gamification := service.NewGamificationService(db)

	owner, err := users.CreateUser(ctx, "pg_owner", "owner@example.com", "hash")
	require.NoError(t, err)
	member, err := users.CreateUser(ctx, "pg_member", "member@example.com", "hash")
	require.NoError(t, err)

	t.Run("unique email", func(t *testing.T) {
		_, err := users.CreateUser(ctx, "pg_other", "OWNER@example.com", "hash")
		assert.ErrorIs(t, err, service.ErrDuplicateKey)

		err = db.Create(&models.User{Username: "raw", Email: "owner@example.com", PasswordHash: "x"}).Error
		assert.Error(t, err)
	})

	t.Run("family membership is unique", func(t *testing.T) {
		family, err := families.CreateFamily(ctx, owner.ID, "Postgres")
		require.NoError(t, err)
		_, err = families.JoinFamily(ctx, member.ID, family.FamilyCode)
		require.NoError(t, err)
		_, err = families.JoinFamily(ctx, member.ID, family.FamilyCode)
		assert.ErrorIs(t, err, service.ErrAlreadyMember)
	})

	t.Run("concurrent daily upserts accumulate", func(t *testing.T) {
		day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		var wg sync.WaitGroup
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := nutrition.UpsertDailyNutrition(ctx, owner.ID, day, service.NutritionDelta{Calories: 500})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		row, err := nutrition.GetDailyNutrition(ctx, owner.ID, day)
		require.NoError(t, err)
		assert.Equal(t, 1000.0, row.CaloriesConsumed)
	})

	t.Run("badges are awarded once", func(t *testing.T) {
		badge := testhelpers.BadgeByCondition(t, db, "first_recycle")
		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := gamification.AwardBadge(ctx, member.ID, badge.ID)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		var count int64
		require.NoError(t, db.Model(&models.UserBadge{}).Where("user_id = ? AND badge_id = ?", member.ID, badge.ID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("concurrent point awards accumulate", func(t *testing.T) {
		const awards = 8
		before, err := gamification.GetStats(ctx, member.ID)
		require.NoError(t, err)

		amount := 10
		var wg sync.WaitGroup
		for i := 0; i < awards; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := gamification.AwardPoints(ctx, member.ID, "bonus", &amount)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		after, err := gamification.GetStats(ctx, member.ID)
		require.NoError(t, err)
		assert.Equal(t, before.Stats.Points+awards*amount, after.Stats.Points)
		assert.Equal(t, service.LevelForPoints(after.Stats.Points), after.Stats.Level)

		var logged int64
		require.NoError(t, db.Model(&models.RewardHistory{}).
			Where("user_id = ? AND description = ?", member.ID, "Azione: bonus").
			Select("COALESCE(SUM(value), 0)").Scan(&logged).Error)
		assert.Equal(t, int64(awards*amount), logged)
	})

	t.Run("deleting a user cascades", func(t *testing.T) {
		require.NoError(t, users.DeleteUser(ctx, owner.ID))

		for _, table := range []string{"user_stats", "family_member", "daily_nutrition", "family"} {
			var count int64
			column := "user_id"
			if table == "family" {
				column = "created_by"
			}
			require.NoError(t, db.Table(table).Where(column+" = ?", owner.ID).Count(&count).Error)
			assert.Zero(t, count, table)
		}
	})
}
