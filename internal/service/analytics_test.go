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
)

func actions(recs []service.Recommendation) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Action)
	}
	return out
}

func TestWeeklyReport(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAnalyticsService(db)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db, "gemma")

	t.Run("empty week", func(t *testing.T) {
		report, err := svc.WeeklyReport(ctx, user.ID, time.Time{})
		require.NoError(t, err)
		assert.Equal(t, 60.0, report.OverallScore)
		assert.Empty(t, report.Pantry.LowStock)
		assert.Equal(t, []string{"meal_planning"}, actions(report.Recommendations))
	})

	for _, name := range []string{"Riso", "Farina", "Zucchero", "Caffè"} {
		testhelpers.CreateProduct(t, db, user.ID, name, 0.5, "kg", 30*24*time.Hour)
	}
	potatoes, err := service.NewProductService(db).AddProduct(ctx, user.ID, service.ProductInput{
		Name: "Patate", Quantity: 3, Unit: "kg", Category: "Verdura", ExpiryDate: time.Now().AddDate(0, 0, 10),
	})
	require.NoError(t, err)
	_, err = service.NewProductService(db).WasteProduct(ctx, user.ID, potatoes.ID, 100)
	require.NoError(t, err)

	t.Run("waste and low stock", func(t *testing.T) {
		report, err := svc.WeeklyReport(ctx, user.ID, time.Now())
		require.NoError(t, err)
		assert.Equal(t, 4, report.Pantry.TotalProducts)
		assert.Len(t, report.Pantry.LowStock, 4)
		assert.Equal(t, 1, report.Waste.WastedProducts)
		assert.Equal(t, 3.0, report.Waste.KgWasted)
		assert.Equal(t, 48.0, report.OverallScore)
		assert.Equal(t, []string{"meal_planning", "reduce_waste", "restock_pantry"}, actions(report.Recommendations))
	})

	t.Run("older week excludes recent waste", func(t *testing.T) {
		report, err := svc.WeeklyReport(ctx, user.ID, time.Now().AddDate(0, 0, -30))
		require.NoError(t, err)
		assert.Zero(t, report.Waste.WastedProducts)
	})

	_, err = svc.WeeklyReport(ctx, 9999, time.Time{})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestWasteScore(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAnalyticsService(db)
	products := service.NewProductService(db)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db, "ivan")

	empty, err := svc.WasteScore(ctx, user.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, 100.0, empty.Score)
	assert.Equal(t, "A", empty.Grade)
	assert.Equal(t, 30, empty.PeriodDays)

	expiry := time.Now().AddDate(0, 0, 10)
	kept, err := products.AddProduct(ctx, user.ID, service.ProductInput{Name: "Mele", Quantity: 3, Unit: "kg", Category: "Frutta", ExpiryDate: expiry})
	require.NoError(t, err)
	require.NotZero(t, kept.ID)
	lost, err := products.AddProduct(ctx, user.ID, service.ProductInput{Name: "Pere", Quantity: 1, Unit: "kg", Category: "Frutta", ExpiryDate: expiry})
	require.NoError(t, err)
	_, err = products.WasteProduct(ctx, user.ID, lost.ID, 100)
	require.NoError(t, err)

	score, err := svc.WasteScore(ctx, user.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 25.0, score.WastePercentage)
	assert.Equal(t, 75.0, score.Score)
	assert.Equal(t, "C", score.Grade)
}

func TestRecomputeAllIsIdempotent(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAnalyticsService(db)
	ctx := context.Background()
	first := testhelpers.CreateUser(t, db, "lara")
	testhelpers.CreateUser(t, db, "marco")

	product, err := service.NewProductService(db).AddProduct(ctx, first.ID, service.ProductInput{
		Name: "Pane", Quantity: 500, Unit: "g", Category: "Forno", ExpiryDate: time.Now().AddDate(0, 0, 2),
	})
	require.NoError(t, err)
	_, err = service.NewProductService(db).WasteProduct(ctx, first.ID, product.ID, 100)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		n, err := svc.RecomputeAll(ctx, time.Now())
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	}
	assert.Equal(t, int64(2), countWhere(t, db, &models.WasteAnalytics{}, "1 = 1"))
	assert.Equal(t, int64(2), countWhere(t, db, &models.ShoppingAnalytics{}, "1 = 1"))

	row, err := svc.RecomputeWasteAnalytics(ctx, first.ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, row.ProductsWasted)
	assert.Equal(t, 0.5, row.KgWasted)
	assert.Equal(t, map[string]float64{"Forno": 1}, row.CategoryBreakdown.Data())

	_, err = svc.RecomputeShoppingAnalytics(ctx, 9999, time.Now())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestSummary(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAnalyticsService(db)
	nutrition := service.NewNutritionService(db)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db, "nora")

	empty, err := svc.Summary(ctx, user.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, "N/A", empty.Waste.MostWastedCategory)
	assert.Equal(t, "N/A", empty.Shopping.MostPurchasedCategory)
	assert.Zero(t, empty.Nutrition.DaysTracked)
	assert.Equal(t, 7, empty.Period.Days)

	_, err = nutrition.UpsertDailyNutrition(ctx, user.ID, time.Now(), service.NutritionDelta{Calories: 1800})
	require.NoError(t, err)
	_, err = nutrition.UpsertDailyNutrition(ctx, user.ID, time.Now().AddDate(0, 0, -1), service.NutritionDelta{Calories: 2200})
	require.NoError(t, err)

	summary, err := svc.Summary(ctx, user.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Nutrition.DaysTracked)
	assert.Equal(t, 2000.0, summary.Nutrition.AvgCalories)
}

func TestSummaryTrends(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAnalyticsService(db)
	ctx := context.Background()
	user := testhelpers.CreateUser(t, db, "olga")
	today := models.DateOf(time.Now()).Format("2006-01-02")

	empty, err := svc.Summary(ctx, user.ID, 7)
	require.NoError(t, err)
	assert.Empty(t, empty.Trends.Products)
	assert.Empty(t, empty.Trends.Waste)
	assert.Empty(t, empty.Trends.Shopping)

	testhelpers.CreateProduct(t, db, user.ID, "Pane", 1, "pz", 2*24*time.Hour)
	testhelpers.CreateProduct(t, db, user.ID, "Latte", 1, "l", 5*24*time.Hour)

	require.NoError(t, db.Create(&models.WasteAnalytics{
		UserID: user.ID, Date: models.DateOf(time.Now().AddDate(0, 0, -2)), ProductsWasted: 1, KgWasted: 0.5, EstimatedCost: 2.5,
	}).Error)

	completed := time.Now()
	for _, spent := range []float64{12.5, 7.25} {
		require.NoError(t, db.Create(&models.ShoppingList{
			UserID: user.ID, Name: "Spesa", Completed: true, CompletedAt: &completed, ActualSpent: spent,
		}).Error)
	}
	require.NoError(t, db.Create(&models.ShoppingList{UserID: user.ID, Name: "Aperta"}).Error)

	summary, err := svc.Summary(ctx, user.ID, 7)
	require.NoError(t, err)

	assert.Equal(t, []service.ProductsTrendPoint{{Date: today, Count: 2}}, summary.Trends.Products)
	require.Len(t, summary.Trends.Waste, 1)
	assert.Equal(t, 0.5, summary.Trends.Waste[0].KgWasted)
	assert.Equal(t, 2.5, summary.Trends.Waste[0].Cost)
	assert.Equal(t, []service.ShoppingTrendPoint{{Date: today, Trips: 2, Spent: 19.75}}, summary.Trends.Shopping)
}
