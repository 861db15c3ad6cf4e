package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/pageza/foodflow/backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WasteScore struct {
	Score           float64 `json:"score"`
	Grade           string  `json:"grade"`
	WastePercentage float64 `json:"waste_percentage"`
	TotalQuantity   float64 `json:"total_quantity"`
	WastedQuantity  float64 `json:"wasted_quantity"`
	PeriodDays      int     `json:"period_days"`
}

type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Days  int    `json:"days,omitempty"`
}

type NutritionSummary struct {
	AvgCalories      float64 `json:"avg_calories"`
	AvgProtein       float64 `json:"avg_protein"`
	AvgCarbs         float64 `json:"avg_carbs"`
	AvgFat           float64 `json:"avg_fat"`
	AvgFiber         float64 `json:"avg_fiber"`
	GoalCompletion   float64 `json:"goal_completion"`
	ConsistencyScore float64 `json:"consistency_score"`
	DaysTracked      int     `json:"days_tracked"`
}

type WasteSummary struct {
	TotalProductsWasted int                `json:"total_products_wasted"`
	TotalKgWasted       float64            `json:"total_kg_wasted"`
	TotalCost           float64            `json:"total_cost"`
	AvgDailyWaste       float64            `json:"avg_daily_waste"`
	WasteTrend          float64            `json:"waste_trend"`
	MostWastedCategory  string             `json:"most_wasted_category"`
	CategoryBreakdown   map[string]float64 `json:"category_breakdown"`
}

type ShoppingSummary struct {
	TotalItemsPurchased   int                `json:"total_items_purchased"`
	TotalCost             float64            `json:"total_cost"`
	AvgItemsPerTrip       float64            `json:"avg_items_per_trip"`
	AIAdoptionRate        float64            `json:"ai_adoption_rate"`
	MostPurchasedCategory string             `json:"most_purchased_category"`
	CategoryBreakdown     map[string]float64 `json:"category_breakdown"`
}

type Summary struct {
	Nutrition NutritionSummary `json:"nutrition"`
	Waste     WasteSummary     `json:"waste"`
	Shopping  ShoppingSummary  `json:"shopping"`
	Trends    Trends           `json:"trends"`
	Period    Period           `json:"period"`
}

type ProductsTrendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type WasteTrendPoint struct {
	Date     string  `json:"date"`
	KgWasted float64 `json:"kg_wasted"`
	Cost     float64 `json:"cost"`
}

type ShoppingTrendPoint struct {
	Date  string  `json:"date"`
	Trips int     `json:"trips"`
	Spent float64 `json:"spent"`
}

// Trends are per-day series over the summary period, oldest first. Days
// without activity are omitted.
type Trends struct {
	Products []ProductsTrendPoint `json:"products_trend"`
	Waste    []WasteTrendPoint    `json:"waste_trend"`
	Shopping []ShoppingTrendPoint `json:"shopping_trend"`
}

type LowStockEntry struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

type WeeklyPantry struct {
	TotalProducts int             `json:"total_products"`
	Expiring      int             `json:"expiring"`
	LowStock      []LowStockEntry `json:"low_stock"`
}

type WeeklyNutrition struct {
	GoalCompletion float64 `json:"goal_completion"`
	DaysTracked    int     `json:"days_tracked"`
}

type WeeklyWaste struct {
	WastedProducts int     `json:"wasted_products"`
	KgWasted       float64 `json:"kg_wasted"`
}

type WeeklyShopping struct {
	ItemsPurchased int     `json:"items_purchased"`
	Cost           float64 `json:"cost"`
	Trips          int     `json:"trips"`
}

type Recommendation struct {
	Category string `json:"category"`
	Priority string `json:"priority"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Action   string `json:"action"`
}

type WeeklyReport struct {
	UserID          uint             `json:"user_id"`
	Period          Period           `json:"period"`
	Pantry          WeeklyPantry     `json:"pantry"`
	Nutrition       WeeklyNutrition  `json:"nutrition"`
	Waste           WeeklyWaste      `json:"waste"`
	Shopping        WeeklyShopping   `json:"shopping"`
	OverallScore    float64          `json:"overall_score"`
	Recommendations []Recommendation `json:"recommendations"`
}

// AnalyticsService computes scores and maintains the per-day rollup tables.
// Rollups are derived data: they are rebuilt from products and shopping
// lists whenever those change, or for every user by RecomputeAll.
type AnalyticsService struct {
	db  *gorm.DB
	now func() time.Time
}

var _ IAnalyticsService = (*AnalyticsService)(nil)

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db, now: time.Now}
}

func (s *AnalyticsService) WasteScore(ctx context.Context, userID uint, days int) (*WasteScore, error) {
	if days <= 0 {
		days = 30
	}
	return wasteScore(s.db.WithContext(ctx), userID, s.now(), days)
}

func (s *AnalyticsService) RecomputeWasteAnalytics(ctx context.Context, userID uint, day time.Time) (*models.WasteAnalytics, error) {
	var row *models.WasteAnalytics
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireUser(tx, userID); err != nil {
			return err
		}
		var err error
		row, err = recomputeWasteAnalytics(tx, userID, models.DateOf(day))
		return err
	})
	return row, err
}

func (s *AnalyticsService) RecomputeShoppingAnalytics(ctx context.Context, userID uint, day time.Time) (*models.ShoppingAnalytics, error) {
	var row *models.ShoppingAnalytics
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireUser(tx, userID); err != nil {
			return err
		}
		var err error
		row, err = recomputeShoppingAnalytics(tx, userID, models.DateOf(day))
		return err
	})
	return row, err
}

// RecomputeAll rebuilds both rollups of day for every user and returns the
// number of users processed.
func (s *AnalyticsService) RecomputeAll(ctx context.Context, day time.Time) (int, error) {
	var userIDs []uint
	if err := s.db.WithContext(ctx).Model(&models.User{}).Order("id").Pluck("id", &userIDs).Error; err != nil {
		return 0, err
	}

	day = models.DateOf(day)
	for _, id := range userIDs {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if _, err := recomputeWasteAnalytics(tx, id, day); err != nil {
				return err
			}
			_, err := recomputeShoppingAnalytics(tx, id, day)
			return err
		})
		if err != nil {
			return 0, fmt.Errorf("recompute analytics for user %d: %w", id, err)
		}
	}
	log.Printf("[AnalyticsService] recomputed %s rollups for %d users", day.Format("2006-01-02"), len(userIDs))
	return len(userIDs), nil
}

// Summary aggregates the last days of nutrition and rollup rows.
func (s *AnalyticsService) Summary(ctx context.Context, userID uint, days int) (*Summary, error) {
	if days <= 0 {
		days = 30
	}
	end := models.DateOf(s.now())
	start := end.AddDate(0, 0, -days)
	db := s.db.WithContext(ctx)

	var nutrition []models.DailyNutrition
	if err := db.Where("user_id = ? AND date >= ? AND date <= ?", userID, start, end).
		Order("date").Find(&nutrition).Error; err != nil {
		return nil, err
	}
	var waste []models.WasteAnalytics
	if err := db.Where("user_id = ? AND date >= ? AND date <= ?", userID, start, end).
		Order("date").Find(&waste).Error; err != nil {
		return nil, err
	}
	var shopping []models.ShoppingAnalytics
	if err := db.Where("user_id = ? AND date >= ? AND date <= ?", userID, start, end).
		Order("date").Find(&shopping).Error; err != nil {
		return nil, err
	}

	trends, err := s.trends(db, userID, start, waste)
	if err != nil {
		return nil, err
	}

	return &Summary{
		Nutrition: summarizeNutrition(nutrition),
		Waste:     summarizeWaste(waste),
		Shopping:  summarizeShopping(shopping),
		Trends:    *trends,
		Period:    Period{Start: start.Format("2006-01-02"), End: end.Format("2006-01-02"), Days: days},
	}, nil
}

// trends buckets in Go rather than with SQL date functions, which differ
// between postgres and sqlite.
func (s *AnalyticsService) trends(db *gorm.DB, userID uint, start time.Time, waste []models.WasteAnalytics) (*Trends, error) {
	trends := &Trends{
		Products: []ProductsTrendPoint{},
		Waste:    make([]WasteTrendPoint, 0, len(waste)),
		Shopping: []ShoppingTrendPoint{},
	}

	var added []models.Product
	if err := db.Select("id", "created_at").Where("user_id = ? AND created_at >= ?", userID, start).
		Order("created_at").Find(&added).Error; err != nil {
		return nil, err
	}
	for _, p := range added {
		day := models.DateOf(p.CreatedAt).Format("2006-01-02")
		if n := len(trends.Products); n > 0 && trends.Products[n-1].Date == day {
			trends.Products[n-1].Count++
			continue
		}
		trends.Products = append(trends.Products, ProductsTrendPoint{Date: day, Count: 1})
	}

	for _, w := range waste {
		trends.Waste = append(trends.Waste, WasteTrendPoint{
			Date:     w.Date.Format("2006-01-02"),
			KgWasted: w.KgWasted,
			Cost:     w.EstimatedCost,
		})
	}

	var lists []models.ShoppingList
	if err := db.Select("id", "completed_at", "actual_spent").
		Where("user_id = ? AND completed = ? AND completed_at >= ?", userID, true, start).
		Order("completed_at").Find(&lists).Error; err != nil {
		return nil, err
	}
	for _, l := range lists {
		day := models.DateOf(*l.CompletedAt).Format("2006-01-02")
		if n := len(trends.Shopping); n > 0 && trends.Shopping[n-1].Date == day {
			trends.Shopping[n-1].Trips++
			trends.Shopping[n-1].Spent = round2(trends.Shopping[n-1].Spent + l.ActualSpent)
			continue
		}
		trends.Shopping = append(trends.Shopping, ShoppingTrendPoint{Date: day, Trips: 1, Spent: round2(l.ActualSpent)})
	}
	return trends, nil
}

// WeeklyReport scores the seven days up to end (today when zero) and suggests
// what to improve.
func (s *AnalyticsService) WeeklyReport(ctx context.Context, userID uint, end time.Time) (*WeeklyReport, error) {
	if end.IsZero() {
		end = s.now()
	}
	end = models.DateOf(end)
	start := end.AddDate(0, 0, -7)
	db := s.db.WithContext(ctx)

	if err := requireUser(db, userID); err != nil {
		return nil, err
	}

	report := &WeeklyReport{
		UserID: userID,
		Period: Period{Start: start.Format("2006-01-02"), End: end.Format("2006-01-02")},
	}

	var products []models.Product
	if err := db.Where("user_id = ? AND wasted = ?", userID, false).Order("name").Find(&products).Error; err != nil {
		return nil, err
	}
	report.Pantry.TotalProducts = len(products)
	report.Pantry.LowStock = []LowStockEntry{}
	horizon := end.AddDate(0, 0, 7)
	for _, p := range products {
		if !models.DateOf(p.ExpiryDate).After(horizon) {
			report.Pantry.Expiring++
		}
		if p.IsLowStock() {
			report.Pantry.LowStock = append(report.Pantry.LowStock, LowStockEntry{Name: p.Name, Quantity: p.Quantity, Unit: p.Unit})
		}
	}

	var nutrition []models.DailyNutrition
	if err := db.Where("user_id = ? AND date >= ? AND date <= ?", userID, start, end).Find(&nutrition).Error; err != nil {
		return nil, err
	}
	if len(nutrition) > 0 {
		total := 0.0
		for _, d := range nutrition {
			total += d.GoalCompletionPercentage
		}
		report.Nutrition.GoalCompletion = round1(total / float64(len(nutrition)))
		report.Nutrition.DaysTracked = len(nutrition)
	}

	var wasted []models.Product
	if err := db.Where("user_id = ? AND wasted = ? AND updated_at >= ? AND updated_at < ?", userID, true, start, end.AddDate(0, 0, 1)).
		Find(&wasted).Error; err != nil {
		return nil, err
	}
	report.Waste.WastedProducts = len(wasted)
	kg := 0.0
	for _, p := range wasted {
		kg += kilograms(p.Quantity, p.Unit)
	}
	report.Waste.KgWasted = round2(kg)

	var lists []models.ShoppingList
	if err := db.Preload("Items").
		Where("user_id = ? AND completed = ? AND completed_at >= ? AND completed_at < ?", userID, true, start, end.AddDate(0, 0, 1)).
		Find(&lists).Error; err != nil {
		return nil, err
	}
	for _, l := range lists {
		report.Shopping.Trips++
		report.Shopping.ItemsPurchased += len(l.Items)
		report.Shopping.Cost += l.ActualSpent
	}
	report.Shopping.Cost = round2(report.Shopping.Cost)

	report.OverallScore = weeklyScore(report)
	report.Recommendations = weeklyRecommendations(report)
	return report, nil
}

func weeklyScore(r *WeeklyReport) float64 {
	score := r.Nutrition.GoalCompletion * 0.4
	score += math.Max(0, 100-r.Waste.KgWasted*10) * 0.4

	total := r.Pantry.TotalProducts
	if total < 1 {
		total = 1
	}
	expiringPct := float64(r.Pantry.Expiring) / float64(total) * 100
	score += math.Max(0, 100-expiringPct) * 0.2
	return round1(score)
}

func weeklyRecommendations(r *WeeklyReport) []Recommendation {
	recs := []Recommendation{}
	if r.Nutrition.GoalCompletion < 80 {
		recs = append(recs, Recommendation{
			Category: "nutrition",
			Priority: "high",
			Title:    "Improve nutrition tracking",
			Message:  fmt.Sprintf("You reached only %.1f%% of your weekly goals", r.Nutrition.GoalCompletion),
			Action:   "meal_planning",
		})
	}
	if r.Waste.KgWasted > 2 {
		recs = append(recs, Recommendation{
			Category: "waste",
			Priority: "high",
			Title:    "Reduce food waste",
			Message:  fmt.Sprintf("You wasted %.2f kg this week", r.Waste.KgWasted),
			Action:   "reduce_waste",
		})
	}
	if len(r.Pantry.LowStock) > 3 {
		recs = append(recs, Recommendation{
			Category: "pantry",
			Priority: "medium",
			Title:    "Restock the pantry",
			Message:  fmt.Sprintf("%d products are running low", len(r.Pantry.LowStock)),
			Action:   "restock_pantry",
		})
	}
	return recs
}

func wasteScore(tx *gorm.DB, userID uint, now time.Time, days int) (*WasteScore, error) {
	var products []models.Product
	if err := tx.Where("user_id = ? AND created_at >= ?", userID, now.AddDate(0, 0, -days)).
		Find(&products).Error; err != nil {
		return nil, err
	}

	result := &WasteScore{Score: 100, Grade: "A", PeriodDays: days}
	for _, p := range products {
		result.TotalQuantity += p.Quantity
		if p.Wasted {
			result.WastedQuantity += p.Quantity
		}
	}
	if result.TotalQuantity == 0 {
		return result, nil
	}

	result.WastePercentage = round1(result.WastedQuantity / result.TotalQuantity * 100)
	result.Score = round1(math.Max(0, math.Min(100, 100-result.WastePercentage)))
	result.Grade = gradeFor(result.Score)
	return result, nil
}

func gradeFor(score float64) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

func recomputeWasteAnalytics(tx *gorm.DB, userID uint, day time.Time) (*models.WasteAnalytics, error) {
	var candidates []models.Product
	if err := tx.Where("user_id = ? AND wasted = ? AND updated_at >= ?", userID, true, day.Add(-24*time.Hour)).
		Find(&candidates).Error; err != nil {
		return nil, err
	}

	breakdown := map[string]float64{}
	row := models.WasteAnalytics{UserID: userID, Date: day}
	for _, p := range candidates {
		if !models.DateOf(p.UpdatedAt).Equal(day) {
			continue
		}
		row.ProductsWasted++
		row.KgWasted += kilograms(p.Quantity, p.Unit)
		breakdown[categoryOrDefault(p.Category)]++
	}
	row.KgWasted = round2(row.KgWasted)
	row.CategoryBreakdown = datatypes.NewJSONType(breakdown)
	row.MostWastedCategory = topCategory(breakdown)

	var previous models.WasteAnalytics
	err := tx.Where("user_id = ? AND date < ?", userID, day).Order("date DESC").Limit(1).Find(&previous).Error
	if err != nil {
		return nil, err
	}
	if previous.ID != 0 {
		row.WasteTrend = round2(row.KgWasted - previous.KgWasted)
	}

	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"products_wasted", "kg_wasted", "estimated_cost", "category_breakdown", "waste_trend", "most_wasted_category",
		}),
	}).Create(&row).Error; err != nil {
		return nil, err
	}

	var stored models.WasteAnalytics
	if err := tx.Where("user_id = ? AND date = ?", userID, day).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func recomputeShoppingAnalytics(tx *gorm.DB, userID uint, day time.Time) (*models.ShoppingAnalytics, error) {
	var candidates []models.ShoppingList
	if err := tx.Preload("Items").
		Where("user_id = ? AND completed = ? AND completed_at >= ?", userID, true, day.Add(-24*time.Hour)).
		Find(&candidates).Error; err != nil {
		return nil, err
	}

	breakdown := map[string]float64{}
	row := models.ShoppingAnalytics{UserID: userID, Date: day}
	for _, l := range candidates {
		if l.CompletedAt == nil || !models.DateOf(*l.CompletedAt).Equal(day) {
			continue
		}
		listCost := 0.0
		for _, item := range l.Items {
			if !item.Completed {
				continue
			}
			row.ItemsPurchased++
			breakdown[categoryOrDefault(item.Category)]++
			if item.EstimatedPrice != nil {
				listCost += *item.EstimatedPrice * item.Quantity
			}
			if l.IsSmart {
				row.AISuggestionsUsed++
			}
		}
		if l.ActualSpent > 0 {
			listCost = l.ActualSpent
		}
		row.EstimatedCost += listCost
	}
	row.EstimatedCost = round2(row.EstimatedCost)
	row.CategoryBreakdown = datatypes.NewJSONType(breakdown)
	row.MostPurchasedCategory = topCategory(breakdown)

	freq, err := shoppingFrequency(tx, userID)
	if err != nil {
		return nil, err
	}
	row.ShoppingFrequencyDays = freq

	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"items_purchased", "estimated_cost", "category_breakdown", "ai_suggestions_used",
			"most_purchased_category", "shopping_frequency_days",
		}),
	}).Create(&row).Error; err != nil {
		return nil, err
	}

	var stored models.ShoppingAnalytics
	if err := tx.Where("user_id = ? AND date = ?", userID, day).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// shoppingFrequency is the mean gap in days between the last ten completed
// lists, or nil with fewer than two.
func shoppingFrequency(tx *gorm.DB, userID uint) (*float64, error) {
	var lists []models.ShoppingList
	if err := tx.Where("user_id = ? AND completed = ? AND completed_at IS NOT NULL", userID, true).
		Order("completed_at DESC").Limit(10).Find(&lists).Error; err != nil {
		return nil, err
	}
	if len(lists) < 2 {
		return nil, nil
	}

	total := 0.0
	for i := 0; i < len(lists)-1; i++ {
		total += lists[i].CompletedAt.Sub(*lists[i+1].CompletedAt).Hours() / 24
	}
	avg := round1(total / float64(len(lists)-1))
	return &avg, nil
}

func summarizeNutrition(rows []models.DailyNutrition) NutritionSummary {
	if len(rows) == 0 {
		return NutritionSummary{}
	}
	var s NutritionSummary
	for _, d := range rows {
		s.AvgCalories += d.CaloriesConsumed
		s.AvgProtein += d.ProteinConsumed
		s.AvgCarbs += d.CarbsConsumed
		s.AvgFat += d.FatConsumed
		s.AvgFiber += d.FiberConsumed
		s.GoalCompletion += d.GoalCompletionPercentage
		s.ConsistencyScore += d.ConsistencyScore
	}
	n := float64(len(rows))
	return NutritionSummary{
		AvgCalories:      round1(s.AvgCalories / n),
		AvgProtein:       round1(s.AvgProtein / n),
		AvgCarbs:         round1(s.AvgCarbs / n),
		AvgFat:           round1(s.AvgFat / n),
		AvgFiber:         round1(s.AvgFiber / n),
		GoalCompletion:   round1(s.GoalCompletion / n),
		ConsistencyScore: round1(s.ConsistencyScore / n),
		DaysTracked:      len(rows),
	}
}

func summarizeWaste(rows []models.WasteAnalytics) WasteSummary {
	s := WasteSummary{MostWastedCategory: "N/A", CategoryBreakdown: map[string]float64{}}
	if len(rows) == 0 {
		return s
	}
	for _, d := range rows {
		s.TotalProductsWasted += d.ProductsWasted
		s.TotalKgWasted += d.KgWasted
		s.TotalCost += d.EstimatedCost
		for category, n := range d.CategoryBreakdown.Data() {
			s.CategoryBreakdown[category] += n
		}
	}
	s.AvgDailyWaste = round2(s.TotalKgWasted / float64(len(rows)))

	if len(rows) >= 14 {
		recent, older := 0.0, 0.0
		for _, d := range rows[len(rows)-7:] {
			recent += d.KgWasted
		}
		for _, d := range rows[len(rows)-14 : len(rows)-7] {
			older += d.KgWasted
		}
		if older > 0 {
			s.WasteTrend = round1((recent - older) / older * 100)
		}
	}

	s.TotalKgWasted = round2(s.TotalKgWasted)
	s.TotalCost = round2(s.TotalCost)
	if top := topCategory(s.CategoryBreakdown); top != nil {
		s.MostWastedCategory = *top
	}
	return s
}

func summarizeShopping(rows []models.ShoppingAnalytics) ShoppingSummary {
	s := ShoppingSummary{MostPurchasedCategory: "N/A", CategoryBreakdown: map[string]float64{}}
	if len(rows) == 0 {
		return s
	}
	aiUsed := 0
	for _, d := range rows {
		s.TotalItemsPurchased += d.ItemsPurchased
		s.TotalCost += d.EstimatedCost
		aiUsed += d.AISuggestionsUsed
		for category, n := range d.CategoryBreakdown.Data() {
			s.CategoryBreakdown[category] += n
		}
	}
	s.AvgItemsPerTrip = round1(float64(s.TotalItemsPurchased) / float64(len(rows)))
	if s.TotalItemsPurchased > 0 {
		s.AIAdoptionRate = round1(float64(aiUsed) / float64(s.TotalItemsPurchased) * 100)
	}
	s.TotalCost = round2(s.TotalCost)
	if top := topCategory(s.CategoryBreakdown); top != nil {
		s.MostPurchasedCategory = *top
	}
	return s
}

// kilograms converts mass units to kg; other units do not count.
func kilograms(quantity float64, unit string) float64 {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "kg":
		return quantity
	case "g":
		return quantity / 1000
	default:
		return 0
	}
}

func categoryOrDefault(category string) string {
	if strings.TrimSpace(category) == "" {
		return defaultCategory
	}
	return category
}

// topCategory returns the category with the highest count, ties broken by name.
func topCategory(breakdown map[string]float64) *string {
	if len(breakdown) == 0 {
		return nil
	}
	names := make([]string, 0, len(breakdown))
	for name := range breakdown {
		names = append(names, name)
	}
	sort.Strings(names)

	best := names[0]
	for _, name := range names[1:] {
		if breakdown[name] > breakdown[best] {
			best = name
		}
	}
	return &best
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
