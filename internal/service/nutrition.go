package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/pageza/foodflow/backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

var goalFactors = map[string]float64{
	"maintain":    1.0,
	"lose_weight": 0.8,
	"gain_weight": 1.15,
	"muscle_gain": 1.1,
}

var mealTypes = map[string]bool{
	models.MealBreakfast: true,
	models.MealLunch:     true,
	models.MealDinner:    true,
	models.MealSnack:     true,
}

// NutritionDelta holds the macros to add to a day. All values must be >= 0.
type NutritionDelta struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
}

type ProfileInput struct {
	Age                 *int
	Weight              *float64
	Height              *float64
	Gender              string
	ActivityLevel       string
	Goal                string
	DietaryRestrictions []string
	Allergies           []string
}

type ProfileResult struct {
	Profile *models.NutritionalProfile `json:"profile"`
	Goals   *models.NutritionalGoal    `json:"goals,omitempty"`
}

type MealPlanInput struct {
	Date       time.Time
	MealType   string
	CustomMeal string
	IsShared   bool
	Calories   *float64
	Protein    *float64
	Carbs      *float64
	Fat        *float64
	Fiber      *float64
	Servings   int
}

type Ingredient struct {
	Item     string  `json:"item"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

type MealPlanAnalysis struct {
	MealPlanID uint              `json:"meal_plan_id"`
	Missing    []Ingredient      `json:"missing_ingredients"`
	Available  []Ingredient      `json:"already_available"`
	Nutrition  MealPlanNutrition `json:"nutrition"`
}

// MealPlanNutrition carries the plan's macros, or a flat estimate when any of
// calories, protein, carbs or fat is unset.
type MealPlanNutrition struct {
	Calories     float64 `json:"calories"`
	Protein      float64 `json:"protein"`
	Carbs        float64 `json:"carbs"`
	Fat          float64 `json:"fat"`
	Fiber        float64 `json:"fiber"`
	BalanceScore float64 `json:"balance_score"`
	Estimated    bool    `json:"estimated"`
}

type PlannedDay struct {
	Day       string `json:"day"`
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Dinner    string `json:"dinner"`
}

var (
	weekDays        = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
	breakfastIdeas  = []string{"Omelette", "Porridge", "Pancakes", "Yogurt con frutta"}
	lunchIdeas      = []string{"Insalata di pollo", "Pasta integrale", "Riso con verdure", "Zuppa di legumi"}
	dinnerIdeas     = []string{"Pesce al forno", "Pollo alla griglia", "Burger vegetariano", "Salmone"}
	estimatedMacros = MealPlanNutrition{Calories: 500, Protein: 30, Carbs: 60, Fat: 20, Fiber: 10, BalanceScore: 75, Estimated: true}
)

// NutritionService covers profiles, goals, meal plans and daily tracking.
type NutritionService struct {
	db  *gorm.DB
	now func() time.Time
}

var _ INutritionService = (*NutritionService)(nil)

func NewNutritionService(db *gorm.DB) *NutritionService {
	return &NutritionService{db: db, now: time.Now}
}

// CalculateGoals derives daily targets from a complete profile with the
// Mifflin-St Jeor equation. It returns nil when age, weight or height is missing.
func CalculateGoals(p *models.NutritionalProfile) *models.NutritionalGoal {
	if p == nil || p.Age == nil || p.Weight == nil || p.Height == nil {
		return nil
	}
	weight, height, age := *p.Weight, *p.Height, float64(*p.Age)

	bmr := 10*weight + 6.25*height - 5*age
	if strings.EqualFold(p.Gender, "male") {
		bmr += 5
	} else {
		bmr -= 161
	}

	multiplier, ok := activityMultipliers[p.ActivityLevel]
	if !ok {
		multiplier = activityMultipliers["moderate"]
	}
	factor, ok := goalFactors[p.Goal]
	if !ok {
		factor = 1
	}
	calories := bmr * multiplier * factor

	protein := weight * 1.8
	fat := calories * 0.28 / 9
	carbs := (calories - protein*4 - fat*9) / 4
	fiber := calories / 1000 * 14

	return &models.NutritionalGoal{
		UserID:        p.UserID,
		DailyCalories: math.Round(calories),
		DailyProtein:  round1(protein),
		DailyCarbs:    round1(math.Max(0, carbs)),
		DailyFat:      round1(fat),
		DailyFiber:    round1(fiber),
	}
}

func validateProfile(in ProfileInput) error {
	switch {
	case in.Age != nil && (*in.Age < 1 || *in.Age > 120):
		return invalid("age", "must be between 1 and 120")
	case in.Weight != nil && (*in.Weight < 20 || *in.Weight > 300):
		return invalid("weight", "must be between 20 and 300 kg")
	case in.Height != nil && (*in.Height < 50 || *in.Height > 250):
		return invalid("height", "must be between 50 and 250 cm")
	}
	if in.Gender != "" && in.Gender != "male" && in.Gender != "female" && in.Gender != "other" {
		return invalid("gender", "must be male, female or other")
	}
	if _, ok := activityMultipliers[in.ActivityLevel]; in.ActivityLevel != "" && !ok {
		return invalid("activity_level", "unsupported value %q", in.ActivityLevel)
	}
	if _, ok := goalFactors[in.Goal]; in.Goal != "" && !ok {
		return invalid("goal", "unsupported value %q", in.Goal)
	}
	return nil
}

// UpsertProfile stores the profile and, when it is complete, recomputes the goals.
func (s *NutritionService) UpsertProfile(ctx context.Context, userID uint, in ProfileInput) (*ProfileResult, error) {
	if err := validateProfile(in); err != nil {
		return nil, err
	}

	result := &ProfileResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireUser(tx, userID); err != nil {
			return err
		}

		profile := models.NutritionalProfile{UserID: userID}
		if err := tx.Where("user_id = ?", userID).Limit(1).Find(&profile).Error; err != nil {
			return err
		}
		profile.Age, profile.Weight, profile.Height = in.Age, in.Weight, in.Height
		profile.Gender = orDefault(in.Gender, "male")
		profile.ActivityLevel = orDefault(in.ActivityLevel, "moderate")
		profile.Goal = orDefault(in.Goal, "maintain")
		profile.DietaryRestrictions = datatypes.JSONSlice[string](cleanList(in.DietaryRestrictions))
		profile.Allergies = datatypes.JSONSlice[string](cleanList(in.Allergies))
		if err := tx.Save(&profile).Error; err != nil {
			return err
		}
		result.Profile = &profile

		goals := CalculateGoals(&profile)
		if goals == nil {
			return nil
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"daily_calories", "daily_protein", "daily_carbs", "daily_fat", "daily_fiber", "updated_at"}),
		}).Create(goals).Error; err != nil {
			return err
		}
		var stored models.NutritionalGoal
		if err := tx.Where("user_id = ?", userID).First(&stored).Error; err != nil {
			return err
		}
		result.Goals = &stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *NutritionService) GetProfile(ctx context.Context, userID uint) (*models.NutritionalProfile, error) {
	var profile models.NutritionalProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, translateError(err)
	}
	return &profile, nil
}

// GetGoals returns the stored goals, or the defaults when none are stored.
func (s *NutritionService) GetGoals(ctx context.Context, userID uint) (*models.NutritionalGoal, error) {
	return goalsFor(s.db.WithContext(ctx), userID)
}

func goalsFor(tx *gorm.DB, userID uint) (*models.NutritionalGoal, error) {
	var goals []models.NutritionalGoal
	if err := tx.Where("user_id = ?", userID).Limit(1).Find(&goals).Error; err != nil {
		return nil, err
	}
	if len(goals) == 1 {
		return &goals[0], nil
	}
	return &models.NutritionalGoal{
		UserID:        userID,
		DailyCalories: models.DefaultCaloriesGoal,
		DailyProtein:  models.DefaultProteinGoal,
		DailyCarbs:    models.DefaultCarbsGoal,
		DailyFat:      models.DefaultFatGoal,
		DailyFiber:    models.DefaultFiberGoal,
	}, nil
}

// UpsertDailyNutrition adds delta to the user's totals for date. The first
// write of a day snapshots the current goals into the row.
func (s *NutritionService) UpsertDailyNutrition(ctx context.Context, userID uint, date time.Time, delta NutritionDelta) (*models.DailyNutrition, error) {
	if err := validateDelta(delta); err != nil {
		return nil, err
	}

	var row *models.DailyNutrition
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireUser(tx, userID); err != nil {
			return err
		}
		var err error
		row, err = upsertDailyNutrition(tx, userID, models.DateOf(date), delta)
		return err
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

func validateDelta(d NutritionDelta) error {
	fields := []struct {
		name  string
		value float64
	}{
		{"calories", d.Calories}, {"protein", d.Protein}, {"carbs", d.Carbs}, {"fat", d.Fat}, {"fiber", d.Fiber},
	}
	for _, f := range fields {
		if f.value < 0 || math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return invalid(f.name, "must be a non-negative number")
		}
	}
	return nil
}

func upsertDailyNutrition(tx *gorm.DB, userID uint, day time.Time, d NutritionDelta) (*models.DailyNutrition, error) {
	goals, err := goalsFor(tx, userID)
	if err != nil {
		return nil, err
	}

	var before models.DailyNutrition
	if err := tx.Where("user_id = ? AND date = ?", userID, day).Limit(1).Find(&before).Error; err != nil {
		return nil, err
	}

	row := models.DailyNutrition{
		UserID:           userID,
		Date:             day,
		CaloriesConsumed: d.Calories,
		ProteinConsumed:  d.Protein,
		CarbsConsumed:    d.Carbs,
		FatConsumed:      d.Fat,
		FiberConsumed:    d.Fiber,
		CaloriesGoal:     goals.DailyCalories,
		ProteinGoal:      goals.DailyProtein,
		CarbsGoal:        goals.DailyCarbs,
		FatGoal:          goals.DailyFat,
		FiberGoal:        goals.DailyFiber,
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"calories_consumed": gorm.Expr("daily_nutrition.calories_consumed + ?", d.Calories),
			"protein_consumed":  gorm.Expr("daily_nutrition.protein_consumed + ?", d.Protein),
			"carbs_consumed":    gorm.Expr("daily_nutrition.carbs_consumed + ?", d.Carbs),
			"fat_consumed":      gorm.Expr("daily_nutrition.fat_consumed + ?", d.Fat),
			"fiber_consumed":    gorm.Expr("daily_nutrition.fiber_consumed + ?", d.Fiber),
		}),
	}).Create(&row).Error; err != nil {
		return nil, translateError(err)
	}

	var stored models.DailyNutrition
	if err := tx.Where("user_id = ? AND date = ?", userID, day).First(&stored).Error; err != nil {
		return nil, err
	}

	var tracked int64
	if err := tx.Model(&models.DailyNutrition{}).
		Where("user_id = ? AND date > ? AND date <= ?", userID, day.AddDate(0, 0, -7), day).
		Count(&tracked).Error; err != nil {
		return nil, err
	}

	stored.GoalCompletionPercentage = GoalCompletion(&stored)
	stored.ConsistencyScore = round1(float64(tracked) / 7 * 100)
	if err := tx.Model(&stored).Updates(map[string]interface{}{
		"goal_completion_percentage": stored.GoalCompletionPercentage,
		"consistency_score":          stored.ConsistencyScore,
	}).Error; err != nil {
		return nil, err
	}

	if before.GoalCompletionPercentage < 100 && stored.GoalCompletionPercentage >= 100 {
		if _, err := awardPoints(tx, userID, ActionAchieveNutritionGoal, PointsTable[ActionAchieveNutritionGoal]); err != nil {
			return nil, err
		}
	}
	if before.ID == 0 {
		if _, err := evaluateBadges(tx, userID); err != nil {
			return nil, err
		}
	}
	return &stored, nil
}

// GoalCompletion averages consumed/goal over macros with a positive goal,
// capping each ratio at 100%.
func GoalCompletion(d *models.DailyNutrition) float64 {
	pairs := [][2]float64{
		{d.CaloriesConsumed, d.CaloriesGoal},
		{d.ProteinConsumed, d.ProteinGoal},
		{d.CarbsConsumed, d.CarbsGoal},
		{d.FatConsumed, d.FatGoal},
		{d.FiberConsumed, d.FiberGoal},
	}
	total, n := 0.0, 0
	for _, p := range pairs {
		if p[1] <= 0 {
			continue
		}
		total += math.Min(p[0]/p[1], 1) * 100
		n++
	}
	if n == 0 {
		return 0
	}
	return round1(total / float64(n))
}

func (s *NutritionService) GetDailyNutrition(ctx context.Context, userID uint, date time.Time) (*models.DailyNutrition, error) {
	var row models.DailyNutrition
	err := s.db.WithContext(ctx).Where("user_id = ? AND date = ?", userID, models.DateOf(date)).First(&row).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &row, nil
}

func (s *NutritionService) CreateMealPlan(ctx context.Context, userID uint, in MealPlanInput) (*models.MealPlan, error) {
	mealType := strings.ToLower(strings.TrimSpace(in.MealType))
	switch {
	case in.Date.IsZero():
		return nil, invalid("date", "is required")
	case !mealTypes[mealType]:
		return nil, invalid("meal_type", "must be breakfast, lunch, dinner or snack")
	case in.Servings < 0:
		return nil, invalid("servings", "must not be negative")
	}
	for name, v := range map[string]*float64{"calories": in.Calories, "protein": in.Protein, "carbs": in.Carbs, "fat": in.Fat, "fiber": in.Fiber} {
		if v != nil && *v < 0 {
			return nil, invalid(name, "must not be negative")
		}
	}

	plan := &models.MealPlan{
		UserID:     userID,
		Date:       models.DateOf(in.Date),
		MealType:   mealType,
		CustomMeal: strings.TrimSpace(in.CustomMeal),
		IsShared:   in.IsShared,
		Calories:   in.Calories,
		Protein:    in.Protein,
		Carbs:      in.Carbs,
		Fat:        in.Fat,
		Fiber:      in.Fiber,
		Servings:   in.Servings,
	}
	if plan.Servings == 0 {
		plan.Servings = 2
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireUser(tx, userID); err != nil {
			return err
		}
		return translateError(tx.Create(plan).Error)
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// ListMealPlans returns own and family-shared plans dated within [from, to].
func (s *NutritionService) ListMealPlans(ctx context.Context, userID uint, from, to time.Time) ([]models.MealPlan, error) {
	db := s.db.WithContext(ctx)
	q := visibleTo(db.Model(&models.MealPlan{}), "meal_plan", userID)
	if !from.IsZero() {
		q = q.Where("meal_plan.date >= ?", models.DateOf(from))
	}
	if !to.IsZero() {
		q = q.Where("meal_plan.date <= ?", models.DateOf(to))
	}
	var plans []models.MealPlan
	err := q.Order("meal_plan.date, meal_plan.id").Find(&plans).Error
	return plans, err
}

func (s *NutritionService) DeleteMealPlan(ctx context.Context, userID, planID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var plan models.MealPlan
		if err := tx.First(&plan, planID).Error; err != nil {
			return fmt.Errorf("meal plan %d: %w", planID, translateError(err))
		}
		if plan.UserID != userID {
			return ErrForbidden
		}
		return tx.Delete(&plan).Error
	})
}

// AnalyzeMealPlan splits the plan's ingredients by pantry availability.
func (s *NutritionService) AnalyzeMealPlan(ctx context.Context, userID, planID uint) (*MealPlanAnalysis, error) {
	db := s.db.WithContext(ctx)
	plan, err := loadVisibleMealPlan(db, userID, planID)
	if err != nil {
		return nil, err
	}
	missing, available, _, err := splitIngredients(db, userID, ParseIngredients(plan.CustomMeal))
	if err != nil {
		return nil, err
	}
	return &MealPlanAnalysis{
		MealPlanID: plan.ID,
		Missing:    missing,
		Available:  available,
		Nutrition:  mealPlanNutrition(plan),
	}, nil
}

func mealPlanNutrition(plan *models.MealPlan) MealPlanNutrition {
	for _, v := range []*float64{plan.Calories, plan.Protein, plan.Carbs, plan.Fat} {
		if v == nil || *v == 0 {
			return estimatedMacros
		}
	}
	return MealPlanNutrition{
		Calories:     *plan.Calories,
		Protein:      *plan.Protein,
		Carbs:        *plan.Carbs,
		Fat:          *plan.Fat,
		Fiber:        valueOr(plan.Fiber),
		BalanceScore: BalanceScore(*plan.Protein, *plan.Carbs, *plan.Fat),
	}
}

// BalanceScore rates a macro split from 0 to 100 by its distance from 30%
// protein, 50% carbs and 20% fat of the calories they provide.
func BalanceScore(protein, carbs, fat float64) float64 {
	total := protein*4 + carbs*4 + fat*9
	if protein <= 0 || carbs <= 0 || fat <= 0 || total == 0 {
		return 0
	}
	deviation := math.Abs(protein*4/total*100-30) +
		math.Abs(carbs*4/total*100-50) +
		math.Abs(fat*9/total*100-20)
	return math.Round(math.Max(0, 100-deviation))
}

// SuggestWeeklyMealPlan proposes breakfast, lunch and dinner for up to seven
// days starting on Monday. Nothing is persisted.
func (s *NutritionService) SuggestWeeklyMealPlan(ctx context.Context, userID uint, days int) ([]PlannedDay, error) {
	if days <= 0 || days > len(weekDays) {
		days = len(weekDays)
	}
	if err := requireUser(s.db.WithContext(ctx), userID); err != nil {
		return nil, err
	}

	plan := make([]PlannedDay, 0, days)
	for i, day := range weekDays[:days] {
		plan = append(plan, PlannedDay{
			Day:       day,
			Breakfast: breakfastIdeas[i%len(breakfastIdeas)],
			Lunch:     lunchIdeas[i%len(lunchIdeas)],
			Dinner:    dinnerIdeas[i%len(dinnerIdeas)],
		})
	}
	return plan, nil
}

// MealPlanToShoppingList adds the plan's missing ingredients to the newest open
// list, creating a smart list when the user has none.
func (s *NutritionService) MealPlanToShoppingList(ctx context.Context, userID, planID uint) (*models.ShoppingList, []Ingredient, error) {
	var list *models.ShoppingList
	var added []Ingredient
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		plan, err := loadVisibleMealPlan(tx, userID, planID)
		if err != nil {
			return err
		}
		missing, _, _, err := splitIngredients(tx, userID, ParseIngredients(plan.CustomMeal))
		if err != nil {
			return err
		}

		var open models.ShoppingList
		if err := tx.Where("user_id = ? AND completed = ?", userID, false).
			Order("created_at DESC, id DESC").Limit(1).Find(&open).Error; err != nil {
			return err
		}
		if open.ID == 0 {
			open = models.ShoppingList{UserID: userID, Name: "Lista spesa", IsSmart: true}
			if err := tx.Create(&open).Error; err != nil {
				return err
			}
		}
		if list, err = loadOwnedList(tx, userID, open.ID); err != nil {
			return err
		}

		for _, ing := range missing {
			if _, err := mergeItem(tx, list, models.ShoppingItem{
				Name:     ing.Item,
				Quantity: ing.Quantity,
				Unit:     ing.Unit,
				Priority: models.PriorityMedium,
			}); err != nil {
				return err
			}
			added = append(added, ing)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return list, added, nil
}

// ConsumeMealPlan takes the available ingredients out of the pantry and logs
// the plan's macros on its date.
func (s *NutritionService) ConsumeMealPlan(ctx context.Context, userID, planID uint) (*models.DailyNutrition, error) {
	var row *models.DailyNutrition
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		plan, err := loadVisibleMealPlan(tx, userID, planID)
		if err != nil {
			return err
		}
		_, available, sources, err := splitIngredients(tx, userID, ParseIngredients(plan.CustomMeal))
		if err != nil {
			return err
		}
		for i, ing := range available {
			if err := tx.Model(&models.Product{}).Where("id = ?", sources[i]).
				Update("quantity", gorm.Expr("CASE WHEN quantity > ? THEN quantity - ? ELSE 0 END", ing.Quantity, ing.Quantity)).
				Error; err != nil {
				return err
			}
		}

		row, err = upsertDailyNutrition(tx, userID, models.DateOf(plan.Date), NutritionDelta{
			Calories: valueOr(plan.Calories),
			Protein:  valueOr(plan.Protein),
			Carbs:    valueOr(plan.Carbs),
			Fat:      valueOr(plan.Fat),
			Fiber:    valueOr(plan.Fiber),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

// ParseIngredients reads {"ingredients":[{"item","quantity","unit"}]} from a
// meal description. Free text yields no ingredients.
func ParseIngredients(customMeal string) []Ingredient {
	var payload struct {
		Ingredients []struct {
			Item     string      `json:"item"`
			Quantity json.Number `json:"quantity"`
			Unit     string      `json:"unit"`
		} `json:"ingredients"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(customMeal)), &payload); err != nil {
		return nil
	}

	var out []Ingredient
	for _, raw := range payload.Ingredients {
		name := strings.TrimSpace(raw.Item)
		qty, err := raw.Quantity.Float64()
		if name == "" || err != nil || qty <= 0 {
			continue
		}
		unit := strings.TrimSpace(raw.Unit)
		if unit == "" {
			unit = "unit"
		}
		out = append(out, Ingredient{Item: name, Quantity: qty, Unit: unit})
	}
	return out
}

// splitIngredients marks an ingredient available when one unwasted product of
// the user has the same name and unit and enough quantity left. sources holds
// the id of that product for each available ingredient. Products are drawn
// soonest expiry first and each draw reduces what later ingredients can use.
func splitIngredients(tx *gorm.DB, userID uint, ingredients []Ingredient) (missing, available []Ingredient, sources []uint, err error) {
	missing, available = []Ingredient{}, []Ingredient{}
	if len(ingredients) == 0 {
		return missing, available, nil, nil
	}

	var products []models.Product
	if err := tx.Where("user_id = ? AND wasted = ?", userID, false).
		Order("expiry_date, id").Find(&products).Error; err != nil {
		return nil, nil, nil, err
	}
	byName := make(map[string][]*models.Product, len(products))
	for i := range products {
		key := strings.ToLower(strings.TrimSpace(products[i].Name))
		byName[key] = append(byName[key], &products[i])
	}

	for _, ing := range ingredients {
		var source *models.Product
		for _, p := range byName[strings.ToLower(ing.Item)] {
			if p.Unit == ing.Unit && p.Quantity >= ing.Quantity {
				source = p
				break
			}
		}
		if source == nil {
			missing = append(missing, ing)
			continue
		}
		source.Quantity -= ing.Quantity
		available = append(available, ing)
		sources = append(sources, source.ID)
	}
	return missing, available, sources, nil
}

func loadVisibleMealPlan(tx *gorm.DB, userID, planID uint) (*models.MealPlan, error) {
	var plan models.MealPlan
	err := visibleTo(tx.Model(&models.MealPlan{}), "meal_plan", userID).
		Where("meal_plan.id = ?", planID).First(&plan).Error
	if err != nil {
		return nil, fmt.Errorf("meal plan %d: %w", planID, translateError(err))
	}
	return &plan, nil
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

func valueOr(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
