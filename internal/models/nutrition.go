package models

import (
	"time"

	"gorm.io/datatypes"
)

// Meal types accepted by meal_plan.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

// Daily goals applied when a user has no nutritional_goal row.
const (
	DefaultCaloriesGoal = 2000.0
	DefaultProteinGoal  = 150.0
	DefaultCarbsGoal    = 250.0
	DefaultFatGoal      = 65.0
	DefaultFiberGoal    = 25.0
)

type NutritionalProfile struct {
	ID                  uint                        `gorm:"primarykey" json:"id"`
	UserID              uint                        `gorm:"not null;uniqueIndex" json:"user_id"`
	User                *User                       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Age                 *int                        `json:"age,omitempty"`
	Weight              *float64                    `json:"weight,omitempty"`
	Height              *float64                    `json:"height,omitempty"`
	Gender              string                      `gorm:"size:10;default:'male'" json:"gender"`
	ActivityLevel       string                      `gorm:"size:20;default:'moderate'" json:"activity_level"`
	Goal                string                      `gorm:"size:20;default:'maintain'" json:"goal"`
	DietaryRestrictions datatypes.JSONSlice[string] `gorm:"type:json" json:"dietary_restrictions"`
	Allergies           datatypes.JSONSlice[string] `gorm:"type:json" json:"allergies"`
	CreatedAt           time.Time                   `json:"created_at"`
	UpdatedAt           time.Time                   `json:"updated_at"`
}

func (NutritionalProfile) TableName() string { return "nutritional_profile" }

type NutritionalGoal struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	UserID        uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	User          *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	DailyCalories float64   `json:"daily_calories"`
	DailyProtein  float64   `json:"daily_protein"`
	DailyCarbs    float64   `json:"daily_carbs"`
	DailyFat      float64   `json:"daily_fat"`
	DailyFiber    float64   `json:"daily_fiber"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (NutritionalGoal) TableName() string { return "nutritional_goal" }

type MealPlan struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	UserID     uint      `gorm:"not null;index:idx_user_date" json:"user_id"`
	User       *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Date       time.Time `gorm:"type:date;not null;index:idx_user_date" json:"date"`
	MealType   string    `gorm:"size:20;not null" json:"meal_type"`
	CustomMeal string    `gorm:"type:text" json:"custom_meal,omitempty"`
	IsShared   bool      `gorm:"not null" json:"is_shared"`
	Calories   *float64  `json:"calories,omitempty"`
	Protein    *float64  `json:"protein,omitempty"`
	Carbs      *float64  `json:"carbs,omitempty"`
	Fat        *float64  `json:"fat,omitempty"`
	Fiber      *float64  `json:"fiber,omitempty"`
	Servings   int       `gorm:"not null;default:2" json:"servings"`
	CreatedAt  time.Time `json:"created_at"`
}

func (MealPlan) TableName() string { return "meal_plan" }

// DailyNutrition is unique per (user, date).
type DailyNutrition struct {
	ID                       uint      `gorm:"primarykey" json:"id"`
	UserID                   uint      `gorm:"not null;uniqueIndex:unique_daily_nutrition" json:"user_id"`
	User                     *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Date                     time.Time `gorm:"type:date;not null;uniqueIndex:unique_daily_nutrition" json:"date"`
	CaloriesConsumed         float64   `gorm:"not null;default:0" json:"calories_consumed"`
	ProteinConsumed          float64   `gorm:"not null;default:0" json:"protein_consumed"`
	CarbsConsumed            float64   `gorm:"not null;default:0" json:"carbs_consumed"`
	FatConsumed              float64   `gorm:"not null;default:0" json:"fat_consumed"`
	FiberConsumed            float64   `gorm:"not null;default:0" json:"fiber_consumed"`
	CaloriesGoal             float64   `gorm:"not null" json:"calories_goal"`
	ProteinGoal              float64   `gorm:"not null" json:"protein_goal"`
	CarbsGoal                float64   `gorm:"not null" json:"carbs_goal"`
	FatGoal                  float64   `gorm:"not null" json:"fat_goal"`
	FiberGoal                float64   `gorm:"not null" json:"fiber_goal"`
	GoalCompletionPercentage float64   `gorm:"not null;default:0" json:"goal_completion_percentage"`
	ConsistencyScore         float64   `gorm:"not null;default:0" json:"consistency_score"`
	CreatedAt                time.Time `json:"created_at"`
}

func (DailyNutrition) TableName() string { return "daily_nutrition" }
