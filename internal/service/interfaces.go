package service

import (
	"context"
	"time"

	"github.com/pageza/foodflow/backend/internal/models"
	"github.com/pageza/foodflow/backend/internal/types"
)

// IUserService defines the interface for user lifecycle operations
type IUserService interface {
	CreateUser(ctx context.Context, username, email, passwordHash string) (*models.User, error)
	GetUser(ctx context.Context, userID uint) (*models.User, error)
	DeleteUser(ctx context.Context, userID uint) error
}

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	GenerateToken(claims *types.TokenClaims) (string, error)
}

// IFamilyService defines the interface for family sharing
type IFamilyService interface {
	CreateFamily(ctx context.Context, userID uint, name string) (*models.Family, error)
	JoinFamily(ctx context.Context, userID uint, familyCode string) (*models.Family, error)
	LeaveFamily(ctx context.Context, userID, familyID uint) error
	ListFamilies(ctx context.Context, userID uint) ([]models.Family, error)
	Members(ctx context.Context, userID, familyID uint) ([]FamilyMemberView, error)
}

// IProductService defines the interface for pantry operations
type IProductService interface {
	AddProduct(ctx context.Context, userID uint, in ProductInput) (*models.Product, error)
	ListProducts(ctx context.Context, userID uint, filter ProductFilter) ([]models.Product, error)
	GetProduct(ctx context.Context, userID, productID uint) (*models.Product, error)
	UpdateProduct(ctx context.Context, userID, productID uint, upd ProductUpdate) (*models.Product, error)
	DeleteProduct(ctx context.Context, userID, productID uint) error
	WasteProduct(ctx context.Context, userID, productID uint, percentage float64) (*WasteResult, error)
	ExpiringProducts(ctx context.Context, userID uint, days int) ([]models.Product, error)
	LowStockProducts(ctx context.Context, userID uint) ([]models.Product, error)
}

// IShoppingService defines the interface for shopping list operations
type IShoppingService interface {
	CreateList(ctx context.Context, userID uint, in ShoppingListInput) (*models.ShoppingList, error)
	ListLists(ctx context.Context, userID uint, includeCompleted bool) ([]models.ShoppingList, error)
	GetList(ctx context.Context, userID, listID uint) (*models.ShoppingList, error)
	DeleteList(ctx context.Context, userID, listID uint) error
	AddItem(ctx context.Context, userID, listID uint, in ShoppingItemInput) (*models.ShoppingItem, error)
	ToggleItem(ctx context.Context, userID, itemID uint) (*models.ShoppingItem, error)
	DeleteItem(ctx context.Context, userID, itemID uint) error
	CompleteList(ctx context.Context, userID, listID uint, actualSpent *float64) (*CompletionResult, error)
	SmartSuggestions(ctx context.Context, userID uint) ([]Suggestion, error)
}

// IGamificationService defines the interface for points and badges
type IGamificationService interface {
	AwardPoints(ctx context.Context, userID uint, action string, amount *int) (*PointsResult, error)
	AwardBadge(ctx context.Context, userID, badgeID uint) (bool, error)
	EvaluateBadges(ctx context.Context, userID uint) ([]models.Badge, error)
	RecordRecipeCooked(ctx context.Context, userID uint) (*PointsResult, error)
	GetStats(ctx context.Context, userID uint) (*StatsOverview, error)
	ListBadges(ctx context.Context) ([]models.Badge, error)
	Leaderboard(ctx context.Context, metric string, topN int, timeframe string) ([]LeaderboardEntry, error)
}

// INutritionService defines the interface for nutrition tracking
type INutritionService interface {
	UpsertProfile(ctx context.Context, userID uint, in ProfileInput) (*ProfileResult, error)
	GetProfile(ctx context.Context, userID uint) (*models.NutritionalProfile, error)
	GetGoals(ctx context.Context, userID uint) (*models.NutritionalGoal, error)
	UpsertDailyNutrition(ctx context.Context, userID uint, date time.Time, delta NutritionDelta) (*models.DailyNutrition, error)
	GetDailyNutrition(ctx context.Context, userID uint, date time.Time) (*models.DailyNutrition, error)
	CreateMealPlan(ctx context.Context, userID uint, in MealPlanInput) (*models.MealPlan, error)
	ListMealPlans(ctx context.Context, userID uint, from, to time.Time) ([]models.MealPlan, error)
	DeleteMealPlan(ctx context.Context, userID, planID uint) error
	AnalyzeMealPlan(ctx context.Context, userID, planID uint) (*MealPlanAnalysis, error)
	MealPlanToShoppingList(ctx context.Context, userID, planID uint) (*models.ShoppingList, []Ingredient, error)
	ConsumeMealPlan(ctx context.Context, userID, planID uint) (*models.DailyNutrition, error)
	SuggestWeeklyMealPlan(ctx context.Context, userID uint, days int) ([]PlannedDay, error)
}

// IAnalyticsService defines the interface for scores, rollups and reports
type IAnalyticsService interface {
	WasteScore(ctx context.Context, userID uint, days int) (*WasteScore, error)
	RecomputeWasteAnalytics(ctx context.Context, userID uint, day time.Time) (*models.WasteAnalytics, error)
	RecomputeShoppingAnalytics(ctx context.Context, userID uint, day time.Time) (*models.ShoppingAnalytics, error)
	RecomputeAll(ctx context.Context, day time.Time) (int, error)
	Summary(ctx context.Context, userID uint, days int) (*Summary, error)
	WeeklyReport(ctx context.Context, userID uint, end time.Time) (*WeeklyReport, error)
}

// INotificationService defines the interface for contextual notifications
type INotificationService interface {
	Notifications(ctx context.Context, userID uint) ([]Notification, error)
}

// IRecipeService defines the interface for recipe suggestions
type IRecipeService interface {
	SuggestRecipes(ctx context.Context, userID uint, maxRecipes int, servings *int) ([]Recipe, error)
	ExpiringRecipes(ctx context.Context, userID uint) ([]Recipe, error)
}

// IReportService defines the interface for report export
type IReportService interface {
	ExportWeeklyReport(ctx context.Context, userID uint) (*ExportedReport, error)
}
