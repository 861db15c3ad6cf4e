package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pageza/foodflow/backend/internal/service"
	"github.com/pageza/foodflow/backend/internal/types"
)

type NutritionHandler struct {
	nutritionService service.INutritionService
}

func NewNutritionHandler(nutritionService service.INutritionService) *NutritionHandler {
	return &NutritionHandler{nutritionService: nutritionService}
}

func (h *NutritionHandler) RegisterRoutes(router *gin.RouterGroup) {
	nutrition := router.Group("/nutrition")
	{
		nutrition.GET("/profile", h.GetProfile)
		nutrition.PUT("/profile", h.UpsertProfile)
		nutrition.GET("/goals", h.GetGoals)
		nutrition.GET("/daily", h.GetDaily)
		nutrition.POST("/daily", h.AddDaily)
	}

	plans := router.Group("/meal-plans")
	{
		plans.GET("", h.ListMealPlans)
		plans.POST("", h.CreateMealPlan)
		plans.GET("/suggestions", h.SuggestWeeklyMealPlan)
		plans.DELETE("/:id", h.DeleteMealPlan)
		plans.GET("/:id/analysis", h.AnalyzeMealPlan)
		plans.POST("/:id/shopping-list", h.MealPlanToShoppingList)
		plans.POST("/:id/consume", h.ConsumeMealPlan)
	}
}

func (h *NutritionHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	profile, err := h.nutritionService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", profile)
}

func (h *NutritionHandler) UpsertProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req types.NutritionalProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.nutritionService.UpsertProfile(c.Request.Context(), userID, service.ProfileInput{
		Age:                 req.Age,
		Weight:              req.Weight,
		Height:              req.Height,
		Gender:              req.Gender,
		ActivityLevel:       req.ActivityLevel,
		Goal:                req.Goal,
		DietaryRestrictions: req.DietaryRestrictions,
		Allergies:           req.Allergies,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	message := "Profile saved"
	if result.Goals != nil {
		message = "Profile saved and goals updated"
	}
	respond(c, http.StatusOK, message, result)
}

func (h *NutritionHandler) GetGoals(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	goals, err := h.nutritionService.GetGoals(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", goals)
}

func (h *NutritionHandler) GetDaily(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	date, ok := dateQuery(c, "date")
	if !ok {
		return
	}
	if date.IsZero() {
		date = time.Now()
	}
	row, err := h.nutritionService.GetDailyNutrition(c.Request.Context(), userID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", row)
}

func (h *NutritionHandler) AddDaily(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req types.DailyNutritionRequest
	if !bindJSON(c, &req) {
		return
	}
	date := req.Date.Time
	if date.IsZero() {
		date = time.Now()
	}

	row, err := h.nutritionService.UpsertDailyNutrition(c.Request.Context(), userID, date, service.NutritionDelta{
		Calories: req.Calories,
		Protein:  req.Protein,
		Carbs:    req.Carbs,
		Fat:      req.Fat,
		Fiber:    req.Fiber,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Nutrition updated", row)
}

func (h *NutritionHandler) ListMealPlans(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	from, ok := dateQuery(c, "from")
	if !ok {
		return
	}
	to, ok := dateQuery(c, "to")
	if !ok {
		return
	}
	plans, err := h.nutritionService.ListMealPlans(c.Request.Context(), userID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", plans)
}

func (h *NutritionHandler) SuggestWeeklyMealPlan(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	days, ok := intQuery(c, "days", 7)
	if !ok {
		return
	}
	plan, err := h.nutritionService.SuggestWeeklyMealPlan(c.Request.Context(), userID, days)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", plan)
}

func (h *NutritionHandler) CreateMealPlan(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req types.CreateMealPlanRequest
	if !bindJSON(c, &req) {
		return
	}

	plan, err := h.nutritionService.CreateMealPlan(c.Request.Context(), userID, service.MealPlanInput{
		Date:       req.Date.Time,
		MealType:   req.MealType,
		CustomMeal: req.CustomMeal,
		IsShared:   req.IsShared,
		Calories:   req.Calories,
		Protein:    req.Protein,
		Carbs:      req.Carbs,
		Fat:        req.Fat,
		Fiber:      req.Fiber,
		Servings:   req.Servings,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Meal planned", plan)
}

func (h *NutritionHandler) DeleteMealPlan(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	planID, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.nutritionService.DeleteMealPlan(c.Request.Context(), userID, planID); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Meal plan deleted", nil)
}

func (h *NutritionHandler) AnalyzeMealPlan(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	planID, ok := idParam(c, "id")
	if !ok {
		return
	}
	analysis, err := h.nutritionService.AnalyzeMealPlan(c.Request.Context(), userID, planID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", analysis)
}

func (h *NutritionHandler) MealPlanToShoppingList(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	planID, ok := idParam(c, "id")
	if !ok {
		return
	}
	list, added, err := h.nutritionService.MealPlanToShoppingList(c.Request.Context(), userID, planID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Missing ingredients added", gin.H{"list": list, "added": added})
}

func (h *NutritionHandler) ConsumeMealPlan(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	planID, ok := idParam(c, "id")
	if !ok {
		return
	}
	row, err := h.nutritionService.ConsumeMealPlan(c.Request.Context(), userID, planID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Meal consumed", row)
}

func dateQuery(c *gin.Context, name string) (time.Time, bool) {
	t, err := types.ParseDate(c.Query(name))
	if err != nil {
		badRequest(c, "invalid "+name+", expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return t, true
}
