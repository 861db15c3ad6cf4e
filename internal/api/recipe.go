package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pageza/foodflow/backend/internal/middleware"
	"github.com/pageza/foodflow/backend/internal/service"
)

type RecipeHandler struct {
	recipeService       service.IRecipeService
	gamificationService service.IGamificationService
	limiter             *middleware.RateLimiter
}

// NewRecipeHandler accepts a nil limiter; suggestions are then unthrottled.
func NewRecipeHandler(recipeService service.IRecipeService, gamificationService service.IGamificationService, limiter *middleware.RateLimiter) *RecipeHandler {
	return &RecipeHandler{
		recipeService:       recipeService,
		gamificationService: gamificationService,
		limiter:             limiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		throttled := h.limiter.RateLimitMiddleware()
		recipes.GET("/suggestions", throttled, h.Suggestions)
		recipes.GET("/expiring", throttled, h.Expiring)
		recipes.GET("/rate-limit", h.RateLimitStatus)
		recipes.POST("/cooked", h.Cooked)
	}
}

func (h *RecipeHandler) Suggestions(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	maxRecipes, ok := intQuery(c, "max_recipes", 5)
	if !ok {
		return
	}
	var servings *int
	if c.Query("servings") != "" {
		n, ok := intQuery(c, "servings", 0)
		if !ok {
			return
		}
		servings = &n
	}

	recipes, err := h.recipeService.SuggestRecipes(c.Request.Context(), userID, maxRecipes, servings)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", recipes)
}

func (h *RecipeHandler) Expiring(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	recipes, err := h.recipeService.ExpiringRecipes(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", recipes)
}

func (h *RecipeHandler) RateLimitStatus(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if h.limiter == nil {
		respond(c, http.StatusOK, "", gin.H{"enabled": false})
		return
	}

	remaining, reset, err := h.limiter.GetRemainingRequests(c.Request.Context(), strconv.FormatUint(uint64(userID), 10))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "", gin.H{
		"enabled":   true,
		"limit":     h.limiter.Limit(),
		"window":    h.limiter.Window().String(),
		"remaining": remaining,
		"reset_at":  reset,
	})
}

func (h *RecipeHandler) Cooked(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	result, err := h.gamificationService.RecordRecipeCooked(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Recipe recorded", result)
}
