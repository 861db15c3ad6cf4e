package api

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/foodflow/backend/internal/middleware"
	"github.com/pageza/foodflow/backend/internal/service"
)

const apiVersion = "v1.0.0"

// Services bundles the domain services the handlers call.
type Services struct {
	Users         service.IUserService
	Auth          service.IAuthService
	Families      service.IFamilyService
	Products      service.IProductService
	Shopping      service.IShoppingService
	Gamification  service.IGamificationService
	Nutrition     service.INutritionService
	Analytics     service.IAnalyticsService
	Notifications service.INotificationService
	Recipes       service.IRecipeService
	Reports       service.IReportService
}

// HealthCheck reports whether the API and its database are reachable.
func HealthCheck(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			if err := ping(c.Request.Context()); err != nil {
				log.Printf("[API] health check failed: %v", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": "database unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "FoodFlow API is running",
			"version": apiVersion,
		})
	}
}

// RegisterRoutes registers all API routes. recipeLimiter may be nil.
func RegisterRoutes(router *gin.Engine, svc Services, recipeLimiter *middleware.RateLimiter, ping func(ctx context.Context) error) {
	router.GET("/health", HealthCheck(ping))
	router.GET("/api/health", HealthCheck(ping))

	v1 := router.Group("/api/v1")
	NewAuthHandler(svc.Auth, svc.Users).RegisterRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(svc.Auth))

	NewAccountHandler(svc.Users).RegisterRoutes(protected)
	NewProductHandler(svc.Products).RegisterRoutes(protected)
	NewShoppingHandler(svc.Shopping).RegisterRoutes(protected)
	NewGamificationHandler(svc.Gamification).RegisterRoutes(protected)
	NewFamilyHandler(svc.Families).RegisterRoutes(protected)
	NewNutritionHandler(svc.Nutrition).RegisterRoutes(protected)
	NewAnalyticsHandler(svc.Analytics, svc.Reports).RegisterRoutes(protected)
	NewRecipeHandler(svc.Recipes, svc.Gamification, recipeLimiter).RegisterRoutes(protected)
	NewNotificationHandler(svc.Notifications).RegisterRoutes(protected)
}
