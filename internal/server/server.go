package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pageza/foodflow/backend/config"
	"github.com/pageza/foodflow/backend/internal/api"
	"github.com/pageza/foodflow/backend/internal/database"
	"github.com/pageza/foodflow/backend/internal/middleware"
	"github.com/pageza/foodflow/backend/internal/service"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const shutdownTimeout = 5 * time.Second

// Server represents the HTTP server
type Server struct {
	cfg    *config.Config
	router *gin.Engine
	http   *http.Server
	db     *gorm.DB
}

// New wires the services and routes. cache and store are optional: without
// Redis recipes are neither cached nor rate limited, without a store report
// export is disabled.
func New(cfg *config.Config, db *gorm.DB, cache *redis.Client, store service.ObjectStore) *Server {
	gin.SetMode(cfg.Environment.GinMode())
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.CORS(cfg.CORSOrigins))

	analytics := service.NewAnalyticsService(db)
	services := api.Services{
		Users:         service.NewUserService(db),
		Auth:          service.NewAuthService(db, cfg.JWTSecret),
		Families:      service.NewFamilyService(db),
		Products:      service.NewProductService(db),
		Shopping:      service.NewShoppingService(db),
		Gamification:  service.NewGamificationService(db),
		Nutrition:     service.NewNutritionService(db),
		Analytics:     analytics,
		Notifications: service.NewNotificationService(db),
		Recipes:       service.NewRecipeService(db, service.NewLLMService(cfg), cache),
		Reports:       service.NewReportService(analytics, store),
	}

	ping := func(ctx context.Context) error { return database.HealthCheck(ctx, db) }
	api.RegisterRoutes(router, services, middleware.NewRecipeSuggestionRateLimiter(cache), ping)

	return &Server{
		cfg:    cfg,
		router: router,
		db:     db,
		http: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	errChan := make(chan error, 1)
	go func() {
		log.Printf("[Server] listening on %s (%s)", s.http.Addr, s.cfg.Environment)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errChan:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-quit:
		log.Printf("[Server] received %v, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Shutdown(ctx)
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	log.Println("[Server] stopped")
	return nil
}
