package main

import (
	"context"
	"errors"
	"log"

	"github.com/pageza/foodflow/backend/config"
	"github.com/pageza/foodflow/backend/internal/database"
	"github.com/pageza/foodflow/backend/internal/server"
	"github.com/pageza/foodflow/backend/internal/service"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if _, err := database.SeedBadges(db); err != nil {
		log.Fatalf("Failed to seed badges: %v", err)
	}

	var cache *redis.Client
	if cache, err = database.NewRedisClient(cfg); err != nil {
		log.Printf("Redis unavailable, recipe cache and rate limiting disabled: %v", err)
	} else {
		defer cache.Close()
	}

	var store service.ObjectStore
	s3cfg, err := config.NewS3Config(context.Background(), cfg)
	switch {
	case err == nil:
		store = s3cfg
	case errors.Is(err, config.ErrStorageNotConfigured):
		log.Println("S3_BUCKET not set, report export disabled")
	default:
		log.Fatalf("Failed to initialize S3: %v", err)
	}

	srv := server.New(cfg, db, cache, store)
	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
