package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/moonjani0142-blip/ramzan-homeo-store/internal/config"
	"github.com/moonjani0142-blip/ramzan-homeo-store/internal/database"
	"github.com/moonjani0142-blip/ramzan-homeo-store/internal/handlers"
	"github.com/moonjani0142-blip/ramzan-homeo-store/internal/middleware"
	"github.com/moonjani0142-blip/ramzan-homeo-store/internal/routes"
)

func main() {
	// 1. --- Configuration ---
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		log.Fatal("CRITICAL ERROR: JWT_SECRET environment variable is not set.")
	}
	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 2. --- Database Connection ---
	db, err := database.OpenDB(cfg.DSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// --- Application Setup ---
	app := &handlers.Handlers{
		DB:        db,
		JWTSecret: []byte(cfg.JWTSecret),
		Env:       cfg.Env,
	}
	limiter := middleware.NewRateLimiter()

	// 3. --- Background Worker ---
	// Hourly housekeeping: expired idempotency keys and idle rate-limit
	// buckets both get purged here.
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		log.Println("Background worker started: purging expired idempotency keys hourly")

		for range ticker.C {
			purged, err := middleware.PurgeExpiredIdempotencyKeys(db)
			if err != nil {
				log.Printf("ERROR: Failed to purge idempotency keys: %v", err)
			} else if purged > 0 {
				log.Printf("Purged %d expired idempotency keys", purged)
			}
			limiter.Cleanup()
		}
	}()

	// 4. --- Router Setup & Start ---
	router := routes.SetupRouter(app, cfg, limiter)

	log.Printf("Starting Ramzan Homeo Store API server on port %s...", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
