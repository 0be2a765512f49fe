package main

import (
	"context"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/paradb/paradb-api/internal/config"
	"github.com/paradb/paradb-api/internal/database"
	"github.com/paradb/paradb-api/internal/router"
	"github.com/paradb/paradb-api/internal/search"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.CheckMapsDir(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Error reporting is optional
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.SentryEnv,
			AttachStacktrace: true,
		}); err != nil {
			log.Fatalf("Failed to initialize Sentry: %v", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.Migrate(context.Background()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	var engine search.Engine
	if cfg.MeiliHost != "" {
		engine = search.NewMeiliEngine(cfg.MeiliHost, cfg.MeiliKey)
	} else {
		log.Println("MEILISEARCH_HOST not set, search is disabled")
	}

	r, err := router.New(router.Deps{
		Config:       cfg,
		DB:           database.GetDB(),
		SearchEngine: engine,
	})
	if err != nil {
		log.Fatalf("Failed to build router: %v", err)
	}

	// Start server
	addr := ":" + cfg.Port
	log.Printf("Server starting on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
