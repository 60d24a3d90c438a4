package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/propline/propline/app"
	"github.com/propline/propline/app/api"
	"github.com/propline/propline/app/canonical"
	"github.com/propline/propline/app/database"
	"github.com/propline/propline/app/ingest"
	"github.com/propline/propline/app/ledger"
	"github.com/propline/propline/app/provider"
	"github.com/propline/propline/app/resolve"
	"github.com/propline/propline/internal/cache"
	"github.com/propline/propline/internal/logger"
	"github.com/propline/propline/internal/sanitizer"
)

func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	appLogger := logger.NewZeroLogger(os.Stdout, logger.LevelInfo, logger.Fields{
		"app": "propline",
		"env": cfg.Env,
	})

	db, err := database.New(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := database.Migrate(&cfg.DB, cfg.MigrationsPath); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	if err := cfg.Provider.Validate(); err != nil {
		log.Fatal("Invalid provider configuration:", err)
	}
	if err := cfg.Ledger.Validate(); err != nil {
		log.Fatal("Invalid ledger configuration:", err)
	}

	scoresCache := cache.NewCache[[]provider.ScoreEvent](cfg.CacheBackend, &cache.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	oddsClient := provider.NewClient(cfg.Provider, nil, scoresCache, appLogger)
	ledgerClient := ledger.NewClient(cfg.Ledger, nil, appLogger)
	builder := canonical.NewBuilder(sanitizer.NewNameStripper())

	r := gin.Default()
	r.Use(api.CorsMiddleware())

	apiV1 := r.Group("/api/v1")
	apiV1.GET("/healthz", api.HealthCheck)

	ingest.Init(apiV1, ingest.Dependencies{
		DB:       db,
		Odds:     oddsClient,
		Builder:  builder,
		Logger:   appLogger,
		JobToken: cfg.JobToken,
	})
	resolve.Init(apiV1, resolve.Dependencies{
		DB:       db,
		Scores:   oddsClient,
		Stats:    oddsClient,
		Settler:  ledgerClient,
		Logger:   appLogger,
		JobToken: cfg.JobToken,
	})

	appLogger.Info("starting server", logger.Fields{"host": cfg.AppHost, "port": cfg.AppPort})
	if err := r.Run(fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort)); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
