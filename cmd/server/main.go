package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"propaudit/server/config"
	"propaudit/server/internal/acquisition"
	"propaudit/server/internal/api"
	"propaudit/server/internal/database"
	"propaudit/server/internal/neighborhood"
	"propaudit/server/internal/property"
	"propaudit/server/internal/queue"
	"propaudit/server/internal/report"
	"propaudit/server/internal/scheduler"
)

func main() {
	// Missing .env is fine; the environment may be set by the deployment.
	_ = godotenv.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0755); err != nil {
		logger.WithError(err).Fatal("Failed to create database directory")
	}
	logger.Infof("Using database at: %s", cfg.Database.Path)

	db, err := database.NewDatabase(cfg.Database.Path, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	acq := acquisition.NewService(cfg.APIKeys.Attom, cfg.Acquisition.UseSampleData, logger)
	hood := neighborhood.NewProvider(logger, filepath.Join(os.TempDir(), "propaudit", "neighborhood_cache"))
	reports := report.NewService(cfg.APIKeys.OpenAI, logger)

	service := property.NewService(db, acq, hood, reports, cfg.Acquisition.FetchLimit, logger)

	syncCities := cfg.Sync.Cities
	if len(syncCities) == 0 {
		syncCities = config.GetCityNames()
	}

	syncQueue := queue.NewSyncQueue(cfg.Sync.QueueSize, logger)
	sched := scheduler.NewScheduler(service, syncQueue, scheduler.Options{
		Cities:          syncCities,
		State:           cfg.Acquisition.DefaultState,
		IntervalMinutes: cfg.Sync.IntervalMinutes,
		MaxRetries:      cfg.Sync.MaxRetries,
		RetryDelaySec:   cfg.Sync.RetryDelay,
	}, logger)
	sched.Start()
	defer sched.Stop()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api.SetupRoutes(router, service, cfg.Acquisition.DefaultState, cfg.Server.RateLimitPerMinute, logger)

	logger.Infof("Starting server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
