package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Ananth-NQI/loadboard-backend/database"
	"github.com/Ananth-NQI/loadboard-backend/internal/cache"
	"github.com/Ananth-NQI/loadboard-backend/internal/config"
	"github.com/Ananth-NQI/loadboard-backend/internal/events"
	"github.com/Ananth-NQI/loadboard-backend/internal/handlers"
	"github.com/Ananth-NQI/loadboard-backend/internal/jobs"
	"github.com/Ananth-NQI/loadboard-backend/internal/logging"
	"github.com/Ananth-NQI/loadboard-backend/internal/routes"
	"github.com/Ananth-NQI/loadboard-backend/internal/services"
	"github.com/Ananth-NQI/loadboard-backend/internal/storage"
)

func main() {
	// Load .env files for local development
	cfg := config.Load(".env", "environments/.env.development")
	logger := logging.New(cfg.Log)

	// Initialize storage
	var store storage.Store
	var db *gorm.DB
	var err error
	if cfg.Store.UseMemory {
		logger.Warn("Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		db, err = database.Connect(cfg.Database, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to database")
		}
		if err := database.Migrate(db); err != nil {
			logger.WithError(err).Fatal("Failed to migrate database")
		}
		logger.Info("Database migrations completed")
		store = storage.NewDatabaseStore(db)
	}

	// Lane rate cache
	var redisClient *cache.RedisClient
	var rateCache services.LaneRateCache
	var redisPinger handlers.Pinger
	if cfg.Redis.Enabled() {
		redisClient, err = cache.NewRedisClient(cfg.Redis)
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable, lane rates will be served from the database")
		} else {
			rateCache = cache.NewLaneRateCache(redisClient, cfg.Rates.StaleAfter)
			redisPinger = redisClient
		}
	}

	// Notification hooks
	notifier := services.NewNotifier(logger, services.NewStoreHook(store))

	var twilioService *services.TwilioService
	if cfg.Twilio.Enabled() {
		twilioService, err = services.NewTwilioService(cfg.Twilio, logger)
		if err != nil {
			logger.WithError(err).Warn("Twilio service not initialized")
		} else {
			notifier.Register(services.NewWhatsAppHook(store, services.NewTemplateService(twilioService)))
			logger.Info("WhatsApp notifications enabled")
		}
	}

	var producer *events.Producer
	if cfg.NSQ.Enabled() {
		producer, err = events.NewProducer(cfg.NSQ.Addr, cfg.NSQ.Topic)
		if err != nil {
			logger.WithError(err).Warn("NSQ unavailable, events will not be published")
		} else {
			notifier.Register(producer)
		}
	}

	// Initialize all services
	authService := services.NewAuthService(store, cfg.JWT)
	loadService := services.NewLoadService(store, notifier)
	truckService := services.NewTruckService(store, notifier)
	laneRates := services.NewLaneRateService(store, rateCache, cfg.Rates.StaleAfter, logger)
	searchService := services.NewSavedSearchService(store, notifier, logger)

	h := routes.Handlers{
		Health:        handlers.NewHealthHandler(cfg.App.Version, store, redisPinger),
		Auth:          handlers.NewAuthHandler(authService),
		Loads:         handlers.NewLoadHandler(loadService),
		Vehicles:      handlers.NewVehicleHandler(services.NewVehicleService(store)),
		Trucks:        handlers.NewTruckHandler(truckService),
		Rates:         handlers.NewRateHandler(laneRates, services.NewTriHaulService(store)),
		Admin:         handlers.NewAdminHandler(services.NewAdminService(store, notifier)),
		Analytics:     handlers.NewAnalyticsHandler(services.NewAnalyticsService(store)),
		Messages:      handlers.NewMessageHandler(services.NewMessageService(store, notifier)),
		Notifications: handlers.NewNotificationHandler(store),
		Reviews:       handlers.NewReviewHandler(services.NewReviewService(store, notifier)),
		Documents:     handlers.NewDocumentHandler(services.NewDocumentService(store, notifier)),
		Searches:      handlers.NewSearchHandler(searchService),
		WhatsApp:      handlers.NewWhatsAppHandler(logger),
	}

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name + " " + cfg.App.Version,
		ErrorHandler: handlers.ErrorHandler(logger, cfg.App.IsProduction()),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logging.RequestLogger(logger))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	routes.SetupRoutes(app, h, authService, cfg.Twilio)

	// Scheduled jobs
	scheduler := jobs.NewScheduler(logger)
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(logger, jobs.DefaultTasks(cfg.Jobs, truckService, searchService, laneRates)...)
		scheduler.Start(context.Background())
	}

	// Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("Gracefully shutting down...")
		scheduler.Stop()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.WithError(err).Error("Server shutdown failed")
		}
	}()

	logger.WithFields(logrus.Fields{
		"port":        cfg.App.Port,
		"environment": cfg.App.Environment,
		"memory":      cfg.Store.UseMemory,
		"redis":       rateCache != nil,
		"whatsapp":    twilioService != nil,
		"nsq":         producer != nil,
	}).Info("Load board backend starting")

	if err := app.Listen(":" + cfg.App.Port); err != nil {
		logger.WithError(err).Error("Server stopped")
	}

	// drain notification hooks before closing their backends
	notifier.Wait()
	if producer != nil {
		producer.Stop()
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if db != nil {
		_ = database.Close(db)
	}
	logger.Info("Shutdown complete")
}
