package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"lms/config"
	"lms/database"
	"lms/logger"
	authRoutes "lms/routers/authRoutes"
	courseRoutes "lms/routers/courseRoutes"
	notificationRoutes "lms/routers/notificationRoutes"
	quizRoutes "lms/routers/quizRoutes"
	reviewRoutes "lms/routers/reviewRoutes"
	superAdminRoutes "lms/routers/superAdmin"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
)

// NewApp builds the fiber application with every route group mounted.
func NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		StrictRouting: false,
		AppName:       "lms",
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	superAdminRoutes.SetupSuperAdminRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	quizRoutes.SetupQuizRoutes(app)
	reviewRoutes.SetupReviewRoutes(app)
	notificationRoutes.SetupNotificationRoutes(app)

	return app
}

func main() {
	config.LoadConfig()
	if err := logger.Init(config.AppConfig.AppEnv); err != nil {
		log.Fatalf("failed to initialise logger: %v", err)
	}
	defer logger.Log.Sync()

	if err := database.ConnectDb(config.AppConfig); err != nil {
		logger.Log.Fatal("database connection failed", "error", err)
	}

	scheduler, err := utils.InitializeHousekeepingScheduler(database.Database.Db, config.AppConfig.HousekeepingCron)
	if err != nil {
		logger.Log.Fatal("failed to start housekeeping scheduler", "error", err)
	}

	app := NewApp()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logger.Log.Info("shutting down")
		<-scheduler.Stop().Done()
		if err := app.Shutdown(); err != nil {
			logger.Log.Error("server shutdown failed", "error", err)
		}
	}()

	logger.Log.Info("server is running", "port", config.AppConfig.Port)
	if err := app.Listen(":" + config.AppConfig.Port); err != nil {
		logger.Log.Fatal("server stopped", "error", err)
	}
}
