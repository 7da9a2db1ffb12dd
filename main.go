package main

import (
	"lms/cache"
	"lms/config"
	"lms/database"
	"lms/routers/authRoutes"
	"lms/routers/courseRoutes"
	"lms/routers/miscRoutes"
	"lms/routers/paymentRoutes"
	superAdminRoutes "lms/routers/superAdmin"
	userProfileRoutes "lms/routers/userRoutes"
	"lms/services/progress"
	"lms/utils"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()
	cache.Connect(config.AppConfig.CacheURL)
	defer cache.Default.Close()

	app := fiber.New(fiber.Config{
		AppName:   config.AppConfig.AppName,
		BodyLimit: (config.AppConfig.MaxUploadSizeMB + 1) << 20,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     config.AppConfig.ClientURL,
		AllowMethods:     "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders:     "Content-Type,Authorization", // Allowed headers
		AllowCredentials: true,
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve uploaded thumbnails, avatars and lecture videos
	app.Static("/uploads", config.AppConfig.UploadDir)

	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})

	authRoutes.SetupAuthRoutes(app)
	userProfileRoutes.SetupUserRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupAdminCourseRoutes(app)
	paymentRoutes.SetupPaymentRoutes(app)
	miscRoutes.SetupMiscRoutes(app)
	superAdminRoutes.SetupSuperAdminRoutes(app)

	engine := progress.NewEngine(database.Database.Db, progress.WithPassPercentage(config.AppConfig.PassPercentage))
	scheduler, err := utils.InitializeReconcileScheduler(engine, config.AppConfig.ReconcileCron)
	if err != nil {
		log.Fatalf("Invalid RECONCILE_CRON %q: %v", config.AppConfig.ReconcileCron, err)
	}
	defer scheduler.Stop()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
