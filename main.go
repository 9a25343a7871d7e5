package main

import (
	"log"

	"instructo/config"
	"instructo/database"
	adminRoutes "instructo/routers/adminRoutes"
	authRoutes "instructo/routers/authRoutes"
	instructorRoutes "instructo/routers/instructorRoutes"
	notificationRoutes "instructo/routers/notificationRoutes"
	"instructo/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve uploaded documents
	app.Static("/uploads", config.AppConfig.UploadDir)

	authRoutes.SetupAuthRoutes(app)
	adminRoutes.SetupAdminRoutes(app)
	instructorRoutes.SetupInstructorRoutes(app)
	notificationRoutes.SetupNotificationRoutes(app)

	// Background jobs: OTP cleanup, overdue project reminders
	scheduler := utils.StartScheduler()
	defer scheduler.Stop()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
