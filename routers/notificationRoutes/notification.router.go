package notificationRoutes

import (
	notificationControllers "instructo/controllers/notification"
	"instructo/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupNotificationRoutes(app *fiber.App) {
	notificationGroup := app.Group("/notifications", middleware.JWTMiddleware)

	notificationGroup.Get("/", notificationControllers.NotificationList)
	notificationGroup.Put("/:id/read", notificationControllers.MarkRead)
}
