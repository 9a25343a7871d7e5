package authRoutes

import (
	authControllers "instructo/controllers/auth"
	"instructo/middleware"
	authValidators "instructo/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/login", authValidators.Login(), authControllers.Login)
	authGroup.Post("/send-otp", authValidators.SendOTP(), authControllers.SendOTP)
	authGroup.Post("/verify-otp", authValidators.VerifyOTP(), authControllers.VerifyOTP)
	authGroup.Post("/refresh", middleware.JWTMiddleware, authControllers.Refresh)
	authGroup.Post("/logout", middleware.JWTMiddleware, authControllers.Logout)
}
