package adminRoutes

import (
	adminControllers "instructo/controllers/admin"
	"instructo/middleware"
	"instructo/models"
	adminValidators "instructo/validators/admin"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin))

	// Admin account management
	adminGroup.Get("/admins", adminControllers.ListAccounts(models.RoleAdmin))
	adminGroup.Post("/admins", adminValidators.CreateAccount(), adminControllers.CreateAccount(models.RoleAdmin))
	adminGroup.Get("/admins/:id", adminControllers.GetAccount(models.RoleAdmin))
	adminGroup.Put("/admins/:id", adminControllers.UpdateAccount(models.RoleAdmin))
	adminGroup.Delete("/admins/:id", adminControllers.DeleteAccount(models.RoleAdmin))

	// Instructor account management
	adminGroup.Get("/instructors", adminControllers.ListAccounts(models.RoleInstructor))
	adminGroup.Post("/instructors", adminValidators.CreateAccount(), adminControllers.CreateAccount(models.RoleInstructor))
	adminGroup.Get("/instructors/:id", adminControllers.GetAccount(models.RoleInstructor))
	adminGroup.Put("/instructors/:id", adminControllers.UpdateAccount(models.RoleInstructor))
	adminGroup.Delete("/instructors/:id", adminControllers.DeleteAccount(models.RoleInstructor))

	// Trainee oversight
	adminGroup.Get("/trainees", adminControllers.TraineeList)
	adminGroup.Put("/trainees/:id/approve", adminValidators.ReviewTrainee(), adminControllers.ReviewTrainee)
	adminGroup.Put("/trainees/:id/reassign", adminValidators.ReassignTrainee(), adminControllers.ReassignTrainee)

	// Progress reviews
	adminGroup.Get("/progress-reviews", adminControllers.ProgressReviewList)
	adminGroup.Put("/progress-reviews/:id", adminControllers.CompleteProgressReview)
}
