package instructorRoutes

import (
	instructorControllers "instructo/controllers/instructor"
	"instructo/middleware"
	"instructo/models"
	instructorValidators "instructo/validators/instructor"

	"github.com/gofiber/fiber/v2"
)

func SetupInstructorRoutes(app *fiber.App) {
	instructorGroup := app.Group("/instructor", middleware.JWTMiddleware, middleware.RequireRole(models.RoleInstructor))

	// Trainee management
	instructorGroup.Get("/trainees", instructorControllers.TraineeList)
	instructorGroup.Post("/trainees", instructorValidators.CreateTrainee(), instructorControllers.CreateTrainee)
	instructorGroup.Get("/trainees/:id", instructorControllers.GetTrainee)
	instructorGroup.Put("/trainees/:id", instructorControllers.UpdateTrainee)
	instructorGroup.Put("/trainees/:id/activate", instructorControllers.ActivateTrainee)
	instructorGroup.Put("/trainees/:id/complete", instructorControllers.CompleteTrainee)
	instructorGroup.Post("/trainees/:id/share-progress", instructorValidators.ShareProgress(), instructorControllers.ShareProgress)

	// Project management
	instructorGroup.Get("/projects", instructorControllers.ProjectList)
	instructorGroup.Post("/projects", instructorValidators.CreateProject(), instructorControllers.CreateProject)
	instructorGroup.Get("/projects/:id", instructorControllers.GetProject)
	instructorGroup.Put("/projects/:id", instructorControllers.UpdateProject)
	instructorGroup.Put("/projects/:id/start", instructorControllers.StartProject)
	instructorGroup.Put("/projects/:id/complete", instructorControllers.CompleteProject)

	// Document uploads
	instructorGroup.Post("/documents/upload", instructorControllers.UploadDocument)
	instructorGroup.Post("/attendance/upload", instructorControllers.UploadAttendance)
	instructorGroup.Get("/documents", instructorControllers.DocumentList)
}
