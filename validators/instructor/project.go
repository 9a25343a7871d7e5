package instructorValidator

import (
	"strings"
	"time"

	"instructo/middleware"

	"github.com/gofiber/fiber/v2"
)

// CreateProject validator middleware
func CreateProject() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			TraineeID uint   `json:"trainee_id"`
			Title     string `json:"title"`
			DueDate   string `json:"due_date"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.TraineeID == 0 {
			errors["trainee_id"] = "trainee_id is required!"
		}
		if len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}
		if reqData.DueDate != "" {
			if _, err := time.Parse(time.RFC3339, reqData.DueDate); err != nil {
				errors["due_date"] = "Due date must be RFC3339!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProject", reqData)
		return c.Next()
	}
}
