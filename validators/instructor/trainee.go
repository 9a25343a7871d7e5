package instructorValidator

import (
	"regexp"
	"strings"

	"instructo/middleware"

	"github.com/gofiber/fiber/v2"
)

func isValidEmail(email string) bool {
	re := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return re.MatchString(email)
}

func isValidMobile(mobile string) bool {
	re := regexp.MustCompile(`^\d{10}$`)
	return re.MatchString(mobile)
}

// CreateTrainee validator middleware
func CreateTrainee() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name           string `json:"name"`
			Email          string `json:"email"`
			Mobile         string `json:"mobile"`
			JoiningDate    string `json:"joining_date"`
			GuardianMobile string `json:"guardian_mobile"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(strings.TrimSpace(reqData.Name)) < 3 {
			errors["name"] = "Name must be at least 3 characters long!"
		}
		if reqData.Email != "" && !isValidEmail(reqData.Email) {
			errors["email"] = "Invalid email!"
		}
		if reqData.Mobile == "" || !isValidMobile(reqData.Mobile) {
			errors["mobile"] = "Invalid mobile number!"
		}
		if reqData.GuardianMobile != "" && !isValidMobile(reqData.GuardianMobile) {
			errors["guardian_mobile"] = "Invalid guardian mobile number!"
		}
		if reqData.JoiningDate == "" {
			errors["joining_date"] = "Joining date is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedTrainee", reqData)
		return c.Next()
	}
}

// ShareProgress validator middleware
func ShareProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Summary string `json:"summary"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(strings.TrimSpace(reqData.Summary)) == 0 {
			errors["summary"] = "Summary is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedShare", reqData)
		return c.Next()
	}
}
