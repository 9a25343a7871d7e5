package adminController

import (
	"log"

	"instructo/config"
	"instructo/database"
	"instructo/middleware"
	"instructo/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// Account management for staff users. The same handlers serve
// /admin/admins and /admin/instructors; the route binds the role.

// ListAccounts returns a paginated list of users with the given role.
func ListAccounts(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := c.QueryInt("page", 1)
		limit := c.QueryInt("limit", 10)
		if page < 1 {
			page = 1
		}
		if limit < 1 {
			limit = 10
		}
		offset := (page - 1) * limit

		db := database.Database.Db

		var users []models.User
		var total int64

		db.Model(&models.User{}).Where("role = ? AND is_deleted = ?", role, false).Count(&total)

		if err := db.Where("role = ? AND is_deleted = ?", role, false).
			Order("created_at desc").
			Offset(offset).
			Limit(limit).
			Find(&users).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch user list!", nil)
		}

		for i := range users {
			users[i].Password = ""
		}

		response := fiber.Map{
			"users": users,
			"pagination": fiber.Map{
				"total": total,
				"page":  page,
				"limit": limit,
			},
		}

		return middleware.JsonResponse(c, fiber.StatusOK, true, "User list.", response)
	}
}

// GetAccount returns a single user with the given role.
func GetAccount(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid id!", nil)
		}

		var user models.User
		if err := database.Database.Db.Where("id = ? AND role = ? AND is_deleted = ?", id, role, false).
			First(&user).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		}

		user.Password = ""
		return middleware.JsonResponse(c, fiber.StatusOK, true, "User details.", user)
	}
}

// CreateAccount registers a new staff user with the given role.
func CreateAccount(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name       string `json:"name"`
			Email      string `json:"email"`
			Mobile     string `json:"mobile"`
			Password   string `json:"password"`
			Department string `json:"department"`
			Title      string `json:"title"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		db := database.Database.Db

		// Duplicate email check
		if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
		if err != nil {
			log.Printf("Error hashing password: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
		}

		newUser := models.User{
			Name:       reqData.Name,
			Email:      reqData.Email,
			Mobile:     reqData.Mobile,
			Password:   string(hashedPassword),
			Role:       role,
			Department: reqData.Department,
			Title:      reqData.Title,
		}

		if err := db.Create(&newUser).Error; err != nil {
			log.Printf("Error saving user to database: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to register user!", nil)
		}

		newUser.Password = ""
		return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", newUser)
	}
}

// UpdateAccount updates profile fields of a staff user.
func UpdateAccount(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid id!", nil)
		}

		reqData := new(struct {
			Name       string `json:"name"`
			Mobile     string `json:"mobile"`
			Department string `json:"department"`
			Title      string `json:"title"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		db := database.Database.Db

		var user models.User
		if err := db.Where("id = ? AND role = ? AND is_deleted = ?", id, role, false).First(&user).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		}

		if reqData.Name != "" {
			user.Name = reqData.Name
		}
		if reqData.Mobile != "" {
			user.Mobile = reqData.Mobile
		}
		if reqData.Department != "" {
			user.Department = reqData.Department
		}
		if reqData.Title != "" {
			user.Title = reqData.Title
		}

		if err := db.Save(&user).Error; err != nil {
			log.Printf("Error updating user: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user!", nil)
		}

		user.Password = ""
		return middleware.JsonResponse(c, fiber.StatusOK, true, "User updated successfully.", user)
	}
}

// DeleteAccount soft-deletes a staff user. Records are never physically
// removed.
func DeleteAccount(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requesterId, _ := c.Locals("userId").(uint)

		id, err := c.ParamsInt("id")
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid id!", nil)
		}

		if role == models.RoleAdmin && uint(id) == requesterId {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "You cannot delete your own account!", nil)
		}

		db := database.Database.Db

		var user models.User
		if err := db.Where("id = ? AND role = ? AND is_deleted = ?", id, role, false).First(&user).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		}

		user.IsDeleted = true
		if err := db.Save(&user).Error; err != nil {
			log.Printf("Error deleting user: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete user!", nil)
		}

		return middleware.JsonResponse(c, fiber.StatusOK, true, "User deleted successfully.", nil)
	}
}
