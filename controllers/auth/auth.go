package authController

import (
	"log"
	"time"

	"instructo/config"
	"instructo/database"
	"instructo/middleware"
	"instructo/models"
	"instructo/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// recordTokenAudit appends an issuance/logout event. Append-only; a
// failure here is logged but never fails the request.
func recordTokenAudit(c *fiber.Ctx, userID uint, role, method string) {
	ip := c.IP()
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		ip = forwarded
	}

	audit := models.TokenAudit{
		UserID:    userID,
		Role:      role,
		Method:    method,
		IPAddress: ip,
		Device:    c.Get("User-Agent"),
		IssuedAt:  time.Now(),
	}

	if err := database.Database.Db.Create(&audit).Error; err != nil {
		log.Printf("Error saving token audit entry: %v", err)
	}
}

func Login(c *fiber.Ctx) error {
	reqData := new(struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
	}

	var user models.User
	result := database.Database.Db.Where("email = ? AND role = ? AND is_deleted = ?",
		reqData.Email, reqData.Role, false).First(&user)
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	// Check if the user is temporarily blocked
	if user.IsBlocked && user.BlockedUntil != nil && user.BlockedUntil.After(time.Now()) {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Your account is temporarily blocked. Try again later.", nil)
	}

	// Stale failure counters reset after 15 minutes
	if user.LastFailedLogin != nil && time.Since(*user.LastFailedLogin) > 15*time.Minute {
		user.FailedLoginAttempts = 0
		user.LastFailedLogin = nil
		database.Database.Db.Save(&user)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		user.FailedLoginAttempts++
		now := time.Now()
		user.LastFailedLogin = &now

		// Block after 3 failed attempts
		if user.FailedLoginAttempts >= 3 {
			user.IsBlocked = true
			unblockTime := now.Add(5 * time.Minute)
			user.BlockedUntil = &unblockTime
		}

		if err := database.Database.Db.Save(&user).Error; err != nil {
			log.Printf("Error saving failed login state: %v", err)
		}

		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	// Update last login time and clear failure state
	now := time.Now()
	user.LastLogin = &now
	user.FailedLoginAttempts = 0
	user.IsBlocked = false
	user.BlockedUntil = nil
	if err := database.Database.Db.Save(&user).Error; err != nil {
		log.Printf("Error saving last login time: %v", err)
	}

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	recordTokenAudit(c, user.ID, user.Role, models.IssueMethodPassword)

	user.Password = ""

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
		"user":  user,
		"token": token,
		"role":  user.Role,
	})
}

func SendOTP(c *fiber.Ctx) error {
	reqData := new(struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
	}

	var user models.User
	result := database.Database.Db.Where("email = ? AND role = ? AND is_deleted = ?",
		reqData.Email, reqData.Role, false).First(&user)
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "No account found for this email and role!", nil)
	}

	otp := utils.GenerateOTP()
	expiresAt := time.Now().Add(time.Duration(config.AppConfig.OTPExpiryMinutes) * time.Minute)

	otpRecord := models.OTP{
		UserID:      user.ID,
		Email:       reqData.Email,
		Role:        reqData.Role,
		Code:        otp,
		ExpiresAt:   expiresAt,
		Description: "Login OTP",
	}

	if err := database.Database.Db.Create(&otpRecord).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create OTP!", nil)
	}

	if err := utils.SendOTPEmail(otp, reqData.Email); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to send OTP to email!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "OTP sent successfully.", nil)
}

func VerifyOTP(c *fiber.Ctx) error {
	reqData := new(struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
		Role  string `json:"role"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
	}

	var user models.User
	result := database.Database.Db.Where("email = ? AND role = ? AND is_deleted = ?",
		reqData.Email, reqData.Role, false).First(&user)
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "No account found for this email and role!", nil)
	}

	var otpRecord models.OTP
	result = database.Database.Db.Where("email = ? AND role = ? AND code = ? AND is_used = ? AND is_deleted = ?",
		reqData.Email, reqData.Role, reqData.OTP, false, false).First(&otpRecord)
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid OTP!", nil)
	}

	if otpRecord.ExpiresAt.Before(time.Now()) {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "OTP has expired!", nil)
	}

	// Single use: consume inside a transaction so a concurrent verify
	// with the same code cannot issue a second token.
	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		consumed := tx.Model(&models.OTP{}).
			Where("id = ? AND is_used = ?", otpRecord.ID, false).
			Update("is_used", true)
		if consumed.Error != nil {
			return consumed.Error
		}
		if consumed.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "OTP already used!", nil)
	}

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	recordTokenAudit(c, user.ID, user.Role, models.IssueMethodOTP)

	user.Password = ""

	return middleware.JsonResponse(c, fiber.StatusOK, true, "OTP verified successfully.", fiber.Map{
		"user":  user,
		"token": token,
		"role":  user.Role,
	})
}

// Refresh reissues a token with a fresh expiry for a still-valid bearer
// token. Runs behind JWTMiddleware, so expired tokens never reach here.
func Refresh(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	recordTokenAudit(c, user.ID, user.Role, models.IssueMethodRefresh)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Token refreshed.", fiber.Map{
		"token": token,
	})
}

// Logout records the event. Tokens are stateless; the client is expected
// to purge its stored token.
func Logout(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	role, _ := c.Locals("role").(string)

	recordTokenAudit(c, userId, role, models.IssueMethodLogout)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Logged out successfully.", nil)
}
