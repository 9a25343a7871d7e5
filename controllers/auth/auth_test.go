package authController_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"instructo/config"
	"instructo/database"
	"instructo/models"
	authRoutes "instructo/routers/authRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupApp(t *testing.T) *fiber.App {
	config.AppConfig = &config.Config{
		JWTKey:           "test-secret",
		SaltRound:        4,
		TokenExpiryHours: 24,
		OTPExpiryMinutes: 10,
		UploadDir:        t.TempDir(),
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	authRoutes.SetupAuthRoutes(app)
	return app
}

func createUser(t *testing.T, name, email, role, password string) models.User {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), config.AppConfig.SaltRound)
	require.NoError(t, err)

	user := models.User{
		Name:     name,
		Email:    email,
		Role:     role,
		Password: string(hashed),
	}
	require.NoError(t, database.Database.Db.Create(&user).Error)
	return user
}

func postJSON(app *fiber.App, path string, body interface{}, token string) (*http.Response, envelope, error) {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		return nil, envelope{}, err
	}
	var env envelope
	json.NewDecoder(resp.Body).Decode(&env)
	return resp, env, nil
}

func TestLoginSuccess(t *testing.T) {
	app := setupApp(t)
	createUser(t, "Priya Nair", "priya@example.com", models.RoleInstructor, "secret123")

	resp, env, err := postJSON(app, "/auth/login", fiber.Map{
		"email":    "priya@example.com",
		"password": "secret123",
		"role":     models.RoleInstructor,
	}, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)

	var data struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.NotEmpty(t, data.Token)
	assert.Equal(t, models.RoleInstructor, data.Role)

	// Successful issuance is recorded in the audit log
	var audits []models.TokenAudit
	database.Database.Db.Find(&audits)
	require.Len(t, audits, 1)
	assert.Equal(t, models.IssueMethodPassword, audits[0].Method)
}

func TestLoginWrongPassword(t *testing.T) {
	app := setupApp(t)
	createUser(t, "Priya Nair", "priya@example.com", models.RoleInstructor, "secret123")

	resp, env, err := postJSON(app, "/auth/login", fiber.Map{
		"email":    "priya@example.com",
		"password": "wrongpass",
		"role":     models.RoleInstructor,
	}, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, env.Success)

	// No audit entry on failure
	var count int64
	database.Database.Db.Model(&models.TokenAudit{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestLoginRoleMismatch(t *testing.T) {
	app := setupApp(t)
	createUser(t, "Priya Nair", "priya@example.com", models.RoleInstructor, "secret123")

	resp, _, err := postJSON(app, "/auth/login", fiber.Map{
		"email":    "priya@example.com",
		"password": "secret123",
		"role":     models.RoleAdmin,
	}, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginLockoutAfterThreeFailures(t *testing.T) {
	app := setupApp(t)
	createUser(t, "Priya Nair", "priya@example.com", models.RoleInstructor, "secret123")

	for i := 0; i < 3; i++ {
		resp, _, err := postJSON(app, "/auth/login", fiber.Map{
			"email":    "priya@example.com",
			"password": "wrongpass",
			"role":     models.RoleInstructor,
		}, "")
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}

	// Correct password is rejected while blocked
	resp, env, err := postJSON(app, "/auth/login", fiber.Map{
		"email":    "priya@example.com",
		"password": "secret123",
		"role":     models.RoleInstructor,
	}, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, env.Message, "temporarily blocked")
}

func TestOTPRoundTrip(t *testing.T) {
	app := setupApp(t)
	user := createUser(t, "Anil Mehta", "anil@example.com", models.RoleAdmin, "secret123")

	resp, _, err := postJSON(app, "/auth/send-otp", fiber.Map{
		"email": "anil@example.com",
		"role":  models.RoleAdmin,
	}, "")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var otpRecord models.OTP
	require.NoError(t, database.Database.Db.Where("user_id = ?", user.ID).First(&otpRecord).Error)
	require.Len(t, otpRecord.Code, 6)
	assert.True(t, otpRecord.ExpiresAt.After(time.Now()))

	// Verify with the right code issues a token
	resp, env, err := postJSON(app, "/auth/verify-otp", fiber.Map{
		"email": "anil@example.com",
		"otp":   otpRecord.Code,
		"role":  models.RoleAdmin,
	}, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.NotEmpty(t, data.Token)

	// Same code a second time is rejected (single use)
	resp, _, err = postJSON(app, "/auth/verify-otp", fiber.Map{
		"email": "anil@example.com",
		"otp":   otpRecord.Code,
		"role":  models.RoleAdmin,
	}, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestVerifyOTPExpired(t *testing.T) {
	app := setupApp(t)
	user := createUser(t, "Anil Mehta", "anil@example.com", models.RoleAdmin, "secret123")

	expired := models.OTP{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		Code:      "123456",
		ExpiresAt: time.Now().Add(-1 * time.Minute),
	}
	require.NoError(t, database.Database.Db.Create(&expired).Error)

	resp, env, err := postJSON(app, "/auth/verify-otp", fiber.Map{
		"email": "anil@example.com",
		"otp":   "123456",
		"role":  models.RoleAdmin,
	}, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, env.Message, "expired")
}

func TestSendOTPUnknownAccount(t *testing.T) {
	app := setupApp(t)

	resp, _, err := postJSON(app, "/auth/send-otp", fiber.Map{
		"email": "nobody@example.com",
		"role":  models.RoleAdmin,
	}, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRefreshAndLogout(t *testing.T) {
	app := setupApp(t)
	createUser(t, "Priya Nair", "priya@example.com", models.RoleInstructor, "secret123")

	_, env, err := postJSON(app, "/auth/login", fiber.Map{
		"email":    "priya@example.com",
		"password": "secret123",
		"role":     models.RoleInstructor,
	}, "")
	require.NoError(t, err)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))

	resp, env, err := postJSON(app, "/auth/refresh", nil, data.Token)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var refreshed struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &refreshed))
	assert.NotEmpty(t, refreshed.Token)

	resp, _, err = postJSON(app, "/auth/logout", nil, refreshed.Token)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// PASSWORD, REFRESH and LOGOUT all audited
	var methods []string
	database.Database.Db.Model(&models.TokenAudit{}).Order("id").Pluck("method", &methods)
	assert.Equal(t, []string{models.IssueMethodPassword, models.IssueMethodRefresh, models.IssueMethodLogout}, methods)
}

func TestRefreshRejectsBadToken(t *testing.T) {
	app := setupApp(t)

	resp, _, err := postJSON(app, "/auth/refresh", nil, "garbage-token")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
