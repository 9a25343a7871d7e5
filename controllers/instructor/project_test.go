package instructorController_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"instructo/config"
	"instructo/database"
	"instructo/middleware"
	"instructo/models"
	instructorRoutes "instructo/routers/instructorRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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
	instructorRoutes.SetupInstructorRoutes(app)
	return app
}

func createInstructor(t *testing.T, name, email string) (models.User, string) {
	user := models.User{
		Name:     name,
		Email:    email,
		Role:     models.RoleInstructor,
		Password: "x",
	}
	require.NoError(t, database.Database.Db.Create(&user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)
	return user, token
}

func seedTrainee(t *testing.T, instructorID uint, status string) models.Trainee {
	trainee := models.Trainee{
		InstructorID: instructorID,
		Name:         "A. Sharma",
		Mobile:       "9876543210",
		JoiningDate:  "2024-01-10",
		Status:       status,
	}
	require.NoError(t, database.Database.Db.Create(&trainee).Error)
	return trainee
}

func seedProject(t *testing.T, traineeID uint, status string) models.Project {
	project := models.Project{
		TraineeID: traineeID,
		Title:     "Inventory REST API",
		Status:    status,
	}
	require.NoError(t, database.Database.Db.Create(&project).Error)
	return project
}

func doJSON(app *fiber.App, method, path string, body interface{}, token string) (*http.Response, envelope, error) {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
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

// doMultipart posts a multipart form with the given fields and files
// (field name -> filename; bodies are dummy bytes).
func doMultipart(app *fiber.App, method, path, token string, fields map[string]string, files map[string]string) (*http.Response, envelope, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, value := range fields {
		writer.WriteField(name, value)
	}
	for field, filename := range files {
		fw, err := writer.CreateFormFile(field, filename)
		if err != nil {
			return nil, envelope{}, err
		}
		fw.Write([]byte("dummy file content for " + filename))
	}
	writer.Close()

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
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

func TestCreateProjectRequiresActiveTrainee(t *testing.T) {
	app := setupApp(t)
	instructor, token := createInstructor(t, "Ravi Kumar", "ravi@example.com")
	pending := seedTrainee(t, instructor.ID, models.TraineePendingApproval)

	resp, env, err := doJSON(app, http.MethodPost, "/instructor/projects", fiber.Map{
		"trainee_id": pending.ID,
		"title":      "Inventory REST API",
	}, token)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, env.Message, "not active")
}

func TestCreateAndStartProject(t *testing.T) {
	app := setupApp(t)
	instructor, token := createInstructor(t, "Ravi Kumar", "ravi@example.com")
	trainee := seedTrainee(t, instructor.ID, models.TraineeActive)

	resp, env, err := doJSON(app, http.MethodPost, "/instructor/projects", fiber.Map{
		"trainee_id": trainee.ID,
		"title":      "Inventory REST API",
		"due_date":   "2026-09-30T00:00:00Z",
	}, token)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var project models.Project
	require.NoError(t, json.Unmarshal(env.Data, &project))
	assert.Equal(t, models.ProjectAssigned, project.Status)
	require.NotNil(t, project.DueDate)

	resp, env, err = doJSON(app, http.MethodPut, fmt.Sprintf("/instructor/projects/%d/start", project.ID), nil, token)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, json.Unmarshal(env.Data, &project))
	assert.Equal(t, models.ProjectInProgress, project.Status)
	require.NotNil(t, project.StartDate)

	// Starting twice is an illegal transition
	resp, _, err = doJSON(app, http.MethodPut, fmt.Sprintf("/instructor/projects/%d/start", project.ID), nil, token)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCompleteProject(t *testing.T) {
	app := setupApp(t)
	instructor, token := createInstructor(t, "Ravi Kumar", "ravi@example.com")
	trainee := seedTrainee(t, instructor.ID, models.TraineeActive)
	project := seedProject(t, trainee.ID, models.ProjectInProgress)

	resp, env, err := doMultipart(app, http.MethodPut,
		fmt.Sprintf("/instructor/projects/%d/complete", project.ID), token,
		map[string]string{"rating": "8"},
		map[string]string{"report": "report.pdf", "attendance": "attendance.xlsx"})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var completed models.Project
	require.NoError(t, json.Unmarshal(env.Data, &completed))
	assert.Equal(t, models.ProjectCompleted, completed.Status)
	require.NotNil(t, completed.PerformanceRating)
	assert.Equal(t, 8, *completed.PerformanceRating)
	assert.NotEmpty(t, completed.ReportPath)
	assert.NotEmpty(t, completed.AttendancePath)
	require.NotNil(t, completed.EndDate)

	// Both files landed on disk
	_, err = os.Stat(completed.ReportPath)
	assert.NoError(t, err)
	_, err = os.Stat(completed.AttendancePath)
	assert.NoError(t, err)

	// Both completion documents were recorded
	var documents []models.Document
	database.Database.Db.Where("project_id = ?", project.ID).Order("category").Find(&documents)
	require.Len(t, documents, 2)
	assert.Equal(t, models.DocCategoryAttendance, documents[0].Category)
	assert.Equal(t, models.DocCategoryReport, documents[1].Category)

	// The instructor got a completion notification
	var notification models.Notification
	require.NoError(t, database.Database.Db.
		Where("recipient_id = ? AND type = ?", instructor.ID, models.NotifyProjectCompleted).
		First(&notification).Error)
}

func TestCompleteProjectRejectsBadRating(t *testing.T) {
	app := setupApp(t)
	instructor, token := createInstructor(t, "Ravi Kumar", "ravi@example.com")
	trainee := seedTrainee(t, instructor.ID, models.TraineeActive)
	project := seedProject(t, trainee.ID, models.ProjectInProgress)

	for _, rating := range []string{"0", "11", "-1", "abc", ""} {
		resp, _, err := doMultipart(app, http.MethodPut,
			fmt.Sprintf("/instructor/projects/%d/complete", project.ID), token,
			map[string]string{"rating": rating},
			map[string]string{"report": "report.pdf", "attendance": "attendance.xlsx"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "rating %q", rating)
	}

	// Nothing was persisted
	var stored models.Project
	database.Database.Db.First(&stored, project.ID)
	assert.Equal(t, models.ProjectInProgress, stored.Status)
	assert.Nil(t, stored.PerformanceRating)
}

func TestCompleteProjectRequiresBothFiles(t *testing.T) {
	app := setupApp(t)
	instructor, token := createInstructor(t, "Ravi Kumar", "ravi@example.com")
	trainee := seedTrainee(t, instructor.ID, models.TraineeActive)
	project := seedProject(t, trainee.ID, models.ProjectInProgress)

	// Missing attendance
	resp, env, err := doMultipart(app, http.MethodPut,
		fmt.Sprintf("/instructor/projects/%d/complete", project.ID), token,
		map[string]string{"rating": "8"},
		map[string]string{"report": "report.pdf"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, env.Message, "Attendance")

	// Missing report
	resp, env, err = doMultipart(app, http.MethodPut,
		fmt.Sprintf("/instructor/projects/%d/complete", project.ID), token,
		map[string]string{"rating": "8"},
		map[string]string{"attendance": "attendance.xlsx"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, env.Message, "report")

	var stored models.Project
	database.Database.Db.First(&stored, project.ID)
	assert.Equal(t, models.ProjectInProgress, stored.Status)
}

func TestCompleteProjectIllegalFromAssigned(t *testing.T) {
	app := setupApp(t)
	instructor, token := createInstructor(t, "Ravi Kumar", "ravi@example.com")
	trainee := seedTrainee(t, instructor.ID, models.TraineeActive)
	project := seedProject(t, trainee.ID, models.ProjectAssigned)

	resp, env, err := doMultipart(app, http.MethodPut,
		fmt.Sprintf("/instructor/projects/%d/complete", project.ID), token,
		map[string]string{"rating": "8"},
		map[string]string{"report": "report.pdf", "attendance": "attendance.xlsx"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, env.Message, "not in progress")
}

func TestCompletedProjectIsLocked(t *testing.T) {
	app := setupApp(t)
	instructor, token := createInstructor(t, "Ravi Kumar", "ravi@example.com")
	trainee := seedTrainee(t, instructor.ID, models.TraineeActive)
	project := seedProject(t, trainee.ID, models.ProjectInProgress)

	resp, _, err := doMultipart(app, http.MethodPut,
		fmt.Sprintf("/instructor/projects/%d/complete", project.ID), token,
		map[string]string{"rating": "8"},
		map[string]string{"report": "report.pdf", "attendance": "attendance.xlsx"})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// A second completion conflicts
	resp, env, err := doMultipart(app, http.MethodPut,
		fmt.Sprintf("/instructor/projects/%d/complete", project.ID), token,
		map[string]string{"rating": "5"},
		map[string]string{"report": "other.pdf", "attendance": "other.xlsx"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, env.Message, "locked")

	// Edits conflict too
	resp, _, err = doJSON(app, http.MethodPut, fmt.Sprintf("/instructor/projects/%d", project.ID), fiber.Map{
		"title": "renamed",
	}, token)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Rating is untouched by the losing attempts
	var stored models.Project
	database.Database.Db.First(&stored, project.ID)
	require.NotNil(t, stored.PerformanceRating)
	assert.Equal(t, 8, *stored.PerformanceRating)
	assert.Equal(t, "Inventory REST API", stored.Title)
}

func TestProjectOwnershipEnforced(t *testing.T) {
	app := setupApp(t)
	instructor, _ := createInstructor(t, "Ravi Kumar", "ravi@example.com")
	_, otherToken := createInstructor(t, "Suresh Patel", "suresh@example.com")
	trainee := seedTrainee(t, instructor.ID, models.TraineeActive)
	project := seedProject(t, trainee.ID, models.ProjectAssigned)

	resp, _, err := doJSON(app, http.MethodGet, fmt.Sprintf("/instructor/projects/%d", project.ID), nil, otherToken)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _, err = doJSON(app, http.MethodPut, fmt.Sprintf("/instructor/projects/%d/start", project.ID), nil, otherToken)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _, err = doJSON(app, http.MethodPost, "/instructor/projects", fiber.Map{
		"trainee_id": trainee.ID,
		"title":      "Hijacked project",
	}, otherToken)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestDocumentUploadAndList(t *testing.T) {
	app := setupApp(t)
	instructor, token := createInstructor(t, "Ravi Kumar", "ravi@example.com")
	trainee := seedTrainee(t, instructor.ID, models.TraineeActive)
	project := seedProject(t, trainee.ID, models.ProjectAssigned)

	resp, env, err := doMultipart(app, http.MethodPost, "/instructor/documents/upload", token,
		map[string]string{
			"trainee_id": fmt.Sprint(trainee.ID),
			"project_id": fmt.Sprint(project.ID),
			"visible":    "true",
		},
		map[string]string{"file": "aadhaar.pdf"})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var uploaded struct {
		Document models.Document `json:"document"`
		URL      string          `json:"url"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &uploaded))
	assert.Equal(t, models.DocCategoryDocument, uploaded.Document.Category)
	assert.True(t, uploaded.Document.VisibleToTrainee)
	require.NotNil(t, uploaded.Document.ProjectID)
	assert.Equal(t, project.ID, *uploaded.Document.ProjectID)
	assert.NotEmpty(t, uploaded.URL)

	resp, env, err = doMultipart(app, http.MethodPost, "/instructor/attendance/upload", token,
		map[string]string{"trainee_id": fmt.Sprint(trainee.ID)},
		map[string]string{"file": "january.xlsx"})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, env, err = doJSON(app, http.MethodGet, fmt.Sprintf("/instructor/documents?trainee_id=%d", trainee.ID), nil, token)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var documents []models.Document
	require.NoError(t, json.Unmarshal(env.Data, &documents))
	assert.Len(t, documents, 2)

	// Another instructor cannot list them
	_, otherToken := createInstructor(t, "Suresh Patel", "suresh@example.com")
	resp, _, err = doJSON(app, http.MethodGet, fmt.Sprintf("/instructor/documents?trainee_id=%d", trainee.ID), nil, otherToken)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestTraineeLifecycleCompletion(t *testing.T) {
	app := setupApp(t)
	instructor, token := createInstructor(t, "Ravi Kumar", "ravi@example.com")
	trainee := seedTrainee(t, instructor.ID, models.TraineeApproved)

	resp, env, err := doJSON(app, http.MethodPut, fmt.Sprintf("/instructor/trainees/%d/activate", trainee.ID), nil, token)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.Trainee
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, models.TraineeActive, updated.Status)

	resp, env, err = doJSON(app, http.MethodPut, fmt.Sprintf("/instructor/trainees/%d/complete", trainee.ID), nil, token)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, models.TraineeCompleted, updated.Status)
	require.NotNil(t, updated.CompletedAt)

	// COMPLETED is terminal
	resp, _, err = doJSON(app, http.MethodPut, fmt.Sprintf("/instructor/trainees/%d/complete", trainee.ID), nil, token)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}
