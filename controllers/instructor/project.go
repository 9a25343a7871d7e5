package instructorController

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"instructo/config"
	"instructo/database"
	"instructo/middleware"
	"instructo/models"
	"instructo/utils"

	"github.com/gofiber/fiber/v2"
)

// ownedProject loads a project and enforces that the requesting
// instructor owns the parent trainee.
func ownedProject(c *fiber.Ctx, instructorId uint) (*models.Project, error) {
	id, err := c.ParamsInt("id")
	if err != nil {
		return nil, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid id!", nil)
	}

	var project models.Project
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", id, false).
		Preload("Trainee").First(&project).Error; err != nil {
		return nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Project not found!", nil)
	}

	if project.Trainee.InstructorID != instructorId {
		return nil, middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this project's trainee!", nil)
	}

	return &project, nil
}

// CreateProject assigns a new project to a trainee. The trainee must be
// APPROVED or ACTIVE.
func CreateProject(c *fiber.Ctx) error {
	instructorId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := new(struct {
		TraineeID   uint   `json:"trainee_id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		DueDate     string `json:"due_date"` // RFC3339, optional
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var trainee models.Trainee
	if err := db.Where("id = ? AND is_deleted = ?", reqData.TraineeID, false).First(&trainee).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Trainee not found!", nil)
	}

	if trainee.InstructorID != instructorId {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this trainee!", nil)
	}

	if trainee.Status != models.TraineeApproved && trainee.Status != models.TraineeActive {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Trainee is not active: projects can only be assigned to approved or active trainees!", nil)
	}

	var dueDate *time.Time
	if reqData.DueDate != "" {
		parsed, err := time.Parse(time.RFC3339, reqData.DueDate)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid due_date: expected RFC3339!", nil)
		}
		dueDate = &parsed
	}

	project := models.Project{
		TraineeID:   trainee.ID,
		Title:       reqData.Title,
		Description: reqData.Description,
		DueDate:     dueDate,
		Status:      models.ProjectAssigned,
	}

	if err := db.Create(&project).Error; err != nil {
		log.Printf("Error saving project: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create project!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Project created successfully.", project)
}

// ProjectList returns projects belonging to the instructor's trainees.
func ProjectList(c *fiber.Ctx) error {
	instructorId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	status := c.Query("status")
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.Project{}).
		Joins("JOIN trainees ON trainees.id = projects.trainee_id").
		Where("trainees.instructor_id = ? AND projects.is_deleted = ?", instructorId, false)
	if status != "" {
		db = db.Where("projects.status = ?", status)
	}

	var total int64
	db.Count(&total)

	var projects []models.Project
	if err := db.Order("projects.created_at desc").Offset(offset).Limit(limit).Find(&projects).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch projects!", nil)
	}

	response := fiber.Map{
		"projects": projects,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Project list.", response)
}

// GetProject returns a single project.
func GetProject(c *fiber.Ctx) error {
	instructorId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	project, err := ownedProject(c, instructorId)
	if err != nil {
		return err
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Project details.", project)
}

// UpdateProject edits title/description/due date. Completed projects are
// locked against all mutation.
func UpdateProject(c *fiber.Ctx) error {
	instructorId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	project, err := ownedProject(c, instructorId)
	if err != nil {
		return err
	}

	if project.Status == models.ProjectCompleted {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Project is locked: completed projects cannot be modified!", nil)
	}

	reqData := new(struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		DueDate     string `json:"due_date"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if reqData.Title != "" {
		project.Title = reqData.Title
	}
	if reqData.Description != "" {
		project.Description = reqData.Description
	}
	if reqData.DueDate != "" {
		parsed, err := time.Parse(time.RFC3339, reqData.DueDate)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid due_date: expected RFC3339!", nil)
		}
		project.DueDate = &parsed
	}

	if err := database.Database.Db.Save(project).Error; err != nil {
		log.Printf("Error updating project %d: %v", project.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update project!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Project updated successfully.", project)
}

// StartProject moves ASSIGNED -> IN_PROGRESS.
func StartProject(c *fiber.Ctx) error {
	instructorId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	project, err := ownedProject(c, instructorId)
	if err != nil {
		return err
	}

	now := time.Now()
	result := database.Database.Db.Model(&models.Project{}).
		Where("id = ? AND status = ?", project.ID, models.ProjectAssigned).
		Updates(map[string]interface{}{
			"status":     models.ProjectInProgress,
			"start_date": now,
		})
	if result.Error != nil {
		log.Printf("Error starting project %d: %v", project.ID, result.Error)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start project!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Invalid transition: project is not in ASSIGNED state!", nil)
	}

	project.Status = models.ProjectInProgress
	project.StartDate = &now
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Project started.", project)
}

// CompleteProject closes a project: rating in [1,10], completion report
// and attendance sheet both required. The rating, both paths, end date
// and COMPLETED status are set by a single atomic update; on any
// precondition failure nothing is persisted.
func CompleteProject(c *fiber.Ctx) error {
	instructorId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	project, err := ownedProject(c, instructorId)
	if err != nil {
		return err
	}

	if project.Status == models.ProjectCompleted {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Project is locked: completed projects cannot be modified!", nil)
	}
	if project.Status != models.ProjectInProgress {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Invalid transition: project is not in progress!", nil)
	}

	rating, err := strconv.Atoi(c.FormValue("rating"))
	if err != nil || !models.ValidRating(rating) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Rating must be a number between 1 and 10!", nil)
	}

	reportFile, err := c.FormFile("report")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Completion report file is required!", nil)
	}
	attendanceFile, err := c.FormFile("attendance")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Attendance file is required!", nil)
	}

	destDir := filepath.Join(config.AppConfig.UploadDir, "projects")

	reportPath, err := utils.SaveUploadedFile(reportFile, destDir)
	if err != nil {
		log.Printf("Error saving report file: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store report file!", nil)
	}
	attendancePath, err := utils.SaveUploadedFile(attendanceFile, destDir)
	if err != nil {
		log.Printf("Error saving attendance file: %v", err)
		os.Remove(reportPath)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store attendance file!", nil)
	}

	db := database.Database.Db
	now := time.Now()

	// Atomic flip: either every completion field lands with the status
	// change, or the project is untouched.
	result := db.Model(&models.Project{}).
		Where("id = ? AND status = ?", project.ID, models.ProjectInProgress).
		Updates(map[string]interface{}{
			"status":             models.ProjectCompleted,
			"performance_rating": rating,
			"report_path":        reportPath,
			"attendance_path":    attendancePath,
			"end_date":           now,
		})
	if result.Error != nil {
		log.Printf("Error completing project %d: %v", project.ID, result.Error)
		os.Remove(reportPath)
		os.Remove(attendancePath)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to complete project!", nil)
	}
	if result.RowsAffected == 0 {
		// Lost the race: someone else already moved the project on
		os.Remove(reportPath)
		os.Remove(attendancePath)
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Project is locked: completed projects cannot be modified!", nil)
	}

	// Record document rows for both files
	documents := []models.Document{
		{
			TraineeID:  project.TraineeID,
			ProjectID:  &project.ID,
			UploadedBy: instructorId,
			FileName:   reportFile.Filename,
			FilePath:   reportPath,
			Category:   models.DocCategoryReport,
		},
		{
			TraineeID:  project.TraineeID,
			ProjectID:  &project.ID,
			UploadedBy: instructorId,
			FileName:   attendanceFile.Filename,
			FilePath:   attendancePath,
			Category:   models.DocCategoryAttendance,
		},
	}
	if err := db.Create(&documents).Error; err != nil {
		log.Printf("Error recording completion documents for project %d: %v", project.ID, err)
	}

	db.Preload("Trainee").Where("id = ?", project.ID).First(project)

	// Side effects are fire-and-forget; the completed transition is
	// already durable.
	utils.Dispatch(db, instructorId, models.RoleInstructor, models.NotifyProjectCompleted,
		"Project completed: "+project.Title,
		map[string]interface{}{
			"project_id": project.ID,
			"trainee_id": project.TraineeID,
			"rating":     rating,
		})

	var instructor models.User
	if err := db.Select("name, email").First(&instructor, instructorId).Error; err == nil {
		go utils.NotifyHRProjectCompleted(utils.HRCompletionPayload{
			TraineeName:    project.Trainee.Name,
			ProjectTitle:   project.Title,
			Rating:         rating,
			InstructorName: instructor.Name,
			CompletedAt:    now.Format(time.RFC3339),
		})
		if config.AppConfig.EmailSender != "" {
			utils.SendProjectCompletedEmail(config.AppConfig.EmailSender, project.Trainee.Name, project.Title, rating)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Project completed successfully.", project)
}
