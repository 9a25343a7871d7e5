package instructorController

import (
	"log"
	"path/filepath"
	"strconv"

	"instructo/config"
	"instructo/database"
	"instructo/middleware"
	"instructo/models"
	"instructo/utils"

	"github.com/gofiber/fiber/v2"
)

// uploadFor handles a multipart upload against a trainee the instructor
// owns, storing the file and recording a Document row.
func uploadFor(c *fiber.Ctx, category string) error {
	instructorId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	traineeId, err := strconv.Atoi(c.FormValue("trainee_id"))
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "trainee_id is required!", nil)
	}

	db := database.Database.Db

	var trainee models.Trainee
	if err := db.Where("id = ? AND is_deleted = ?", traineeId, false).First(&trainee).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Trainee not found!", nil)
	}
	if trainee.InstructorID != instructorId {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this trainee!", nil)
	}

	// Optional project link
	var projectId *uint
	if raw := c.FormValue("project_id"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid project_id!", nil)
		}
		var project models.Project
		if err := db.Where("id = ? AND trainee_id = ? AND is_deleted = ?", parsed, trainee.ID, false).
			First(&project).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Project not found for this trainee!", nil)
		}
		projectId = &project.ID
	}

	file, err := c.FormFile("file")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "File is required!", nil)
	}

	destDir := filepath.Join(config.AppConfig.UploadDir, "documents")
	filePath, err := utils.SaveUploadedFile(file, destDir)
	if err != nil {
		log.Printf("Error saving uploaded file: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store file!", nil)
	}

	document := models.Document{
		TraineeID:        trainee.ID,
		ProjectID:        projectId,
		UploadedBy:       instructorId,
		FileName:         file.Filename,
		FilePath:         filePath,
		Category:         category,
		VisibleToTrainee: c.FormValue("visible") == "true",
	}

	if err := db.Create(&document).Error; err != nil {
		log.Printf("Error recording document: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record document!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "File uploaded successfully.", fiber.Map{
		"document": document,
		"url":      utils.GetFileURL(filePath),
	})
}

// UploadDocument stores a general trainee document.
func UploadDocument(c *fiber.Ctx) error {
	return uploadFor(c, models.DocCategoryDocument)
}

// UploadAttendance stores an attendance sheet.
func UploadAttendance(c *fiber.Ctx) error {
	return uploadFor(c, models.DocCategoryAttendance)
}

// DocumentList returns documents for one of the instructor's trainees.
func DocumentList(c *fiber.Ctx) error {
	instructorId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	traineeId := c.QueryInt("trainee_id", 0)
	if traineeId == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "trainee_id is required!", nil)
	}

	db := database.Database.Db

	var trainee models.Trainee
	if err := db.Where("id = ? AND is_deleted = ?", traineeId, false).First(&trainee).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Trainee not found!", nil)
	}
	if trainee.InstructorID != instructorId {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this trainee!", nil)
	}

	var documents []models.Document
	if err := db.Where("trainee_id = ? AND is_deleted = ?", trainee.ID, false).
		Order("created_at desc").Find(&documents).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch documents!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Document list.", documents)
}
