package instructorController

import (
	"log"
	"time"

	"instructo/database"
	"instructo/middleware"
	"instructo/models"
	"instructo/utils"

	"github.com/gofiber/fiber/v2"
)

// ownedTrainee loads a trainee and enforces instructor ownership.
func ownedTrainee(c *fiber.Ctx, instructorId uint) (*models.Trainee, error) {
	id, err := c.ParamsInt("id")
	if err != nil {
		return nil, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid id!", nil)
	}

	var trainee models.Trainee
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", id, false).First(&trainee).Error; err != nil {
		return nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Trainee not found!", nil)
	}

	if trainee.InstructorID != instructorId {
		return nil, middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this trainee!", nil)
	}

	return &trainee, nil
}

// CreateTrainee registers a new trainee in PENDING_APPROVAL and notifies
// all admins.
func CreateTrainee(c *fiber.Ctx) error {
	instructorId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var reqData models.Trainee
	if err := c.BodyParser(&reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	trainee := models.Trainee{
		InstructorID:   instructorId,
		Name:           reqData.Name,
		Email:          reqData.Email,
		Mobile:         reqData.Mobile,
		Address:        reqData.Address,
		JoiningDate:    reqData.JoiningDate,
		GuardianName:   reqData.GuardianName,
		GuardianMobile: reqData.GuardianMobile,
		ReferenceName:  reqData.ReferenceName,
		ReferenceInfo:  reqData.ReferenceInfo,
		Status:         models.TraineePendingApproval,
	}

	if err := db.Create(&trainee).Error; err != nil {
		log.Printf("Error saving trainee: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to register trainee!", nil)
	}

	utils.DispatchToAdmins(db, models.NotifyTraineeCreated,
		"New trainee pending approval: "+trainee.Name,
		map[string]interface{}{
			"trainee_id":    trainee.ID,
			"instructor_id": instructorId,
		})

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Trainee registered successfully.", trainee)
}

// TraineeList returns the instructor's own trainees.
func TraineeList(c *fiber.Ctx) error {
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

	db := database.Database.Db.Model(&models.Trainee{}).
		Where("instructor_id = ? AND is_deleted = ?", instructorId, false)
	if status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	db.Count(&total)

	var trainees []models.Trainee
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&trainees).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch trainees!", nil)
	}

	response := fiber.Map{
		"trainees": trainees,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Trainee list.", response)
}

// GetTrainee returns one of the instructor's trainees.
func GetTrainee(c *fiber.Ctx) error {
	instructorId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	trainee, err := ownedTrainee(c, instructorId)
	if err != nil {
		return err
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Trainee details.", trainee)
}

// UpdateTrainee edits trainee fields. Blocked once the trainee is
// REJECTED or COMPLETED.
func UpdateTrainee(c *fiber.Ctx) error {
	instructorId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	trainee, err := ownedTrainee(c, instructorId)
	if err != nil {
		return err
	}

	if !models.TraineeEditable(trainee.Status) {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Archived trainees cannot be edited!", nil)
	}

	var reqData models.Trainee
	if err := c.BodyParser(&reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if reqData.Name != "" {
		trainee.Name = reqData.Name
	}
	if reqData.Email != "" {
		trainee.Email = reqData.Email
	}
	if reqData.Mobile != "" {
		trainee.Mobile = reqData.Mobile
	}
	if reqData.Address != "" {
		trainee.Address = reqData.Address
	}
	if reqData.JoiningDate != "" {
		trainee.JoiningDate = reqData.JoiningDate
	}
	if reqData.GuardianName != "" {
		trainee.GuardianName = reqData.GuardianName
	}
	if reqData.GuardianMobile != "" {
		trainee.GuardianMobile = reqData.GuardianMobile
	}
	if reqData.ReferenceName != "" {
		trainee.ReferenceName = reqData.ReferenceName
	}
	if reqData.ReferenceInfo != "" {
		trainee.ReferenceInfo = reqData.ReferenceInfo
	}

	if err := database.Database.Db.Save(trainee).Error; err != nil {
		log.Printf("Error updating trainee %d: %v", trainee.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update trainee!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Trainee updated successfully.", trainee)
}

// ActivateTrainee moves an APPROVED trainee to ACTIVE. Activation is an
// explicit operation; project assignment never flips status implicitly.
func ActivateTrainee(c *fiber.Ctx) error {
	instructorId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	trainee, err := ownedTrainee(c, instructorId)
	if err != nil {
		return err
	}

	result := database.Database.Db.Model(&models.Trainee{}).
		Where("id = ? AND status = ?", trainee.ID, models.TraineeApproved).
		Update("status", models.TraineeActive)
	if result.Error != nil {
		log.Printf("Error activating trainee %d: %v", trainee.ID, result.Error)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to activate trainee!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Invalid transition: trainee is not approved!", nil)
	}

	trainee.Status = models.TraineeActive
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Trainee activated.", trainee)
}

// CompleteTrainee archives an ACTIVE trainee as COMPLETED. Terminal.
func CompleteTrainee(c *fiber.Ctx) error {
	instructorId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	trainee, err := ownedTrainee(c, instructorId)
	if err != nil {
		return err
	}

	now := time.Now()
	result := database.Database.Db.Model(&models.Trainee{}).
		Where("id = ? AND status = ?", trainee.ID, models.TraineeActive).
		Updates(map[string]interface{}{
			"status":       models.TraineeCompleted,
			"completed_at": now,
		})
	if result.Error != nil {
		log.Printf("Error completing trainee %d: %v", trainee.ID, result.Error)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to complete trainee!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Invalid transition: trainee is not active!", nil)
	}

	trainee.Status = models.TraineeCompleted
	trainee.CompletedAt = &now
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Trainee completed.", trainee)
}

// ShareProgress creates a progress review record for admin sign-off and
// notifies all admins.
func ShareProgress(c *fiber.Ctx) error {
	instructorId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	trainee, err := ownedTrainee(c, instructorId)
	if err != nil {
		return err
	}

	reqData := new(struct {
		Summary string `json:"summary"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	// One open review per trainee at a time
	var existing models.ProgressReview
	if err := db.Where("trainee_id = ? AND status = ? AND is_deleted = ?",
		trainee.ID, models.ReviewInReview, false).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "A progress review is already pending for this trainee!", nil)
	}

	review := models.ProgressReview{
		TraineeID:    trainee.ID,
		InstructorID: instructorId,
		Status:       models.ReviewInReview,
		Summary:      reqData.Summary,
	}

	if err := db.Create(&review).Error; err != nil {
		log.Printf("Error creating progress review: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to share progress!", nil)
	}

	utils.DispatchToAdmins(db, models.NotifyProgressShared,
		"Progress shared for trainee: "+trainee.Name,
		map[string]interface{}{
			"review_id":     review.ID,
			"trainee_id":    trainee.ID,
			"instructor_id": instructorId,
		})

	var instructor models.User
	if err := db.Select("name").First(&instructor, instructorId).Error; err == nil {
		var admins []models.User
		if err := db.Select("name, email").
			Where("role = ? AND is_deleted = ?", models.RoleAdmin, false).
			Find(&admins).Error; err == nil {
			for _, admin := range admins {
				if admin.Email != "" {
					utils.SendProgressSharedEmail(admin.Email, admin.Name, trainee.Name, instructor.Name)
				}
			}
		}
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Progress shared for review.", review)
}
