package adminController

import (
	"log"
	"time"

	"instructo/database"
	"instructo/middleware"
	"instructo/models"
	"instructo/utils"

	"github.com/gofiber/fiber/v2"
)

// TraineeList returns all trainees, optionally filtered by status.
func TraineeList(c *fiber.Ctx) error {
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

	db := database.Database.Db.Model(&models.Trainee{}).Where("is_deleted = ?", false)
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

// ReviewTrainee applies the admin's approve/reject decision. Only legal
// from PENDING_APPROVAL; the status check runs inside the UPDATE so a
// concurrent decision on the same trainee loses cleanly.
func ReviewTrainee(c *fiber.Ctx) error {
	adminId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid id!", nil)
	}

	reqData := new(struct {
		Status   string `json:"status"`
		Comments string `json:"comments"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if reqData.Status != models.TraineeApproved && reqData.Status != models.TraineeRejected {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Status must be APPROVED or REJECTED!", nil)
	}

	db := database.Database.Db

	var trainee models.Trainee
	if err := db.Where("id = ? AND is_deleted = ?", id, false).First(&trainee).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Trainee not found!", nil)
	}

	now := time.Now()

	// Optimistic status check: the transition applies only if the row is
	// still PENDING_APPROVAL at update time.
	result := db.Model(&models.Trainee{}).
		Where("id = ? AND status = ?", trainee.ID, models.TraineePendingApproval).
		Updates(map[string]interface{}{
			"status":            reqData.Status,
			"approved_by":       adminId,
			"approval_comments": reqData.Comments,
			"approved_at":       now,
		})
	if result.Error != nil {
		log.Printf("Error reviewing trainee %d: %v", trainee.ID, result.Error)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update trainee!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Invalid transition: trainee is not pending approval!", nil)
	}

	db.Where("id = ?", trainee.ID).First(&trainee)

	// Notify the owning instructor; never fails the decision
	notifType := models.NotifyTraineeApproved
	decision := "APPROVED"
	if reqData.Status == models.TraineeRejected {
		notifType = models.NotifyTraineeRejected
		decision = "REJECTED"
	}
	utils.Dispatch(db, trainee.InstructorID, models.RoleInstructor, notifType,
		"Trainee "+decision+": "+trainee.Name,
		map[string]interface{}{
			"trainee_id": trainee.ID,
			"status":     trainee.Status,
			"comments":   reqData.Comments,
		})

	var instructor models.User
	if err := db.Select("name, email").First(&instructor, trainee.InstructorID).Error; err == nil && instructor.Email != "" {
		utils.SendTraineeDecisionEmail(instructor.Email, instructor.Name, trainee.Name, decision, reqData.Comments)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Trainee reviewed successfully.", trainee)
}

// ReassignTrainee moves a trainee to another instructor. Admin only.
func ReassignTrainee(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid id!", nil)
	}

	reqData := new(struct {
		InstructorID uint `json:"instructor_id"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var trainee models.Trainee
	if err := db.Where("id = ? AND is_deleted = ?", id, false).First(&trainee).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Trainee not found!", nil)
	}

	if models.TraineeTerminal(trainee.Status) {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Cannot reassign an archived trainee!", nil)
	}

	var instructor models.User
	if err := db.Where("id = ? AND role = ? AND is_deleted = ?",
		reqData.InstructorID, models.RoleInstructor, false).First(&instructor).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Instructor not found!", nil)
	}

	previousInstructor := trainee.InstructorID
	trainee.InstructorID = instructor.ID
	if err := db.Save(&trainee).Error; err != nil {
		log.Printf("Error reassigning trainee %d: %v", trainee.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reassign trainee!", nil)
	}

	payload := map[string]interface{}{
		"trainee_id":          trainee.ID,
		"previous_instructor": previousInstructor,
		"new_instructor":      instructor.ID,
	}
	utils.Dispatch(db, instructor.ID, models.RoleInstructor, models.NotifyTraineeReassign,
		"Trainee assigned to you: "+trainee.Name, payload)
	utils.Dispatch(db, previousInstructor, models.RoleInstructor, models.NotifyTraineeReassign,
		"Trainee reassigned: "+trainee.Name, payload)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Trainee reassigned successfully.", trainee)
}
