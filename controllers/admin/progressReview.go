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

// ProgressReviewList returns shared progress records, newest first.
func ProgressReviewList(c *fiber.Ctx) error {
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

	db := database.Database.Db.Model(&models.ProgressReview{}).Where("is_deleted = ?", false)
	if status != "" {
		db = db.Where("status = ?", status)
	}

	var total int64
	db.Count(&total)

	var reviews []models.ProgressReview
	if err := db.Preload("Trainee").Order("created_at desc").Offset(offset).Limit(limit).Find(&reviews).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress reviews!", nil)
	}

	response := fiber.Map{
		"reviews": reviews,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress review list.", response)
}

// CompleteProgressReview marks a shared review as reviewed. Only legal
// from IN_REVIEW.
func CompleteProgressReview(c *fiber.Ctx) error {
	adminId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid id!", nil)
	}

	reqData := new(struct {
		Comments string `json:"comments"`
	})
	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var review models.ProgressReview
	if err := db.Where("id = ? AND is_deleted = ?", id, false).First(&review).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Progress review not found!", nil)
	}

	now := time.Now()
	result := db.Model(&models.ProgressReview{}).
		Where("id = ? AND status = ?", review.ID, models.ReviewInReview).
		Updates(map[string]interface{}{
			"status":      models.ReviewCompleted,
			"admin_id":    adminId,
			"comments":    reqData.Comments,
			"reviewed_at": now,
		})
	if result.Error != nil {
		log.Printf("Error completing progress review %d: %v", review.ID, result.Error)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress review!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Invalid transition: review is already completed!", nil)
	}

	db.Where("id = ?", review.ID).First(&review)

	utils.Dispatch(db, review.InstructorID, models.RoleInstructor, models.NotifyProgressReviewed,
		"Progress review completed",
		map[string]interface{}{
			"review_id":  review.ID,
			"trainee_id": review.TraineeID,
			"comments":   reqData.Comments,
		})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress review completed.", review)
}
