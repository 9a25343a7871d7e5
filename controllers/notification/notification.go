package notificationController

import (
	"log"

	"instructo/database"
	"instructo/middleware"
	"instructo/models"

	"github.com/gofiber/fiber/v2"
)

// NotificationList returns notifications addressed to the caller's
// (id, role) pair, newest first.
func NotificationList(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	role, _ := c.Locals("role").(string)

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.Database.Db.Model(&models.Notification{}).
		Where("recipient_id = ? AND recipient_type = ? AND is_deleted = ?", userId, role, false)

	if c.Query("unread") == "true" {
		db = db.Where("read_status = ?", false)
	}

	var total int64
	db.Count(&total)

	var notifications []models.Notification
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&notifications).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch notifications!", nil)
	}

	var unread int64
	database.Database.Db.Model(&models.Notification{}).
		Where("recipient_id = ? AND recipient_type = ? AND read_status = ? AND is_deleted = ?", userId, role, false, false).
		Count(&unread)

	response := fiber.Map{
		"notifications": notifications,
		"unread":        unread,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notification list.", response)
}

// MarkRead marks a notification as read. Only the recipient may do so.
func MarkRead(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	role, _ := c.Locals("role").(string)

	id, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid id!", nil)
	}

	db := database.Database.Db

	var notification models.Notification
	if err := db.Where("id = ? AND is_deleted = ?", id, false).First(&notification).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Notification not found!", nil)
	}

	if notification.RecipientID != userId || notification.RecipientType != role {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not the recipient of this notification!", nil)
	}

	notification.ReadStatus = true
	if err := db.Save(&notification).Error; err != nil {
		log.Printf("Error marking notification %d read: %v", notification.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update notification!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notification marked as read.", notification)
}
