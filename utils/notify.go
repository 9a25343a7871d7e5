package utils

import (
	"encoding/json"
	"log"

	"instructo/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Dispatch records a notification row for a single recipient. It is
// best-effort: failures are logged and must never roll back the
// lifecycle transition that triggered them.
func Dispatch(db *gorm.DB, recipientID uint, recipientType, notifType, title string, payload map[string]interface{}) {
	var body datatypes.JSON
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			log.Printf("Error marshalling notification payload: %v", err)
		} else {
			body = datatypes.JSON(raw)
		}
	}

	notification := models.Notification{
		RecipientID:   recipientID,
		RecipientType: recipientType,
		Type:          notifType,
		Title:         title,
		Payload:       body,
	}

	if err := db.Create(&notification).Error; err != nil {
		log.Printf("Error creating notification (%s for %s %d): %v", notifType, recipientType, recipientID, err)
	}
}

// DispatchToAdmins fans a notification out to every active admin.
func DispatchToAdmins(db *gorm.DB, notifType, title string, payload map[string]interface{}) {
	var admins []models.User
	if err := db.Where("role = ? AND is_deleted = ?", models.RoleAdmin, false).Find(&admins).Error; err != nil {
		log.Printf("Error fetching admins for notification %s: %v", notifType, err)
		return
	}

	for _, admin := range admins {
		Dispatch(db, admin.ID, models.RoleAdmin, notifType, title, payload)
	}
}
