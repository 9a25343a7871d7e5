package utils

import (
	"fmt"
	"log"
	"time"

	"instructo/database"
	"instructo/models"

	"github.com/robfig/cron/v3"
)

func logScheduler(message string) {
	log.Printf("[SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// purgeExpiredOTPs soft-deletes unused OTP codes past their expiry.
func purgeExpiredOTPs() {
	db := database.Database.Db

	result := db.Model(&models.OTP{}).
		Where("expires_at < ? AND is_used = ? AND is_deleted = ?", time.Now(), false, false).
		Update("is_deleted", true)
	if result.Error != nil {
		logScheduler("Error purging expired OTPs: " + result.Error.Error())
		return
	}
	if result.RowsAffected > 0 {
		logScheduler(fmt.Sprintf("Purged %d expired OTPs", result.RowsAffected))
	}
}

// remindOverdueProjects notifies owning instructors about projects past
// their due date that are still not completed.
func remindOverdueProjects() {
	db := database.Database.Db
	now := time.Now()

	var projects []models.Project
	if err := db.Where("due_date IS NOT NULL AND due_date < ? AND status != ? AND is_deleted = ?",
		now, models.ProjectCompleted, false).
		Preload("Trainee").
		Find(&projects).Error; err != nil {
		logScheduler("Error fetching overdue projects: " + err.Error())
		return
	}

	for _, project := range projects {
		Dispatch(db, project.Trainee.InstructorID, models.RoleInstructor,
			models.NotifyProjectOverdue,
			"Project overdue: "+project.Title,
			map[string]interface{}{
				"project_id": project.ID,
				"trainee_id": project.TraineeID,
				"due_date":   project.DueDate,
			})
	}

	if len(projects) > 0 {
		logScheduler(fmt.Sprintf("Sent %d overdue project reminders", len(projects)))
	}
}

// StartScheduler launches the background cron jobs.
func StartScheduler() *cron.Cron {
	c := cron.New()

	// OTP cleanup every 10 minutes
	if _, err := c.AddFunc("*/10 * * * *", purgeExpiredOTPs); err != nil {
		log.Fatalf("Failed to register OTP purge job: %v", err)
	}

	// Overdue project reminders once a day
	if _, err := c.AddFunc("0 8 * * *", remindOverdueProjects); err != nil {
		log.Fatalf("Failed to register overdue reminder job: %v", err)
	}

	c.Start()
	logScheduler("Background scheduler started")
	return c
}
