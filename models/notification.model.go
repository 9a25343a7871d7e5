package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notification types. Rows are created only as side effects of
// lifecycle transitions, never directly by end users.
const (
	NotifyTraineeCreated   = "TRAINEE_CREATED"
	NotifyTraineeApproved  = "TRAINEE_APPROVED"
	NotifyTraineeRejected  = "TRAINEE_REJECTED"
	NotifyTraineeReassign  = "TRAINEE_REASSIGNED"
	NotifyProgressShared   = "PROGRESS_SHARED"
	NotifyProgressReviewed = "PROGRESS_REVIEWED"
	NotifyProjectCompleted = "PROJECT_COMPLETED"
	NotifyProjectOverdue   = "PROJECT_OVERDUE"
)

type Notification struct {
	gorm.Model
	RecipientID   uint           `json:"recipient_id" gorm:"index;not null"`
	RecipientType string         `json:"recipient_type" gorm:"size:20;index;not null"` // ADMIN, INSTRUCTOR
	Type          string         `json:"type" gorm:"size:40;not null"`
	Title         string         `json:"title"`
	Payload       datatypes.JSON `json:"payload"`
	ReadStatus    bool           `json:"read_status" gorm:"default:false"`
	IsDeleted     bool           `gorm:"default:false"`
}
