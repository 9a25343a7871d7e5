package models

import (
	"time"

	"gorm.io/gorm"
)

// Progress review statuses.
const (
	ReviewInReview  = "IN_REVIEW"
	ReviewCompleted = "COMPLETED"
)

// ProgressReview records an instructor sharing a trainee's progress for
// admin sign-off.
type ProgressReview struct {
	gorm.Model
	TraineeID    uint       `json:"trainee_id" gorm:"index;not null"`
	InstructorID uint       `json:"instructor_id" gorm:"index;not null"`
	AdminID      *uint      `json:"admin_id"` // set when an admin marks it reviewed
	Status       string     `json:"status" gorm:"default:'IN_REVIEW'"`
	Summary      string     `json:"summary" gorm:"type:text"`
	Comments     string     `json:"comments" gorm:"type:text"`
	ReviewedAt   *time.Time `json:"reviewed_at"`
	IsDeleted    bool       `gorm:"default:false"`

	Trainee Trainee `json:"-" gorm:"foreignKey:TraineeID"`
}
