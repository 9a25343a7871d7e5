package models

import (
	"time"

	"gorm.io/gorm"
)

// Project statuses. The flow is strictly linear:
// ASSIGNED -> IN_PROGRESS -> COMPLETED. No skipping, no reverse.
const (
	ProjectAssigned   = "ASSIGNED"
	ProjectInProgress = "IN_PROGRESS"
	ProjectCompleted  = "COMPLETED"
)

// Performance rating bounds applied at completion.
const (
	MinPerformanceRating = 1
	MaxPerformanceRating = 10
)

type Project struct {
	gorm.Model
	TraineeID   uint       `json:"trainee_id" gorm:"index;not null"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description" gorm:"type:text"`
	DueDate     *time.Time `json:"due_date"`
	Status      string     `json:"status" gorm:"default:'ASSIGNED'"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`

	// Rating and both document paths are all empty before completion and
	// all set after; a single atomic update flips them with the status.
	PerformanceRating *int   `json:"performance_rating"`
	ReportPath        string `json:"report_path"`
	AttendancePath    string `json:"attendance_path"`

	IsDeleted bool `gorm:"default:false"`

	Trainee Trainee `json:"-" gorm:"foreignKey:TraineeID"`
}

// NextProjectStatus returns the single legal successor of a project
// status, or "" for COMPLETED.
func NextProjectStatus(status string) string {
	switch status {
	case ProjectAssigned:
		return ProjectInProgress
	case ProjectInProgress:
		return ProjectCompleted
	default:
		return ""
	}
}

// CanTransitionProject reports whether moving from one project status to
// another is legal.
func CanTransitionProject(from, to string) bool {
	return NextProjectStatus(from) == to && to != ""
}

// ValidRating reports whether a performance rating is inside the 1-10
// range required at completion.
func ValidRating(rating int) bool {
	return rating >= MinPerformanceRating && rating <= MaxPerformanceRating
}
