package models

import (
	"time"

	"gorm.io/gorm"
)

// Trainee statuses. Transitions only ever move forward:
// PENDING_APPROVAL -> APPROVED -> ACTIVE -> COMPLETED, or
// PENDING_APPROVAL -> REJECTED. REJECTED and COMPLETED are terminal.
const (
	TraineePendingApproval = "PENDING_APPROVAL"
	TraineeApproved        = "APPROVED"
	TraineeRejected        = "REJECTED"
	TraineeActive          = "ACTIVE"
	TraineeCompleted       = "COMPLETED"
)

type Trainee struct {
	gorm.Model
	InstructorID uint   `json:"instructor_id" gorm:"index;not null"`
	Name         string `json:"name" gorm:"not null"`
	Email        string `json:"email"`
	Mobile       string `json:"mobile" gorm:"size:15"`
	Address      string `json:"address"`
	JoiningDate  string `json:"joining_date"`

	GuardianName   string `json:"guardian_name"`
	GuardianMobile string `json:"guardian_mobile" gorm:"size:15"`
	ReferenceName  string `json:"reference_name"`
	ReferenceInfo  string `json:"reference_info"`

	Status           string     `json:"status" gorm:"default:'PENDING_APPROVAL'"`
	ApprovedBy       *uint      `json:"approved_by"`
	ApprovalComments string     `json:"approval_comments"`
	ApprovedAt       *time.Time `json:"approved_at"`
	CompletedAt      *time.Time `json:"completed_at"`
	IsDeleted        bool       `gorm:"default:false"`

	Instructor User `json:"-" gorm:"foreignKey:InstructorID"`
}

// traineeTransitions lists the legal next statuses for each status.
var traineeTransitions = map[string][]string{
	TraineePendingApproval: {TraineeApproved, TraineeRejected},
	TraineeApproved:        {TraineeActive},
	TraineeActive:          {TraineeCompleted},
	TraineeRejected:        {},
	TraineeCompleted:       {},
}

// CanTransitionTrainee reports whether moving from one trainee status to
// another is legal.
func CanTransitionTrainee(from, to string) bool {
	for _, next := range traineeTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TraineeTerminal reports whether a trainee status admits no further
// transitions.
func TraineeTerminal(status string) bool {
	return len(traineeTransitions[status]) == 0
}

// TraineeEditable reports whether instructor field edits are still
// allowed for the given status.
func TraineeEditable(status string) bool {
	return status != TraineeRejected && status != TraineeCompleted
}
