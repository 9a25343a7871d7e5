package models

import "gorm.io/gorm"

// Document categories.
const (
	DocCategoryDocument   = "DOCUMENT"
	DocCategoryAttendance = "ATTENDANCE"
	DocCategoryReport     = "REPORT"
)

type Document struct {
	gorm.Model
	TraineeID        uint   `json:"trainee_id" gorm:"index;not null"`
	ProjectID        *uint  `json:"project_id" gorm:"index"`
	UploadedBy       uint   `json:"uploaded_by" gorm:"not null"` // instructor id
	FileName         string `json:"file_name"`
	FilePath         string `json:"file_path"`
	Category         string `json:"category" gorm:"default:'DOCUMENT'"` // DOCUMENT, ATTENDANCE, REPORT
	VisibleToTrainee bool   `json:"visible_to_trainee" gorm:"default:false"`
	IsDeleted        bool   `gorm:"default:false"`
}
