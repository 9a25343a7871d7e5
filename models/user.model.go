package models

import (
	"time"

	"gorm.io/gorm"
)

// Roles recognised by the application. Only staff log in; trainees are
// records managed by instructors, not accounts.
const (
	RoleAdmin      = "ADMIN"
	RoleInstructor = "INSTRUCTOR"
)

type User struct {
	gorm.Model
	Name                string `gorm:"default:''"`
	Email               string `gorm:"unique;not null"`
	Mobile              string `gorm:"default:''"`
	Role                string `gorm:"default:'INSTRUCTOR'"` // ADMIN, INSTRUCTOR
	Password            string `gorm:"not null" json:"-"`
	Department          string
	Title               string
	LastLogin           *time.Time
	FailedLoginAttempts int        `gorm:"default:0"`
	LastFailedLogin     *time.Time `json:"last_failed_login"`
	IsBlocked           bool       `gorm:"default:false"`
	BlockedUntil        *time.Time `json:"blocked_until"`
	IsDeleted           bool       `gorm:"default:false"`
}

// ValidRole reports whether role is one of the two staff roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleInstructor
}
