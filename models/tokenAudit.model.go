package models

import (
	"time"

	"gorm.io/gorm"
)

// Token issuance methods recorded in the audit trail.
const (
	IssueMethodPassword = "PASSWORD"
	IssueMethodOTP      = "OTP"
	IssueMethodRefresh  = "REFRESH"
	IssueMethodLogout   = "LOGOUT"
)

// TokenAudit is an append-only log of token issuance and logout events.
type TokenAudit struct {
	gorm.Model
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Role      string    `json:"role"`
	Method    string    `json:"method"` // PASSWORD, OTP, REFRESH, LOGOUT
	IPAddress string    `json:"ip_address"`
	Device    string    `json:"device"`
	IssuedAt  time.Time `json:"issued_at"`
	IsDeleted bool      `gorm:"default:false"`
}
