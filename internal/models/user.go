package models

import (
	"time"
)

// UserStatus is the moderation state of an account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

// User represents a campus account as a subject of moderation. Accounts are
// created on first authentication and toggle between active and suspended;
// suspension blocks future submissions (enforced by the submission pipeline).
type User struct {
	ID           string     `gorm:"primaryKey" json:"id"`
	Name         string     `json:"name"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	ItemsPosted  int        `gorm:"default:0" json:"items_posted"`
	LastActiveAt time.Time  `json:"last_active"`
	ReportCount  int        `gorm:"default:0" json:"report_count"`
	SpamScore    float64    `gorm:"default:0" json:"spam_score"`
	Status       UserStatus `gorm:"index;default:'active'" json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (User) TableName() string {
	return "users"
}
