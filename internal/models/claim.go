package models

import (
	"time"
)

// ClaimStatus is the moderation state of an ownership claim.
type ClaimStatus string

const (
	ClaimStatusPending  ClaimStatus = "pending"
	ClaimStatusApproved ClaimStatus = "approved"
	ClaimStatusRejected ClaimStatus = "rejected"
)

// Claim represents an ownership claim filed against a found item. Its
// workflow is independent of the item's own moderation status.
type Claim struct {
	ID             string      `gorm:"primaryKey" json:"id"`
	ItemID         string      `gorm:"index;not null" json:"item_id"`
	ItemTitle      string      `json:"item_title"`
	RequesterName  string      `json:"requester_name"`
	RequesterEmail string      `gorm:"index;not null" json:"requester_email"`
	RequestDate    time.Time   `json:"request_date"`
	Description    string      `gorm:"type:text" json:"description"`
	SpamScore      float64     `gorm:"default:0" json:"spam_score"`
	Status         ClaimStatus `gorm:"index;default:'pending'" json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Claim) TableName() string {
	return "claims"
}
