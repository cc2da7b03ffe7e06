// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// ItemStatus is the moderation state of a listed item.
type ItemStatus string

const (
	ItemStatusPending  ItemStatus = "pending"
	ItemStatusApproved ItemStatus = "approved"
	ItemStatusRejected ItemStatus = "rejected"
)

// ItemType distinguishes lost reports from found reports.
type ItemType string

const (
	ItemTypeLost  ItemType = "lost"
	ItemTypeFound ItemType = "found"
)

// Categories is the fixed vocabulary items are filed under.
var Categories = []string{
	"Electronics", "Books", "Clothing", "Accessories", "Keys", "Bags", "Other",
}

// Item represents a lost or found listing submitted by a campus user.
// Items enter the moderation queue as pending and move exactly once to
// approved or rejected.
type Item struct {
	ID          string     `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Type        ItemType   `gorm:"not null" json:"type"`
	Category    string     `json:"category"`
	Tags        []string   `gorm:"serializer:json" json:"tags"`
	Location    string     `json:"location"`
	OccurredOn  time.Time  `json:"occurred_on"`
	Description string     `gorm:"type:text;not null" json:"description"`
	SubmittedBy string     `gorm:"index;not null" json:"submitted_by"`
	SubmittedAt time.Time  `json:"submitted_at"`
	ReportCount int        `gorm:"default:0" json:"report_count"`
	SpamScore   float64    `gorm:"default:0" json:"spam_score"`
	SpamReasons []string   `gorm:"serializer:json" json:"spam_reasons,omitempty"`
	Status      ItemStatus `gorm:"index;default:'pending'" json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Item) TableName() string {
	return "items"
}

// HasTag reports whether the item carries the given tag.
func (i *Item) HasTag(tag string) bool {
	for _, t := range i.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
