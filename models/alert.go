package models

import "time"

// Alert is persisted when a full reschedule finds a category already overdue
// (or never logged), so the dashboard can show what triggered the immediate
// notification.
type Alert struct {
	ID        string           `gorm:"primaryKey;size:36"` // uuid
	UserID    uint             `gorm:"index"`
	Category  ActivityCategory `gorm:"size:16"`
	Type      string           `gorm:"size:20"` // "overdue" | "info"
	Message   string           `gorm:"type:text"`
	CreatedAt time.Time
}
