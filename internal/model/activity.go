package model

import "time"

// Activity represents a single time-boxed calendar entry.
//
// Date is stored as ISO "YYYY-MM-DD" and StartTime/EndTime as 24h "HH:MM",
// both in local wall-clock time. Lexicographic order on these strings is
// chronological order, which the schedule package relies on.
type Activity struct {
	ID          uint `gorm:"primaryKey"`
	UserID      uint `gorm:"index"`
	Title       string
	Description string
	Date        string `gorm:"index;size:10"`
	StartTime   string `gorm:"size:5"`
	EndTime     string `gorm:"size:5"`
	Category    string `gorm:"size:16"`
	Completed   bool   `gorm:"default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
