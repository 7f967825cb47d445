package model

import "time"

// WorkSession is one continuous span of work attributed to a task and its
// tier. Duration already excludes the lunch break.
type WorkSession struct {
	ID              uint   `gorm:"primaryKey"`
	UserID          string `gorm:"index"`
	TaskID          string `gorm:"index"`
	TaskTitle       string
	Tier            Tier
	Date            string `gorm:"index"` // YYYY-MM-DD
	StartTime       time.Time
	EndTime         time.Time
	DurationMinutes int
	ManualEnd       bool
	CreatedAt       time.Time
}

// DayLog tracks the 8-hour budget of one working day for one user.
type DayLog struct {
	ID            uint   `gorm:"primaryKey"`
	UserID        string `gorm:"index:idx_user_date,unique"`
	Date          string `gorm:"index:idx_user_date,unique"` // YYYY-MM-DD
	BudgetMinutes int    `gorm:"default:480"`
	UsedMinutes   int
	Ended         bool
	AutoEndedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RemainingMinutes never goes below zero even when the day ran over budget.
func (l *DayLog) RemainingMinutes() int {
	if l.UsedMinutes >= l.BudgetMinutes {
		return 0
	}
	return l.BudgetMinutes - l.UsedMinutes
}
