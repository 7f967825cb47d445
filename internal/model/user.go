package model

import "time"

// User is a staff member who can own or collaborate on tasks.
type User struct {
	ID         string `gorm:"primaryKey"`
	TelegramID int64  `gorm:"uniqueIndex"`
	Name       string
	Department string
	Role       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
