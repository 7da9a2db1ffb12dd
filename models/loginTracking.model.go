package models

import (
	"time"

	"gorm.io/gorm"
)

// LoginTracking records one successful login.
type LoginTracking struct {
	gorm.Model
	UserID    uint      `json:"userId" gorm:"index;not null"`
	IPAddress string    `json:"ipAddress" gorm:"size:64"`
	Device    string    `json:"device" gorm:"size:255"`
	Timestamp time.Time `json:"timestamp"`
}
