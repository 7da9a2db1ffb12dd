package models

import (
	"time"

	"gorm.io/gorm"
)

// SubscriptionStatus enum values
const (
	SubscriptionCreated = "created"
	SubscriptionActive  = "active"
)

// Subscription tracks a course purchase from order creation to verified payment.
type Subscription struct {
	gorm.Model
	UserID      uint       `gorm:"not null;index" json:"userId"`
	CourseID    uint       `gorm:"not null;index" json:"courseId"`
	OrderID     string     `gorm:"uniqueIndex;size:64;not null" json:"orderId"`
	Amount      int64      `gorm:"not null;default:0" json:"amount"` // smallest currency unit
	Currency    string     `gorm:"type:varchar(8);default:'INR'" json:"currency"`
	Status      string     `gorm:"type:varchar(20);not null;default:'created';index" json:"status"`
	ActivatedAt *time.Time `json:"activatedAt"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
