package models

import "gorm.io/gorm"

// Payment is a verified gateway payment.
type Payment struct {
	gorm.Model
	UserID            uint   `gorm:"not null;index" json:"userId"`
	CourseID          uint   `gorm:"not null;index" json:"courseId"`
	RazorpayPaymentID string `gorm:"uniqueIndex;size:64;not null" json:"razorpay_payment_id"`
	RazorpayOrderID   string `gorm:"size:64;not null" json:"razorpay_order_id"`
	RazorpaySignature string `gorm:"size:255;not null" json:"razorpay_signature"`
	Amount            int64  `gorm:"not null;default:0" json:"amount"` // smallest currency unit
}

func (Payment) TableName() string {
	return "payments"
}
