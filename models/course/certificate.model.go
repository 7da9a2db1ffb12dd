package course

import (
	"time"

	"gorm.io/gorm"
)

// Certificate represents an issued certificate for course completion
type Certificate struct {
	gorm.Model
	UserID            uint      `json:"userId" gorm:"not null;uniqueIndex:idx_certificate_user_course"`
	CourseID          uint      `json:"courseId" gorm:"not null;uniqueIndex:idx_certificate_user_course"`
	CertificateNumber string    `json:"certificateNumber" gorm:"uniqueIndex;size:64;not null"`
	IssuedAt          time.Time `json:"issuedAt"`
}
