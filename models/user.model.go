package models

import (
	"time"

	"gorm.io/gorm"
)

// Roles
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	gorm.Model
	FullName             string     `json:"fullName" gorm:"not null"`
	Email                string     `json:"email" gorm:"uniqueIndex;size:191;not null"`
	Password             string     `json:"-" gorm:"not null"`
	Role                 string     `json:"role" gorm:"default:'USER'"` // USER, ADMIN
	AvatarURL            string     `json:"avatarUrl" gorm:"default:''"`
	ForgotPasswordToken  string     `json:"-" gorm:"index;size:64"`
	ForgotPasswordExpiry *time.Time `json:"-"`
	LastLogin            *time.Time `json:"lastLogin"`
	IsDeleted            bool       `json:"-" gorm:"default:false"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
