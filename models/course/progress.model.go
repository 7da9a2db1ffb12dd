package course

import (
	"time"

	"gorm.io/gorm"
)

// FinalAssignmentKey is the quiz key under which the final assignment score is stored.
const FinalAssignmentKey = "final-assignment"

// CourseProgress is a user's progress in one course. At most one row exists
// per (user, course).
type CourseProgress struct {
	gorm.Model
	UserID         uint   `json:"userId" gorm:"not null;uniqueIndex:idx_progress_user_course"`
	CourseID       uint   `json:"courseId" gorm:"not null;uniqueIndex:idx_progress_user_course"`
	IsCompleted    bool   `json:"isCompleted" gorm:"default:false"`
	CertificateURL string `json:"certificateUrl"`

	LecturesCompleted []LectureCompletion `json:"-" gorm:"foreignKey:ProgressID"`
	QuizScores        []QuizScore         `json:"-" gorm:"foreignKey:ProgressID"`
	Course            Course              `json:"-" gorm:"foreignKey:CourseID"`
}

// LectureCompletion marks one lecture as watched.
type LectureCompletion struct {
	ID         uint      `gorm:"primarykey"`
	ProgressID uint      `gorm:"not null;uniqueIndex:idx_completion_progress_lecture"`
	LectureID  uint      `gorm:"not null;uniqueIndex:idx_completion_progress_lecture"`
	CreatedAt  time.Time
}

// QuizScore is the latest score for a quiz key (a lecture id or FinalAssignmentKey).
type QuizScore struct {
	ID         uint   `gorm:"primarykey"`
	ProgressID uint   `gorm:"not null;uniqueIndex:idx_quiz_score_progress_key"`
	QuizKey    string `gorm:"size:64;not null;uniqueIndex:idx_quiz_score_progress_key"`
	Score      int    `gorm:"not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
