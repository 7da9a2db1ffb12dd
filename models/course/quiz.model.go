package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Quiz is one multiple choice question. LectureID is nil for questions of
// the course-level final assignment.
type Quiz struct {
	gorm.Model
	CourseID      uint                        `json:"courseId" gorm:"index;not null"`
	LectureID     *uint                       `json:"lectureId" gorm:"index"`
	Question      string                      `json:"question" gorm:"type:text;not null"`
	Options       datatypes.JSONSlice[string] `json:"options"`
	CorrectAnswer string                      `json:"correctAnswer" gorm:"not null"`
}

func (q Quiz) IsFinalAssignment() bool {
	return q.LectureID == nil
}
