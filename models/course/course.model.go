package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Course represents a learning course
type Course struct {
	gorm.Model
	Title              string                      `json:"title" gorm:"uniqueIndex;size:191;not null"`
	Description        string                      `json:"description" gorm:"type:text"`
	Category           string                      `json:"category"`
	LearningObjectives datatypes.JSONSlice[string] `json:"learningObjectives"`
	Price              int64                       `json:"price" gorm:"default:0"`
	ThumbnailURL       string                      `json:"thumbnailUrl"`
	CreatedBy          string                      `json:"createdBy"`
	NumberOfLectures   int                         `json:"numberOfLectures" gorm:"default:0"`
	IsDeleted          bool                        `json:"-" gorm:"default:false"`

	Lectures []Lecture `json:"lectures,omitempty" gorm:"foreignKey:CourseID"`
	// Quizzes holds the final assignment; lecture quizzes hang off Lecture.
	Quizzes []Quiz `json:"quizzes,omitempty" gorm:"foreignKey:CourseID"`
}
