package course

import "gorm.io/gorm"

// Lecture is a single video lecture within a course
type Lecture struct {
	gorm.Model
	CourseID    uint   `json:"courseId" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description" gorm:"type:text"`
	VideoURL    string `json:"videoUrl"`
	PublicID    string `json:"publicId"` // stored file path for uploaded videos
	Duration    string `json:"duration"` // display form, e.g. "1h 2m 3s"
	OrderIndex  int    `json:"orderIndex" gorm:"default:0"`

	Quizzes []Quiz `json:"quizzes" gorm:"foreignKey:LectureID"`
}
