package progress

import (
	"lms/models"
	courseModels "lms/models/course"
)

// QuizScore is the API form of a stored score.
type QuizScore struct {
	QuizID string `json:"quizId"`
	Score  int    `json:"score"`
}

// Progress is the API form of a CourseProgress record. Slices are never nil
// so that they serialise as [] rather than null.
type Progress struct {
	CourseID          uint        `json:"courseId"`
	LecturesCompleted []uint      `json:"lecturesCompleted"`
	QuizScores        []QuizScore `json:"quizScores"`
	IsCompleted       bool        `json:"isCompleted"`
	CertificateURL    string      `json:"certificateUrl,omitempty"`
}

// DefaultProgress is returned for courses the user has no record for yet.
func DefaultProgress(courseID uint) *Progress {
	return &Progress{
		CourseID:          courseID,
		LecturesCompleted: []uint{},
		QuizScores:        []QuizScore{},
	}
}

// Score returns the stored score for a quiz key.
func (p *Progress) Score(quizKey string) (int, bool) {
	for _, s := range p.QuizScores {
		if s.QuizID == quizKey {
			return s.Score, true
		}
	}
	return 0, false
}

func (p *Progress) HasCompletedLecture(lectureID uint) bool {
	for _, id := range p.LecturesCompleted {
		if id == lectureID {
			return true
		}
	}
	return false
}

// EnrolledCourse is one entry of a user's course listing.
type EnrolledCourse struct {
	courseModels.Course
	Progress *Progress `json:"progress"`
}

// StudentProgress is one entry of a course's enrolled students listing.
type StudentProgress struct {
	models.User
	Progress *Progress `json:"progress"`
}

func toView(p *courseModels.CourseProgress) *Progress {
	view := DefaultProgress(p.CourseID)
	view.IsCompleted = p.IsCompleted
	view.CertificateURL = p.CertificateURL

	for _, lc := range p.LecturesCompleted {
		view.LecturesCompleted = append(view.LecturesCompleted, lc.LectureID)
	}
	for _, qs := range p.QuizScores {
		view.QuizScores = append(view.QuizScores, QuizScore{QuizID: qs.QuizKey, Score: qs.Score})
	}
	return view
}
