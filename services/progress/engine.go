// Package progress maintains per-user course progress: watched lectures,
// quiz scores and the completion flag derived from the final assignment.
package progress

import (
	"context"
	"fmt"
	"lms/models"
	courseModels "lms/models/course"
	"log"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPassPercentage is the final assignment pass mark.
const DefaultPassPercentage = 65.0

// Percentage returns score as a percentage of total, or 0 when total is 0.
func Percentage(score, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(score) / float64(total) * 100
}

// Passes reports whether score/total reaches threshold percent. Both sides
// are scaled by 100 instead of dividing, so 13/20 at 65% passes.
func Passes(score, total int, threshold float64) bool {
	if total == 0 {
		return false
	}
	return float64(score)*100 >= threshold*float64(total)
}

// QuizSubmission is a quiz or final assignment result reported by the client.
type QuizSubmission struct {
	CourseID          uint
	LectureID         uint
	Score             *int
	IsFinalAssignment bool
}

// QuizKey is the key the score is stored under.
func (s QuizSubmission) QuizKey() string {
	if s.IsFinalAssignment {
		return courseModels.FinalAssignmentKey
	}
	return strconv.FormatUint(uint64(s.LectureID), 10)
}

func (s QuizSubmission) Validate() error {
	fields := make(map[string]string)
	if s.CourseID == 0 {
		fields["courseId"] = "Course ID is required"
	}
	if s.Score == nil {
		fields["score"] = "Score is required"
	} else if *s.Score < 0 {
		fields["score"] = "Score must not be negative"
	}
	if !s.IsFinalAssignment && s.LectureID == 0 {
		fields["lectureId"] = "Lecture ID is required for lecture quizzes"
	}
	return newValidationError(fields)
}

type Engine struct {
	db             *gorm.DB
	passPercentage float64
}

type Option func(*Engine)

// WithPassPercentage overrides DefaultPassPercentage.
func WithPassPercentage(p float64) Option {
	return func(e *Engine) {
		if p > 0 {
			e.passPercentage = p
		}
	}
}

func NewEngine(db *gorm.DB, opts ...Option) *Engine {
	e := &Engine{db: db, passPercentage: DefaultPassPercentage}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RecordLectureCompletion marks lectureID as watched, creating the progress
// record on first use. Re-marking a lecture is a no-op. Completion of the
// course is never derived from lectures.
func (e *Engine) RecordLectureCompletion(ctx context.Context, userID, courseID, lectureID uint) (*Progress, error) {
	fields := make(map[string]string)
	if courseID == 0 {
		fields["courseId"] = "Course ID is required"
	}
	if lectureID == 0 {
		fields["lectureId"] = "Lecture ID is required"
	}
	if err := newValidationError(fields); err != nil {
		return nil, err
	}

	var view *Progress
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireUser(tx, userID); err != nil {
			return err
		}
		if err := requireCourse(tx, courseID); err != nil {
			return err
		}
		if err := requireLecture(tx, courseID, lectureID); err != nil {
			return err
		}

		p, _, err := ensureProgress(tx, userID, courseID)
		if err != nil {
			return err
		}

		completion := courseModels.LectureCompletion{ProgressID: p.ID, LectureID: lectureID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&completion).Error; err != nil {
			return fmt.Errorf("recording lecture completion: %w", err)
		}

		view, err = load(tx, p)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// RecordQuizScore stores the score of a lecture quiz or of the final
// assignment, overwriting any previous score for the same key. A final
// assignment submission recomputes IsCompleted every time, so a failed retake
// un-completes the course.
//
// Without an existing progress record nothing is stored and (nil, nil) is
// returned.
func (e *Engine) RecordQuizScore(ctx context.Context, userID uint, sub QuizSubmission) (*Progress, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	var view *Progress
	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireUser(tx, userID); err != nil {
			return err
		}
		if err := requireCourse(tx, sub.CourseID); err != nil {
			return err
		}
		if !sub.IsFinalAssignment {
			if err := requireLecture(tx, sub.CourseID, sub.LectureID); err != nil {
				return err
			}
		}

		p, err := findProgress(tx, userID, sub.CourseID)
		if err != nil || p == nil {
			return err
		}

		if sub.IsFinalAssignment {
			total, err := countFinalQuestions(tx, sub.CourseID)
			if err != nil {
				return err
			}
			completed := Passes(*sub.Score, int(total), e.passPercentage)
			if err := tx.Model(p).Update("is_completed", completed).Error; err != nil {
				return fmt.Errorf("updating completion: %w", err)
			}
			p.IsCompleted = completed
		}

		if err := upsertScore(tx, p.ID, sub.QuizKey(), *sub.Score); err != nil {
			return err
		}

		view, err = load(tx, p)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// GetCourseProgress returns the stored progress, or DefaultProgress when the
// user has none for courseID.
func (e *Engine) GetCourseProgress(ctx context.Context, userID, courseID uint) (*Progress, error) {
	if courseID == 0 {
		return nil, newValidationError(map[string]string{"courseId": "Course ID is required"})
	}

	db := e.db.WithContext(ctx)
	if err := requireUser(db, userID); err != nil {
		return nil, err
	}

	p, err := findProgress(db, userID, courseID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return DefaultProgress(courseID), nil
	}
	return load(db, p)
}

// Enroll creates the progress record for a purchased course. It is
// idempotent: an existing record is returned with created == false.
func (e *Engine) Enroll(ctx context.Context, userID, courseID uint) (view *Progress, created bool, err error) {
	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireUser(tx, userID); err != nil {
			return err
		}
		if err := requireCourse(tx, courseID); err != nil {
			return err
		}

		p, isNew, err := ensureProgress(tx, userID, courseID)
		if err != nil {
			return err
		}
		created = isNew

		view, err = load(tx, p)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return view, created, nil
}

// IsEnrolled reports whether the user has a progress record for courseID.
func (e *Engine) IsEnrolled(ctx context.Context, userID, courseID uint) (bool, error) {
	p, err := findProgress(e.db.WithContext(ctx), userID, courseID)
	if err != nil {
		return false, err
	}
	return p != nil, nil
}

// MyCourses lists the user's courses with their progress. Active
// subscriptions without a progress record are repaired first.
func (e *Engine) MyCourses(ctx context.Context, userID uint) ([]EnrolledCourse, error) {
	db := e.db.WithContext(ctx)
	if err := requireUser(db, userID); err != nil {
		return nil, err
	}

	if healed, err := e.HealEnrollments(ctx, &userID); err != nil {
		log.Printf("[PROGRESS] Self-healing enrollments for user %d failed: %v", userID, err)
	} else if healed > 0 {
		log.Printf("[PROGRESS] Self-healed %d enrollment(s) for user %d", healed, userID)
	}

	var rows []courseModels.CourseProgress
	if err := withScores(db).
		Preload("Course").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing progress: %w", err)
	}

	courses := make([]EnrolledCourse, 0, len(rows))
	for i := range rows {
		c := rows[i].Course
		if c.ID == 0 || c.IsDeleted {
			continue
		}
		courses = append(courses, EnrolledCourse{Course: c, Progress: toView(&rows[i])})
	}
	return courses, nil
}

// ReconcileSubscriptions repairs missing progress records for every active
// subscription.
func (e *Engine) ReconcileSubscriptions(ctx context.Context) (int, error) {
	return e.HealEnrollments(ctx, nil)
}

// HealEnrollments creates progress records for active subscriptions that have
// none, restricted to one user when userID is set. It is best effort: a pair
// that fails is logged and skipped.
func (e *Engine) HealEnrollments(ctx context.Context, userID *uint) (int, error) {
	db := e.db.WithContext(ctx)

	type pair struct {
		UserID   uint
		CourseID uint
	}

	q := db.Model(&models.Subscription{}).
		Select("DISTINCT subscriptions.user_id, subscriptions.course_id").
		Joins("JOIN courses ON courses.id = subscriptions.course_id AND courses.is_deleted = ?", false).
		Joins("JOIN users ON users.id = subscriptions.user_id AND users.is_deleted = ?", false).
		Joins("LEFT JOIN course_progresses ON course_progresses.user_id = subscriptions.user_id AND course_progresses.course_id = subscriptions.course_id AND course_progresses.deleted_at IS NULL").
		Where("subscriptions.status = ? AND course_progresses.id IS NULL", models.SubscriptionActive)
	if userID != nil {
		q = q.Where("subscriptions.user_id = ?", *userID)
	}

	var missing []pair
	if err := q.Scan(&missing).Error; err != nil {
		return 0, fmt.Errorf("finding missing enrollments: %w", err)
	}

	healed := 0
	for _, m := range missing {
		_, created, err := ensureProgress(db, m.UserID, m.CourseID)
		if err != nil {
			log.Printf("[PROGRESS] Failed to create progress for user %d course %d: %v", m.UserID, m.CourseID, err)
			continue
		}
		if created {
			healed++
		}
	}
	return healed, nil
}

// EnrolledStudents lists every user with a progress record for courseID.
func (e *Engine) EnrolledStudents(ctx context.Context, courseID uint) ([]StudentProgress, error) {
	db := e.db.WithContext(ctx)
	if err := requireCourse(db, courseID); err != nil {
		return nil, err
	}

	var rows []courseModels.CourseProgress
	if err := withScores(db).Where("course_id = ?", courseID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing progress: %w", err)
	}
	if len(rows) == 0 {
		return []StudentProgress{}, nil
	}

	userIDs := make([]uint, 0, len(rows))
	for _, r := range rows {
		userIDs = append(userIDs, r.UserID)
	}

	var users []models.User
	if err := db.Where("id IN ? AND is_deleted = ?", userIDs, false).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("loading students: %w", err)
	}
	byID := make(map[uint]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	students := make([]StudentProgress, 0, len(rows))
	for i := range rows {
		u, ok := byID[rows[i].UserID]
		if !ok {
			continue
		}
		students = append(students, StudentProgress{User: u, Progress: toView(&rows[i])})
	}
	return students, nil
}

func requireUser(db *gorm.DB, userID uint) error {
	var count int64
	if err := db.Model(&models.User{}).Where("id = ? AND is_deleted = ?", userID, false).Count(&count).Error; err != nil {
		return fmt.Errorf("looking up user: %w", err)
	}
	if count == 0 {
		return ErrUserNotFound
	}
	return nil
}

func requireCourse(db *gorm.DB, courseID uint) error {
	var count int64
	if err := db.Model(&courseModels.Course{}).Where("id = ? AND is_deleted = ?", courseID, false).Count(&count).Error; err != nil {
		return fmt.Errorf("looking up course: %w", err)
	}
	if count == 0 {
		return ErrCourseNotFound
	}
	return nil
}

// requireLecture fails unless lectureID belongs to courseID.
func requireLecture(db *gorm.DB, courseID, lectureID uint) error {
	var count int64
	if err := db.Model(&courseModels.Lecture{}).Where("id = ? AND course_id = ?", lectureID, courseID).Count(&count).Error; err != nil {
		return fmt.Errorf("looking up lecture: %w", err)
	}
	if count == 0 {
		return ErrLectureNotFound
	}
	return nil
}

func countFinalQuestions(db *gorm.DB, courseID uint) (int64, error) {
	var total int64
	if err := db.Model(&courseModels.Quiz{}).Where("course_id = ? AND lecture_id IS NULL", courseID).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("counting assignment questions: %w", err)
	}
	return total, nil
}

// findProgress returns nil, nil when the user has no record for courseID.
func findProgress(db *gorm.DB, userID, courseID uint) (*courseModels.CourseProgress, error) {
	var p courseModels.CourseProgress
	res := db.Where("user_id = ? AND course_id = ?", userID, courseID).Limit(1).Find(&p)
	if res.Error != nil {
		return nil, fmt.Errorf("looking up progress: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &p, nil
}

// ensureProgress inserts an empty record unless one exists. A concurrent
// insert of the same (user, course) loses on the unique index and re-reads
// the winner.
func ensureProgress(db *gorm.DB, userID, courseID uint) (*courseModels.CourseProgress, bool, error) {
	p, err := findProgress(db, userID, courseID)
	if err != nil || p != nil {
		return p, false, err
	}

	p = &courseModels.CourseProgress{UserID: userID, CourseID: courseID}
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(p)
	if res.Error != nil {
		return nil, false, fmt.Errorf("creating progress: %w", res.Error)
	}
	if res.RowsAffected == 1 && p.ID != 0 {
		return p, true, nil
	}

	p, err = findProgress(db, userID, courseID)
	if err != nil {
		return nil, false, err
	}
	if p == nil {
		return nil, false, fmt.Errorf("progress for user %d course %d vanished after insert", userID, courseID)
	}
	return p, false, nil
}

func upsertScore(db *gorm.DB, progressID uint, quizKey string, score int) error {
	row := courseModels.QuizScore{ProgressID: progressID, QuizKey: quizKey, Score: score}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "progress_id"}, {Name: "quiz_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("saving quiz score: %w", err)
	}
	return nil
}

func withScores(db *gorm.DB) *gorm.DB {
	return db.
		Preload("LecturesCompleted", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("QuizScores", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") })
}

func load(db *gorm.DB, p *courseModels.CourseProgress) (*Progress, error) {
	var full courseModels.CourseProgress
	if err := withScores(db).First(&full, p.ID).Error; err != nil {
		return nil, fmt.Errorf("loading progress: %w", err)
	}
	return toView(&full), nil
}
