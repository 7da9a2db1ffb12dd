package courseController

import (
	"errors"
	"lms/cache"
	"lms/config"
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	"lms/services/progress"
	"lms/validators"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const courseListTTL = 5 * time.Minute

// courseDetail shadows the embedded lecture and quiz lists so they are always
// present in the response, empty for visitors who have not bought the course.
type courseDetail struct {
	courseModels.Course
	Lectures   []courseModels.Lecture `json:"lectures"`
	Quizzes    []courseModels.Quiz    `json:"quizzes"`
	IsEnrolled bool                   `json:"isEnrolled"`
}

func progressEngine() *progress.Engine {
	return progress.NewEngine(database.Database.Db, progress.WithPassPercentage(config.AppConfig.PassPercentage))
}

// GetAllCourses is the public catalog. Lectures are never included.
func GetAllCourses(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var courses []courseModels.Course
	if cache.Default.GetJSON(ctx, cache.CourseListKey, &courses) {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "All courses.", courses)
	}

	if err := database.Database.Db.WithContext(ctx).
		Where("is_deleted = ?", false).
		Order("created_at desc").
		Find(&courses).Error; err != nil {
		log.Printf("Error fetching courses: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	cache.Default.SetJSON(ctx, cache.CourseListKey, courses, courseListTTL)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "All courses.", courses)
}

// GetCourse returns one course. Lectures and the final assignment are only
// revealed to enrolled users and admins.
func GetCourse(c *fiber.Ctx) error {
	courseID, _ := validators.ParamID(c, "id")
	db := database.Database.Db.WithContext(c.UserContext())

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}
		log.Printf("Error fetching course %d: %v", courseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
	}

	enrolled, err := progressEngine().IsEnrolled(c.UserContext(), middleware.CurrentUserID(c), courseID)
	if err != nil {
		log.Printf("Error checking enrollment for course %d: %v", courseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
	}

	detail := courseDetail{
		Course:     course,
		Lectures:   []courseModels.Lecture{},
		Quizzes:    []courseModels.Quiz{},
		IsEnrolled: enrolled,
	}

	if enrolled || middleware.IsAdmin(c) {
		if err := db.Preload("Quizzes", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("id ASC")
		}).Where("course_id = ?", courseID).Order("order_index ASC, id ASC").Find(&detail.Lectures).Error; err != nil {
			log.Printf("Error fetching lectures for course %d: %v", courseID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
		}
		if err := db.Where("course_id = ? AND lecture_id IS NULL", courseID).Order("id ASC").Find(&detail.Quizzes).Error; err != nil {
			log.Printf("Error fetching assignment for course %d: %v", courseID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course details.", detail)
}

// GetEnrolledStudents lists the students of a course with their progress.
func GetEnrolledStudents(c *fiber.Ctx) error {
	courseID, _ := validators.ParamID(c, "id")

	students, err := progressEngine().EnrolledStudents(c.UserContext(), courseID)
	if errors.Is(err, progress.ErrCourseNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	if err != nil {
		log.Printf("Error fetching students for course %d: %v", courseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch students!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled students.", students)
}

func invalidateCourseList(c *fiber.Ctx) {
	cache.Default.Delete(c.UserContext(), cache.CourseListKey)
}

func findCourse(db *gorm.DB, courseID uint) (*courseModels.Course, error) {
	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// courseLookupError writes the response for a failed findCourse.
func courseLookupError(c *fiber.Ctx, err error, courseID uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	log.Printf("Error fetching course %d: %v", courseID, err)
	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
}
