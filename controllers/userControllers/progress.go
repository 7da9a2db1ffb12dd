package userController

import (
	"errors"
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/services/progress"
	"lms/validators/userValidator"
	"log"

	"github.com/gofiber/fiber/v2"
)

func progressEngine() *progress.Engine {
	return progress.NewEngine(database.Database.Db, progress.WithPassPercentage(config.AppConfig.PassPercentage))
}

// MarkLectureComplete records a watched lecture.
func MarkLectureComplete(c *fiber.Ctx) error {
	reqData := c.Locals("validatedProgress").(*userValidator.LectureProgressRequest)

	p, err := progressEngine().RecordLectureCompletion(c.UserContext(), middleware.CurrentUserID(c), reqData.CourseID, reqData.LectureID)
	if err != nil {
		return progressError(c, err, "Failed to update progress!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User progress updated successfully.", p)
}

// SubmitQuizScore records a lecture quiz or final assignment score. When the
// user is not enrolled nothing is stored and data is the default progress.
func SubmitQuizScore(c *fiber.Ctx) error {
	reqData := c.Locals("validatedQuizScore").(*userValidator.QuizScoreRequest)

	p, err := progressEngine().RecordQuizScore(c.UserContext(), middleware.CurrentUserID(c), progress.QuizSubmission{
		CourseID:          reqData.CourseID,
		LectureID:         reqData.LectureID,
		Score:             reqData.Score,
		IsFinalAssignment: reqData.IsFinalAssignment,
	})
	if err != nil {
		return progressError(c, err, "Failed to update quiz score!")
	}
	if p == nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Not enrolled in this course, score not recorded.", progress.DefaultProgress(reqData.CourseID))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz score updated successfully.", p)
}

func GetCourseProgress(c *fiber.Ctx) error {
	reqData := c.Locals("validatedQuery").(*userValidator.CourseQuery)

	p, err := progressEngine().GetCourseProgress(c.UserContext(), middleware.CurrentUserID(c), reqData.CourseID)
	if err != nil {
		return progressError(c, err, "Failed to fetch course progress!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course progress fetched successfully.", p)
}

func GetMyCourses(c *fiber.Ctx) error {
	courses, err := progressEngine().MyCourses(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return progressError(c, err, "Failed to fetch courses!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "My courses fetched successfully.", courses)
}

func progressError(c *fiber.Ctx, err error, fallback string) error {
	var verr *progress.ValidationError
	switch {
	case errors.As(err, &verr):
		return middleware.ValidationErrorResponse(c, verr.Fields)
	case errors.Is(err, progress.ErrUserNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	case errors.Is(err, progress.ErrCourseNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	case errors.Is(err, progress.ErrLectureNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lecture not found!", nil)
	default:
		log.Printf("[PROGRESS] %s: %v", fallback, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, fallback, nil)
	}
}
