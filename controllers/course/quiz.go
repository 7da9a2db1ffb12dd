package courseController

import (
	"errors"
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	"lms/validators"
	courseValidator "lms/validators/course"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AddCourseQuiz adds a question to the course's final assignment.
func AddCourseQuiz(c *fiber.Ctx) error {
	reqData := c.Locals("validatedQuiz").(*courseValidator.QuizRequest)
	courseID, _ := validators.ParamID(c, "id")
	db := database.Database.Db.WithContext(c.UserContext())

	course, err := findCourse(db, courseID)
	if err != nil {
		return courseLookupError(c, err, courseID)
	}

	return createQuiz(c, db, course.ID, nil, reqData)
}

func UpdateCourseQuiz(c *fiber.Ctx) error {
	reqData := c.Locals("validatedQuiz").(*courseValidator.QuizRequest)
	courseID, _ := validators.ParamID(c, "courseId")
	quizID, _ := validators.ParamID(c, "quizId")
	db := database.Database.Db.WithContext(c.UserContext())

	quiz, err := findQuiz(db, courseID, nil, quizID)
	if err != nil {
		return quizLookupError(c, err, quizID)
	}

	return saveQuiz(c, db, quiz, reqData)
}

func DeleteCourseQuiz(c *fiber.Ctx) error {
	courseID, _ := validators.ParamID(c, "courseId")
	quizID, _ := validators.ParamID(c, "quizId")
	db := database.Database.Db.WithContext(c.UserContext())

	quiz, err := findQuiz(db, courseID, nil, quizID)
	if err != nil {
		return quizLookupError(c, err, quizID)
	}

	return deleteQuiz(c, db, quiz)
}

// AddLectureQuiz adds a question to the quiz of one lecture.
func AddLectureQuiz(c *fiber.Ctx) error {
	reqData := c.Locals("validatedQuiz").(*courseValidator.QuizRequest)
	courseID, _ := validators.ParamID(c, "courseId")
	lectureID, _ := validators.ParamID(c, "lectureId")
	db := database.Database.Db.WithContext(c.UserContext())

	lecture, err := findLecture(db, courseID, lectureID)
	if err != nil {
		return lectureLookupError(c, err, lectureID)
	}

	return createQuiz(c, db, courseID, &lecture.ID, reqData)
}

func UpdateLectureQuiz(c *fiber.Ctx) error {
	reqData := c.Locals("validatedQuiz").(*courseValidator.QuizRequest)
	courseID, _ := validators.ParamID(c, "courseId")
	lectureID, _ := validators.ParamID(c, "lectureId")
	quizID, _ := validators.ParamID(c, "quizId")
	db := database.Database.Db.WithContext(c.UserContext())

	quiz, err := findQuiz(db, courseID, &lectureID, quizID)
	if err != nil {
		return quizLookupError(c, err, quizID)
	}

	return saveQuiz(c, db, quiz, reqData)
}

func DeleteLectureQuiz(c *fiber.Ctx) error {
	courseID, _ := validators.ParamID(c, "courseId")
	lectureID, _ := validators.ParamID(c, "lectureId")
	quizID, _ := validators.ParamID(c, "quizId")
	db := database.Database.Db.WithContext(c.UserContext())

	quiz, err := findQuiz(db, courseID, &lectureID, quizID)
	if err != nil {
		return quizLookupError(c, err, quizID)
	}

	return deleteQuiz(c, db, quiz)
}

func createQuiz(c *fiber.Ctx, db *gorm.DB, courseID uint, lectureID *uint, reqData *courseValidator.QuizRequest) error {
	quiz := courseModels.Quiz{
		CourseID:      courseID,
		LectureID:     lectureID,
		Question:      reqData.Question,
		Options:       datatypes.JSONSlice[string](reqData.Options),
		CorrectAnswer: reqData.CorrectAnswer,
	}

	if err := db.Create(&quiz).Error; err != nil {
		log.Printf("Error adding quiz to course %d: %v", courseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz added successfully.", quiz)
}

func saveQuiz(c *fiber.Ctx, db *gorm.DB, quiz *courseModels.Quiz, reqData *courseValidator.QuizRequest) error {
	quiz.Question = reqData.Question
	quiz.Options = datatypes.JSONSlice[string](reqData.Options)
	quiz.CorrectAnswer = reqData.CorrectAnswer

	if err := db.Save(quiz).Error; err != nil {
		log.Printf("Error updating quiz %d: %v", quiz.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz updated successfully.", quiz)
}

func deleteQuiz(c *fiber.Ctx, db *gorm.DB, quiz *courseModels.Quiz) error {
	if err := db.Delete(quiz).Error; err != nil {
		log.Printf("Error deleting quiz %d: %v", quiz.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz deleted successfully.", nil)
}

// findQuiz loads a question of a live course. A nil lectureID selects the
// final assignment.
func findQuiz(db *gorm.DB, courseID uint, lectureID *uint, quizID uint) (*courseModels.Quiz, error) {
	q := db.Joins("JOIN courses ON courses.id = quizzes.course_id AND courses.is_deleted = ?", false).
		Where("quizzes.id = ? AND quizzes.course_id = ?", quizID, courseID)
	if lectureID == nil {
		q = q.Where("quizzes.lecture_id IS NULL")
	} else {
		q = q.Where("quizzes.lecture_id = ?", *lectureID)
	}

	var quiz courseModels.Quiz
	if err := q.First(&quiz).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func quizLookupError(c *fiber.Ctx, err error, quizID uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}
	log.Printf("Error fetching quiz %d: %v", quizID, err)
	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
}
