package userValidator

import (
	"lms/middleware"
	"lms/validators"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type UpdateProfileRequest struct {
	FullName string `json:"fullName" form:"fullName" validate:"omitempty,min=5,max=50"`
}

// LectureProgressRequest marks a lecture as watched.
type LectureProgressRequest struct {
	CourseID  uint `json:"courseId" validate:"required"`
	LectureID uint `json:"lectureId" validate:"required"`
}

// QuizScoreRequest reports a lecture quiz or final assignment score. Score is
// the number of correct answers.
type QuizScoreRequest struct {
	CourseID          uint `json:"courseId" validate:"required"`
	LectureID         uint `json:"lectureId" validate:"required_unless=IsFinalAssignment true"`
	Score             *int `json:"score" validate:"required,gte=0"`
	IsFinalAssignment bool `json:"isFinalAssignment"`
}

type CourseQuery struct {
	CourseID uint `query:"courseId" json:"courseId" validate:"required"`
}

func UpdateProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateProfileRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.FullName = strings.TrimSpace(reqData.FullName)

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProfile", reqData)
		return c.Next()
	}
}

func LectureProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LectureProgressRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProgress", reqData)
		return c.Next()
	}
}

func QuizScore() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(QuizScoreRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuizScore", reqData)
		return c.Next()
	}
}

func CourseProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CourseQuery)
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuery", reqData)
		return c.Next()
	}
}
