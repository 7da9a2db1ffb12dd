package courseValidator

import (
	"lms/config"
	"lms/middleware"
	"lms/validators"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type CreateCourseRequest struct {
	Title              string                `json:"title" form:"title" validate:"notblank,min=8,max=59"`
	Description        string                `json:"description" form:"description" validate:"notblank,min=8,max=500"`
	Category           string                `json:"category" form:"category" validate:"notblank"`
	CreatedBy          string                `json:"createdBy" form:"createdBy" validate:"notblank"`
	Price              int64                 `json:"price" form:"price" validate:"gte=0"`
	LearningObjectives []string              `json:"learningObjectives" form:"learningObjectives" validate:"dive,notblank"`
	Thumbnail          *multipart.FileHeader `json:"-" form:"-" validate:"-"`
}

// UpdateCourseRequest only changes the fields that are set.
type UpdateCourseRequest struct {
	Title              *string               `json:"title" form:"title" validate:"omitempty,min=8,max=59"`
	Description        *string               `json:"description" form:"description" validate:"omitempty,min=8,max=500"`
	Category           *string               `json:"category" form:"category" validate:"omitempty,notblank"`
	CreatedBy          *string               `json:"createdBy" form:"createdBy" validate:"omitempty,notblank"`
	Price              *int64                `json:"price" form:"price" validate:"omitempty,gte=0"`
	LearningObjectives []string              `json:"learningObjectives" form:"learningObjectives" validate:"omitempty,dive,notblank"`
	Thumbnail          *multipart.FileHeader `json:"-" form:"-" validate:"-"`
}

// LectureRequest carries exactly one of an uploaded video file or VideoURL.
type LectureRequest struct {
	Title       string                `json:"title" form:"title" validate:"notblank"`
	Description string                `json:"description" form:"description"`
	VideoURL    string                `json:"videoUrl" form:"videoUrl" validate:"omitempty,url"`
	Duration    string                `json:"duration" form:"duration"`
	Video       *multipart.FileHeader `json:"-" form:"-" validate:"-"`
}

type QuizRequest struct {
	Question      string   `json:"question" validate:"notblank"`
	Options       []string `json:"options" validate:"min=2,dive,notblank"`
	CorrectAnswer string   `json:"correctAnswer" validate:"notblank"`
}

type VideoDurationRequest struct {
	VideoURL string `json:"videoUrl" validate:"required,url"`
}

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Title = strings.TrimSpace(reqData.Title)

		errors := validators.Struct(reqData)
		if file, err := c.FormFile("thumbnail"); err == nil {
			if msg := checkUpload(file, "image/"); msg != "" {
				errors["thumbnail"] = msg
			}
			reqData.Thumbnail = file
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

func UpdateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateCourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if reqData.Title != nil {
			title := strings.TrimSpace(*reqData.Title)
			reqData.Title = &title
		}

		errors := validators.Struct(reqData)
		if _, ok := validators.ParamID(c, "id"); !ok {
			errors["id"] = "Invalid course ID!"
		}
		if file, err := c.FormFile("thumbnail"); err == nil {
			if msg := checkUpload(file, "image/"); msg != "" {
				errors["thumbnail"] = msg
			}
			reqData.Thumbnail = file
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// Lecture validates add and update lecture requests. On update neither the
// file nor the URL is required.
func Lecture(update bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LectureRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.VideoURL = strings.TrimSpace(reqData.VideoURL)

		errors := validators.Struct(reqData)
		if file, err := c.FormFile("lecture"); err == nil {
			if msg := checkUpload(file, "video/"); msg != "" {
				errors["lecture"] = msg
			}
			reqData.Video = file
		}

		switch {
		case reqData.Video != nil && reqData.VideoURL != "":
			errors["lecture"] = "Provide either a video file or a video URL, not both!"
		case reqData.Video == nil && reqData.VideoURL == "" && !update:
			errors["lecture"] = "A video file or a video URL is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLecture", reqData)
		return c.Next()
	}
}

func Quiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(QuizRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := validators.Struct(reqData)
		if _, exists := errors["correctAnswer"]; !exists && !contains(reqData.Options, reqData.CorrectAnswer) {
			errors["correctAnswer"] = "Correct answer must be one of the options!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuiz", reqData)
		return c.Next()
	}
}

func VideoDuration() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(VideoDurationRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedVideo", reqData)
		return c.Next()
	}
}

// IDParams rejects requests whose named route parameters are not positive
// integers.
func IDParams(names ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		errors := make(map[string]string)
		for _, name := range names {
			if _, ok := validators.ParamID(c, name); !ok {
				errors[name] = "Invalid " + name + "!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}
		return c.Next()
	}
}

func checkUpload(file *multipart.FileHeader, mimePrefix string) string {
	maxBytes := int64(config.AppConfig.MaxUploadSizeMB) << 20
	if file.Size > maxBytes {
		return "File is too large!"
	}
	if ct := file.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, mimePrefix) {
		return "Unsupported file type!"
	}
	return ""
}

func contains(options []string, answer string) bool {
	for _, o := range options {
		if o == answer {
			return true
		}
	}
	return false
}
