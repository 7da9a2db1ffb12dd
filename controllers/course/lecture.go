package courseController

import (
	"context"
	"errors"
	"lms/config"
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	"lms/services/video"
	"lms/utils"
	"lms/validators"
	courseValidator "lms/validators/course"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func videoResolver() *video.Resolver {
	cfg := config.AppConfig
	return video.NewResolver(cfg.YoutubeAPIURL, cfg.YoutubeAPIKey, cfg.DriveAPIURL, cfg.DriveAPIKey)
}

// GetVideoDuration resolves the display duration of a YouTube or Drive URL.
func GetVideoDuration(c *fiber.Ctx) error {
	reqData := c.Locals("validatedVideo").(*courseValidator.VideoDurationRequest)

	duration, err := videoResolver().Duration(c.UserContext(), reqData.VideoURL)
	if err != nil {
		return videoFailure(err).respond(c)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Video duration fetched successfully.", fiber.Map{"duration": duration})
}

func AddLecture(c *fiber.Ctx) error {
	reqData := c.Locals("validatedLecture").(*courseValidator.LectureRequest)
	courseID, _ := validators.ParamID(c, "id")
	db := database.Database.Db.WithContext(c.UserContext())

	course, err := findCourse(db, courseID)
	if err != nil {
		return courseLookupError(c, err, courseID)
	}

	lecture := courseModels.Lecture{
		CourseID:    course.ID,
		Title:       reqData.Title,
		Description: reqData.Description,
	}
	if rerr := applyLectureSource(c.UserContext(), &lecture, reqData); rerr != nil {
		return rerr.respond(c)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&courseModels.Lecture{}).Where("course_id = ?", course.ID).Count(&count).Error; err != nil {
			return err
		}
		lecture.OrderIndex = int(count)
		if err := tx.Create(&lecture).Error; err != nil {
			return err
		}
		return syncLectureCount(tx, course.ID)
	})
	if err != nil {
		log.Printf("Error adding lecture to course %d: %v", course.ID, err)
		utils.RemoveUploadedFile(lecture.PublicID)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add lecture!", nil)
	}

	invalidateCourseList(c)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lecture added successfully.", lecture)
}

func UpdateLecture(c *fiber.Ctx) error {
	reqData := c.Locals("validatedLecture").(*courseValidator.LectureRequest)
	courseID, _ := validators.ParamID(c, "courseId")
	lectureID, _ := validators.ParamID(c, "lectureId")
	db := database.Database.Db.WithContext(c.UserContext())

	lecture, err := findLecture(db, courseID, lectureID)
	if err != nil {
		return lectureLookupError(c, err, lectureID)
	}

	oldUpload := lecture.PublicID
	if reqData.Title != "" {
		lecture.Title = reqData.Title
	}
	if reqData.Description != "" {
		lecture.Description = reqData.Description
	}
	sourceChanged := reqData.Video != nil || reqData.VideoURL != ""
	if sourceChanged {
		lecture.PublicID = ""
		if rerr := applyLectureSource(c.UserContext(), lecture, reqData); rerr != nil {
			return rerr.respond(c)
		}
	} else if reqData.Duration != "" {
		lecture.Duration = reqData.Duration
	}

	if err := db.Save(lecture).Error; err != nil {
		log.Printf("Error updating lecture %d: %v", lectureID, err)
		if sourceChanged {
			utils.RemoveUploadedFile(lecture.PublicID)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update lecture!", nil)
	}
	if sourceChanged && oldUpload != "" {
		utils.RemoveUploadedFile(oldUpload)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lecture updated successfully.", lecture)
}

// DeleteLecture removes a lecture together with its quiz questions.
func DeleteLecture(c *fiber.Ctx) error {
	courseID, _ := validators.ParamID(c, "courseId")
	lectureID, _ := validators.ParamID(c, "lectureId")
	db := database.Database.Db.WithContext(c.UserContext())

	lecture, err := findLecture(db, courseID, lectureID)
	if err != nil {
		return lectureLookupError(c, err, lectureID)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lecture_id = ?", lecture.ID).Delete(&courseModels.Quiz{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(lecture).Error; err != nil {
			return err
		}
		return syncLectureCount(tx, courseID)
	})
	if err != nil {
		log.Printf("Error deleting lecture %d: %v", lectureID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete lecture!", nil)
	}
	utils.RemoveUploadedFile(lecture.PublicID)

	invalidateCourseList(c)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lecture deleted successfully.", nil)
}

// requestError is a failure that maps to a client-facing status.
type requestError struct {
	status  int
	message string
}

func (e *requestError) Error() string { return e.message }

func (e *requestError) respond(c *fiber.Ctx) error {
	return middleware.JsonResponse(c, e.status, false, e.message, nil)
}

// applyLectureSource stores the uploaded video or takes the external URL and
// fills in the duration.
func applyLectureSource(ctx context.Context, lecture *courseModels.Lecture, reqData *courseValidator.LectureRequest) *requestError {
	lecture.Duration = reqData.Duration

	if reqData.Video != nil {
		path, err := utils.SaveUploadedFile(reqData.Video, utils.UploadPath("lectures"))
		if err != nil {
			log.Printf("Error saving lecture video: %v", err)
			return &requestError{fiber.StatusInternalServerError, "File not uploaded, please try again!"}
		}
		lecture.PublicID = path
		lecture.VideoURL = utils.GetFileURL(path)
		if lecture.Duration == "" {
			lecture.Duration = probeUploadDuration(path)
		}
		return nil
	}

	lecture.VideoURL = reqData.VideoURL
	if lecture.Duration != "" {
		return nil
	}
	duration, err := videoResolver().Duration(ctx, reqData.VideoURL)
	switch {
	case err == nil:
		lecture.Duration = duration
	case errors.Is(err, video.ErrUnsupportedURL), errors.Is(err, video.ErrNotFound):
		return videoFailure(err)
	default:
		log.Printf("Could not resolve duration of %s: %v", reqData.VideoURL, err)
	}
	return nil
}

func probeUploadDuration(path string) string {
	f, err := os.Open(path)
	if err != nil {
		log.Printf("Error opening %s: %v", path, err)
		return ""
	}
	defer f.Close()

	seconds, err := video.ProbeMP4Seconds(f)
	if err != nil {
		log.Printf("Could not read duration of %s: %v", path, err)
		return ""
	}
	return video.FormatUploadMinutes(seconds)
}

func videoFailure(err error) *requestError {
	switch {
	case errors.Is(err, video.ErrUnsupportedURL):
		return &requestError{fiber.StatusBadRequest, "Invalid video URL. Please provide a YouTube or Google Drive URL."}
	case errors.Is(err, video.ErrNotFound):
		return &requestError{fiber.StatusNotFound, "Video not found!"}
	default:
		log.Printf("Error fetching video duration: %v", err)
		return &requestError{fiber.StatusInternalServerError, "Failed to fetch video duration!"}
	}
}

func syncLectureCount(tx *gorm.DB, courseID uint) error {
	var count int64
	if err := tx.Model(&courseModels.Lecture{}).Where("course_id = ?", courseID).Count(&count).Error; err != nil {
		return err
	}
	return tx.Model(&courseModels.Course{}).Where("id = ?", courseID).Update("number_of_lectures", count).Error
}

func findLecture(db *gorm.DB, courseID, lectureID uint) (*courseModels.Lecture, error) {
	var lecture courseModels.Lecture
	err := db.Joins("JOIN courses ON courses.id = lectures.course_id AND courses.is_deleted = ?", false).
		Where("lectures.id = ? AND lectures.course_id = ?", lectureID, courseID).
		First(&lecture).Error
	if err != nil {
		return nil, err
	}
	return &lecture, nil
}

func lectureLookupError(c *fiber.Ctx, err error, lectureID uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lecture not found!", nil)
	}
	log.Printf("Error fetching lecture %d: %v", lectureID, err)
	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
}
