package courseController

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	"lms/utils"
	"lms/validators"
	courseValidator "lms/validators/course"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

func CreateCourse(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCourse").(*courseValidator.CreateCourseRequest)
	db := database.Database.Db.WithContext(c.UserContext())

	var count int64
	if err := db.Model(&courseModels.Course{}).Where("title = ?", reqData.Title).Count(&count).Error; err != nil {
		log.Printf("Error checking course title: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}
	if count > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "A course with this title already exists!", nil)
	}

	course := courseModels.Course{
		Title:              reqData.Title,
		Description:        reqData.Description,
		Category:           reqData.Category,
		CreatedBy:          reqData.CreatedBy,
		Price:              reqData.Price,
		LearningObjectives: datatypes.JSONSlice[string](reqData.LearningObjectives),
	}

	if reqData.Thumbnail != nil {
		path, err := utils.SaveUploadedFile(reqData.Thumbnail, utils.UploadPath("thumbnails"))
		if err != nil {
			log.Printf("Error saving thumbnail: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "File not uploaded, please try again!", nil)
		}
		course.ThumbnailURL = utils.GetFileURL(path)
	}

	if err := db.Create(&course).Error; err != nil {
		log.Printf("Error creating course: %v", err)
		utils.RemoveUploadedURL(course.ThumbnailURL)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	invalidateCourseList(c)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully.", course)
}

func UpdateCourse(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCourse").(*courseValidator.UpdateCourseRequest)
	courseID, _ := validators.ParamID(c, "id")
	db := database.Database.Db.WithContext(c.UserContext())

	course, err := findCourse(db, courseID)
	if err != nil {
		return courseLookupError(c, err, courseID)
	}

	updates := map[string]interface{}{}
	if reqData.Title != nil && *reqData.Title != course.Title {
		var count int64
		if err := db.Model(&courseModels.Course{}).Where("title = ? AND id <> ?", *reqData.Title, courseID).Count(&count).Error; err != nil {
			log.Printf("Error checking course title: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
		}
		if count > 0 {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "A course with this title already exists!", nil)
		}
		updates["title"] = *reqData.Title
	}
	if reqData.Description != nil {
		updates["description"] = *reqData.Description
	}
	if reqData.Category != nil {
		updates["category"] = *reqData.Category
	}
	if reqData.CreatedBy != nil {
		updates["created_by"] = *reqData.CreatedBy
	}
	if reqData.Price != nil {
		updates["price"] = *reqData.Price
	}
	if reqData.LearningObjectives != nil {
		updates["learning_objectives"] = datatypes.JSONSlice[string](reqData.LearningObjectives)
	}

	oldThumbnail := ""
	if reqData.Thumbnail != nil {
		path, err := utils.SaveUploadedFile(reqData.Thumbnail, utils.UploadPath("thumbnails"))
		if err != nil {
			log.Printf("Error saving thumbnail: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "File not uploaded, please try again!", nil)
		}
		oldThumbnail = course.ThumbnailURL
		updates["thumbnail_url"] = utils.GetFileURL(path)
	}

	if len(updates) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Nothing to update!", nil)
	}

	if err := db.Model(course).Updates(updates).Error; err != nil {
		log.Printf("Error updating course %d: %v", courseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}
	if oldThumbnail != "" {
		utils.RemoveUploadedURL(oldThumbnail)
	}

	invalidateCourseList(c)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully.", course)
}

// RemoveCourse hides a course from the catalog. Progress and certificates
// already issued for it are kept.
func RemoveCourse(c *fiber.Ctx) error {
	courseID, _ := validators.ParamID(c, "id")
	db := database.Database.Db.WithContext(c.UserContext())

	course, err := findCourse(db, courseID)
	if err != nil {
		return courseLookupError(c, err, courseID)
	}

	if err := db.Model(course).Update("is_deleted", true).Error; err != nil {
		log.Printf("Error deleting course %d: %v", courseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	invalidateCourseList(c)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully.", nil)
}
