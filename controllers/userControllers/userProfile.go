package userController

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	"lms/validators/userValidator"
	"log"

	"github.com/gofiber/fiber/v2"
)

// UpdateProfile changes the full name and/or avatar of the current user.
func UpdateProfile(c *fiber.Ctx) error {
	reqData := c.Locals("validatedProfile").(*userValidator.UpdateProfileRequest)
	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", middleware.CurrentUserID(c), false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User does not exist!", nil)
	}

	updates := map[string]interface{}{}
	if reqData.FullName != "" {
		updates["full_name"] = reqData.FullName
	}

	oldAvatar := ""
	if file, err := c.FormFile("avatar"); err == nil {
		path, err := utils.SaveUploadedFile(file, utils.UploadPath("avatars"))
		if err != nil {
			log.Printf("Error saving avatar: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "File not uploaded, please try again!", nil)
		}
		oldAvatar = user.AvatarURL
		updates["avatar_url"] = utils.GetFileURL(path)
	}

	if len(updates) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Nothing to update!", nil)
	}

	if err := db.Model(&user).Updates(updates).Error; err != nil {
		log.Printf("Error updating user %d: %v", user.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	if oldAvatar != "" {
		utils.RemoveUploadedURL(oldAvatar)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User updated successfully.", user)
}
