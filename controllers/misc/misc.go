package miscController

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	miscValidator "lms/validators/misc"
	"log"

	"github.com/gofiber/fiber/v2"
)

// ContactUs forwards a contact form submission to the site's contact address.
func ContactUs(c *fiber.Ctx) error {
	reqData := c.Locals("validatedContact").(*miscValidator.ContactRequest)

	if err := utils.SendContactEmail(reqData.Name, reqData.Email, reqData.Message); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit the form, please try again!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Form submitted successfully.", nil)
}

// UserStats counts registered users and users who bought at least one course.
func UserStats(c *fiber.Ctx) error {
	db := database.Database.Db.WithContext(c.UserContext())

	var allUsers int64
	if err := db.Model(&models.User{}).Where("is_deleted = ?", false).Count(&allUsers).Error; err != nil {
		log.Printf("Error counting users: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch stats!", nil)
	}

	var subscribedUsers int64
	if err := db.Model(&models.Subscription{}).
		Where("status = ?", models.SubscriptionActive).
		Distinct("user_id").
		Count(&subscribedUsers).Error; err != nil {
		log.Printf("Error counting subscribed users: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch stats!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "All registered users count.", fiber.Map{
		"allUsersCount":        allUsers,
		"subscribedUsersCount": subscribedUsers,
	})
}
