package superAdminController

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	superAdminValidator "lms/validators/superAdmin"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// UserList pages through registered users, newest first. Search matches the
// name or email.
func UserList(c *fiber.Ctx) error {
	reqData := c.Locals("validateUserList").(*superAdminValidator.ListRequest)
	db := database.Database.Db.WithContext(c.UserContext())

	query := db.Model(&models.User{}).Where("is_deleted = ?", false)
	if search := strings.TrimSpace(reqData.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Printf("Error counting users: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch user list!", nil)
	}

	offset := (reqData.Page - 1) * reqData.Limit

	var users []models.User
	if err := query.Order("created_at desc").Offset(offset).Limit(reqData.Limit).Find(&users).Error; err != nil {
		log.Printf("Error fetching users: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch user list!", nil)
	}

	// Response structure
	response := map[string]interface{}{
		"users": users,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  reqData.Page,
			"limit": reqData.Limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User List.", response)
}
