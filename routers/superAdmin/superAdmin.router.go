package superAdminRoutes

import (
	superAdminController "lms/controllers/superAdmin"
	"lms/middleware"
	superAdminValidator "lms/validators/superAdmin"

	"github.com/gofiber/fiber/v2"
)

func SetupSuperAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/api/v1/admin")

	adminGroup.Get("/users", middleware.JWTMiddleware, middleware.AdminOnly, superAdminValidator.List(), superAdminController.UserList)
}
