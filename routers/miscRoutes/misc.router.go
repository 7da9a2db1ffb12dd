package miscRoutes

import (
	miscController "lms/controllers/misc"
	"lms/middleware"
	miscValidator "lms/validators/misc"

	"github.com/gofiber/fiber/v2"
)

func SetupMiscRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Post("/contact", miscValidator.Contact(), miscController.ContactUs)
	api.Get("/stats/users", middleware.JWTMiddleware, middleware.AdminOnly, miscController.UserStats)
}
