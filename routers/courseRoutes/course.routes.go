package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes registers the public catalog and course detail routes.
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/api/v1/courses")

	courseGroup.Get("/", controllers.GetAllCourses)
	courseGroup.Get("/:id", validators.IDParams("id"), middleware.JWTMiddleware, controllers.GetCourse)
}
