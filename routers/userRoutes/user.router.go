package userProfileRoutes

import (
	userProfileController "lms/controllers/userControllers"
	"lms/middleware"
	userProfileValidator "lms/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/api/v1/user")

	userGroup.Put("/update", userProfileValidator.UpdateProfile(), middleware.JWTMiddleware, userProfileController.UpdateProfile)
	userGroup.Get("/my-courses", middleware.JWTMiddleware, userProfileController.GetMyCourses)

	// Progress
	userGroup.Post("/progress", userProfileValidator.LectureProgress(), middleware.JWTMiddleware, userProfileController.MarkLectureComplete)
	userGroup.Get("/progress", userProfileValidator.CourseProgress(), middleware.JWTMiddleware, userProfileController.GetCourseProgress)
	userGroup.Post("/progress/quiz", userProfileValidator.QuizScore(), middleware.JWTMiddleware, userProfileController.SubmitQuizScore)

	// Certificates
	userGroup.Get("/certificate/:courseId", middleware.JWTMiddleware, userProfileController.DownloadCertificate)
	app.Get("/api/v1/certificates/:number", userProfileController.VerifyCertificate)
}
