package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes registers course, lecture and quiz management routes.
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/api/v1/courses")

	adminGroup.Post("/video-duration", middleware.JWTMiddleware, middleware.AdminOnly, validators.VideoDuration(), controllers.GetVideoDuration)

	// Course CRUD
	adminGroup.Post("/", middleware.JWTMiddleware, middleware.AdminOnly, validators.CreateCourse(), controllers.CreateCourse)
	adminGroup.Put("/:id", middleware.JWTMiddleware, middleware.AdminOnly, validators.UpdateCourse(), controllers.UpdateCourse)
	adminGroup.Delete("/:id", middleware.JWTMiddleware, middleware.AdminOnly, validators.IDParams("id"), controllers.RemoveCourse)
	adminGroup.Get("/:id/students", middleware.JWTMiddleware, middleware.AdminOnly, validators.IDParams("id"), controllers.GetEnrolledStudents)

	// Lectures
	adminGroup.Post("/:id/lectures", middleware.JWTMiddleware, middleware.AdminOnly, validators.IDParams("id"), validators.Lecture(false), controllers.AddLecture)
	adminGroup.Put("/:courseId/lectures/:lectureId", middleware.JWTMiddleware, middleware.AdminOnly, validators.IDParams("courseId", "lectureId"), validators.Lecture(true), controllers.UpdateLecture)
	adminGroup.Delete("/:courseId/lectures/:lectureId", middleware.JWTMiddleware, middleware.AdminOnly, validators.IDParams("courseId", "lectureId"), controllers.DeleteLecture)

	// Final assignment
	adminGroup.Post("/:id/quiz", middleware.JWTMiddleware, middleware.AdminOnly, validators.IDParams("id"), validators.Quiz(), controllers.AddCourseQuiz)
	adminGroup.Put("/:courseId/quiz/:quizId", middleware.JWTMiddleware, middleware.AdminOnly, validators.IDParams("courseId", "quizId"), validators.Quiz(), controllers.UpdateCourseQuiz)
	adminGroup.Delete("/:courseId/quiz/:quizId", middleware.JWTMiddleware, middleware.AdminOnly, validators.IDParams("courseId", "quizId"), controllers.DeleteCourseQuiz)

	// Lecture quizzes
	adminGroup.Post("/:courseId/lectures/:lectureId/quiz", middleware.JWTMiddleware, middleware.AdminOnly, validators.IDParams("courseId", "lectureId"), validators.Quiz(), controllers.AddLectureQuiz)
	adminGroup.Put("/:courseId/lectures/:lectureId/quiz/:quizId", middleware.JWTMiddleware, middleware.AdminOnly, validators.IDParams("courseId", "lectureId", "quizId"), validators.Quiz(), controllers.UpdateLectureQuiz)
	adminGroup.Delete("/:courseId/lectures/:lectureId/quiz/:quizId", middleware.JWTMiddleware, middleware.AdminOnly, validators.IDParams("courseId", "lectureId", "quizId"), controllers.DeleteLectureQuiz)
}
