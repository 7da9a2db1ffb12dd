package authRoutes

import (
	authControllers "lms/controllers/auth"
	"lms/middleware"
	authValidators "lms/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/api/v1/user")

	authGroup.Post("/register", authValidators.Register(), authControllers.Register)
	authGroup.Post("/login", authValidators.Login(), authControllers.Login)
	authGroup.Get("/logout", authControllers.Logout)
	authGroup.Get("/me", middleware.JWTMiddleware, authControllers.Me)
	authGroup.Get("/login/history", authValidators.LoginHistoryList(), middleware.JWTMiddleware, authControllers.LoginHistoryList)
	authGroup.Post("/reset", authValidators.ForgotPassword(), authControllers.ForgotPassword)
	authGroup.Post("/reset/:resetToken", authValidators.ResetPassword(), authControllers.ResetPassword)
	authGroup.Post("/change-password", authValidators.ChangePassword(), middleware.JWTMiddleware, authControllers.ChangePassword)
}
