package paymentRoutes

import (
	paymentController "lms/controllers/payment"
	"lms/middleware"
	paymentValidator "lms/validators/payment"

	"github.com/gofiber/fiber/v2"
)

func SetupPaymentRoutes(app *fiber.App) {
	paymentGroup := app.Group("/api/v1/payments")

	paymentGroup.Get("/razorpay-key", middleware.JWTMiddleware, paymentController.GetRazorpayKey)
	paymentGroup.Post("/subscribe", paymentValidator.Subscribe(), middleware.JWTMiddleware, paymentController.Subscribe)
	paymentGroup.Post("/verify", paymentValidator.Verify(), middleware.JWTMiddleware, paymentController.VerifySubscription)
	paymentGroup.Post("/unsubscribe", middleware.JWTMiddleware, paymentController.CancelSubscription)
	paymentGroup.Get("/", middleware.JWTMiddleware, middleware.AdminOnly, paymentController.GetAllPayments)
}
