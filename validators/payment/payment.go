package paymentValidator

import (
	"lms/middleware"
	"lms/validators"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type SubscribeRequest struct {
	CourseID uint `json:"courseId" validate:"required"`
}

// VerifyRequest is the checkout callback payload, named as the gateway names it.
type VerifyRequest struct {
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"notblank"`
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"notblank"`
	RazorpaySignature string `json:"razorpay_signature" validate:"notblank"`
}

func Subscribe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SubscribeRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedSubscribe", reqData)
		return c.Next()
	}
}

func Verify() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(VerifyRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.RazorpayPaymentID = strings.TrimSpace(reqData.RazorpayPaymentID)
		reqData.RazorpayOrderID = strings.TrimSpace(reqData.RazorpayOrderID)
		reqData.RazorpaySignature = strings.TrimSpace(reqData.RazorpaySignature)

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedVerify", reqData)
		return c.Next()
	}
}
