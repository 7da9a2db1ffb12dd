package paymentController

import (
	"errors"
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/services/payment"
	"lms/services/progress"
	"lms/utils"
	paymentValidator "lms/validators/payment"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

const currencyINR = "INR"

var errAlreadyVerified = errors.New("order already verified")

func gateway() *payment.Client {
	cfg := config.AppConfig
	return payment.NewClient(cfg.RazorpayAPIURL, cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
}

func GetRazorpayKey(c *fiber.Ctx) error {
	gw := gateway()
	if !gw.Configured() {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Payments are not configured!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Razorpay API key.", fiber.Map{"key": gw.KeyID()})
}

// Subscribe opens a Razorpay order for a course purchase.
func Subscribe(c *fiber.Ctx) error {
	reqData := c.Locals("validatedSubscribe").(*paymentValidator.SubscribeRequest)
	userID := middleware.CurrentUserID(c)
	db := database.Database.Db.WithContext(c.UserContext())

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}
	if user.IsAdmin() {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Admins cannot purchase a course!", nil)
	}

	gw := gateway()
	if !gw.Configured() {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Payments are not configured!", nil)
	}

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", reqData.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	enrolled, err := progressEngine().IsEnrolled(c.UserContext(), userID, course.ID)
	if err != nil {
		log.Printf("[PAYMENT] Enrollment check for user %d course %d failed: %v", userID, course.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}
	if enrolled {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You have already purchased this course!", nil)
	}

	order, err := gw.CreateOrder(c.UserContext(), course.Price*100, currencyINR)
	if err != nil {
		log.Printf("[PAYMENT] Creating order for user %d course %d failed: %v", userID, course.ID, err)
		return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Failed to create order, please try again!", nil)
	}

	subscription := models.Subscription{
		UserID:   userID,
		CourseID: course.ID,
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Status:   models.SubscriptionCreated,
	}
	if err := db.Create(&subscription).Error; err != nil {
		log.Printf("[PAYMENT] Saving order %s failed: %v", order.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create order, please try again!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Order created successfully.", fiber.Map{
		"orderId":  order.ID,
		"amount":   order.Amount,
		"currency": order.Currency,
		"courseId": course.ID,
		"key":      gw.KeyID(),
	})
}

// VerifySubscription checks the checkout signature, records the payment and
// enrolls the user in the purchased course.
func VerifySubscription(c *fiber.Ctx) error {
	reqData := c.Locals("validatedVerify").(*paymentValidator.VerifyRequest)
	userID := middleware.CurrentUserID(c)
	db := database.Database.Db.WithContext(c.UserContext())

	gw := gateway()
	if !gw.Configured() {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Payments are not configured!", nil)
	}
	if err := gw.VerifySignature(reqData.RazorpayOrderID, reqData.RazorpayPaymentID, reqData.RazorpaySignature); err != nil {
		log.Printf("[PAYMENT] Signature mismatch for order %s", reqData.RazorpayOrderID)
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Payment not verified, please try again!", nil)
	}

	var subscription models.Subscription
	if err := db.Where("order_id = ? AND user_id = ?", reqData.RazorpayOrderID, userID).First(&subscription).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Order not found!", nil)
	}

	if subscription.Status == models.SubscriptionActive {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Payment already verified!", nil)
	}

	var count int64
	if err := db.Model(&models.Payment{}).Where("razorpay_payment_id = ?", reqData.RazorpayPaymentID).Count(&count).Error; err != nil {
		log.Printf("[PAYMENT] Duplicate check for %s failed: %v", reqData.RazorpayPaymentID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}
	if count > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Payment already verified!", nil)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		// Only one verification may move the order out of created.
		res := tx.Model(&models.Subscription{}).
			Where("id = ? AND status = ?", subscription.ID, models.SubscriptionCreated).
			Updates(map[string]interface{}{
				"status":       models.SubscriptionActive,
				"activated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errAlreadyVerified
		}

		return tx.Create(&models.Payment{
			UserID:            userID,
			CourseID:          subscription.CourseID,
			RazorpayPaymentID: reqData.RazorpayPaymentID,
			RazorpayOrderID:   reqData.RazorpayOrderID,
			RazorpaySignature: reqData.RazorpaySignature,
			Amount:            subscription.Amount,
		}).Error
	})
	if errors.Is(err, errAlreadyVerified) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Payment already verified!", nil)
	}
	if err != nil {
		log.Printf("[PAYMENT] Recording payment %s failed: %v", reqData.RazorpayPaymentID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record payment!", nil)
	}

	// A failed enrollment is repaired later from the active subscription.
	view, created, err := progressEngine().Enroll(c.UserContext(), userID, subscription.CourseID)
	if err != nil {
		log.Printf("[PAYMENT] Enrolling user %d in course %d failed: %v", userID, subscription.CourseID, err)
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment verified successfully.", progress.DefaultProgress(subscription.CourseID))
	}

	if created {
		var user models.User
		var course courseModels.Course
		if db.First(&user, userID).Error == nil && db.First(&course, subscription.CourseID).Error == nil {
			utils.SendEnrollmentEmail(user.Email, user.FullName, course.Title)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment verified successfully.", view)
}

// CancelSubscription exists for API compatibility. Course purchases are one
// time orders and cannot be cancelled.
func CancelSubscription(c *fiber.Ctx) error {
	return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course purchases cannot be cancelled!", nil)
}

// GetAllPayments returns every payment with revenue totals and the number of
// sales per month of the current year.
func GetAllPayments(c *fiber.Ctx) error {
	db := database.Database.Db.WithContext(c.UserContext())

	var payments []models.Payment
	if err := db.Order("created_at desc").Find(&payments).Error; err != nil {
		log.Printf("[PAYMENT] Listing payments failed: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch payments!", nil)
	}

	var revenue int64
	for _, p := range payments {
		revenue += p.Amount
	}

	monthly, err := monthlySales(db, time.Now())
	if err != nil {
		log.Printf("[PAYMENT] Monthly sales failed: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch payments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "All payments.", fiber.Map{
		"allPayments":        payments,
		"count":              len(payments),
		"totalRevenue":       float64(revenue) / 100,
		"monthlySalesRecord": monthly,
	})
}

// monthlySales counts payments in each month of the year containing t.
func monthlySales(db *gorm.DB, t time.Time) ([]int64, error) {
	record := make([]int64, 12)
	yearStart := now.With(t).BeginningOfYear()

	for i := range record {
		monthStart := yearStart.AddDate(0, i, 0)
		monthEnd := now.With(monthStart).EndOfMonth()
		if err := db.Model(&models.Payment{}).
			Where("created_at BETWEEN ? AND ?", monthStart, monthEnd).
			Count(&record[i]).Error; err != nil {
			return nil, err
		}
	}
	return record, nil
}

func progressEngine() *progress.Engine {
	return progress.NewEngine(database.Database.Db, progress.WithPassPercentage(config.AppConfig.PassPercentage))
}
