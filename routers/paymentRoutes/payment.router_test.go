package paymentRoutes

import (
	"encoding/json"
	"lms/models"
	courseModels "lms/models/course"
	"lms/services/payment"
	"lms/testutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	keyID     = "rzp_test_key"
	keySecret = "s3cret"
)

func setup(t *testing.T) (*fiber.App, *gorm.DB) {
	db := testutil.NewDB(t)
	cfg := testutil.UseGlobals(t, db)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/orders" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var body struct {
			Amount   int64  `json:"amount"`
			Currency string `json:"currency"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":       "order_1",
			"amount":   body.Amount,
			"currency": body.Currency,
			"receipt":  "receipt_test",
			"status":   "created",
		})
	}))
	t.Cleanup(srv.Close)

	cfg.RazorpayAPIURL = srv.URL
	cfg.RazorpayKeyID = keyID
	cfg.RazorpayKeySecret = keySecret

	app := fiber.New()
	SetupPaymentRoutes(app)
	return app, db
}

func TestPurchaseEnrollsLearner(t *testing.T) {
	app, db := setup(t)
	course := testutil.CreateCourse(t, db, "Go Fundamentals", 2, 0)
	learner := testutil.CreateUser(t, db, "learner@example.com")
	token := testutil.Token(t, learner)

	resp, env := testutil.Do(t, app, http.MethodGet, "/api/v1/payments/razorpay-key", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var key struct {
		Key string `json:"key"`
	}
	testutil.DecodeData(t, env, &key)
	assert.Equal(t, keyID, key.Key)

	resp, env = testutil.Do(t, app, http.MethodPost, "/api/v1/payments/subscribe", fiber.Map{"courseId": course.ID}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
	var order struct {
		OrderID  string `json:"orderId"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
	}
	testutil.DecodeData(t, env, &order)
	assert.Equal(t, "order_1", order.OrderID)
	assert.EqualValues(t, 49900, order.Amount)
	assert.Equal(t, "INR", order.Currency)

	resp, _ = testutil.Do(t, app, http.MethodPost, "/api/v1/payments/verify", fiber.Map{
		"razorpay_order_id":   "order_1",
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  "forged",
	}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	verify := fiber.Map{
		"razorpay_order_id":   "order_1",
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  payment.Sign(keySecret, "order_1", "pay_1"),
	}
	resp, env = testutil.Do(t, app, http.MethodPost, "/api/v1/payments/verify", verify, token)
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)

	var sub models.Subscription
	require.NoError(t, db.Where("order_id = ?", "order_1").First(&sub).Error)
	assert.Equal(t, models.SubscriptionActive, sub.Status)
	assert.NotNil(t, sub.ActivatedAt)

	var enrolled int64
	require.NoError(t, db.Model(&courseModels.CourseProgress{}).
		Where("user_id = ? AND course_id = ?", learner.ID, course.ID).
		Count(&enrolled).Error)
	assert.EqualValues(t, 1, enrolled)

	resp, _ = testutil.Do(t, app, http.MethodPost, "/api/v1/payments/verify", verify, token)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// a second payment against an order that is already paid
	resp, _ = testutil.Do(t, app, http.MethodPost, "/api/v1/payments/verify", fiber.Map{
		"razorpay_order_id":   "order_1",
		"razorpay_payment_id": "pay_2",
		"razorpay_signature":  payment.Sign(keySecret, "order_1", "pay_2"),
	}, token)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var payments int64
	require.NoError(t, db.Model(&models.Payment{}).Count(&payments).Error)
	assert.EqualValues(t, 1, payments)

	resp, _ = testutil.Do(t, app, http.MethodPost, "/api/v1/payments/subscribe", fiber.Map{"courseId": course.ID}, token)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestVerifyRejectsForeignOrder(t *testing.T) {
	app, db := setup(t)
	course := testutil.CreateCourse(t, db, "Go Fundamentals", 1, 0)
	buyer := testutil.CreateUser(t, db, "buyer@example.com")
	other := testutil.CreateUser(t, db, "other@example.com")

	resp, _ := testutil.Do(t, app, http.MethodPost, "/api/v1/payments/subscribe", fiber.Map{"courseId": course.ID}, testutil.Token(t, buyer))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = testutil.Do(t, app, http.MethodPost, "/api/v1/payments/verify", fiber.Map{
		"razorpay_order_id":   "order_1",
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  payment.Sign(keySecret, "order_1", "pay_1"),
	}, testutil.Token(t, other))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSubscribeRules(t *testing.T) {
	app, db := setup(t)
	course := testutil.CreateCourse(t, db, "Go Fundamentals", 1, 0)
	admin := testutil.CreateAdmin(t, db, "admin@example.com")
	learner := testutil.CreateUser(t, db, "learner@example.com")

	resp, _ := testutil.Do(t, app, http.MethodPost, "/api/v1/payments/subscribe", fiber.Map{"courseId": course.ID}, testutil.Token(t, admin))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = testutil.Do(t, app, http.MethodPost, "/api/v1/payments/subscribe", fiber.Map{"courseId": 9999}, testutil.Token(t, learner))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, env := testutil.Do(t, app, http.MethodPost, "/api/v1/payments/subscribe", fiber.Map{}, testutil.Token(t, learner))
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var fields map[string]string
	testutil.DecodeData(t, env, &fields)
	assert.Contains(t, fields, "courseId")

	resp, _ = testutil.Do(t, app, http.MethodPost, "/api/v1/payments/unsubscribe", nil, testutil.Token(t, learner))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAllPaymentsForAdmin(t *testing.T) {
	app, db := setup(t)
	learner := testutil.CreateUser(t, db, "learner@example.com")
	admin := testutil.CreateAdmin(t, db, "admin@example.com")
	require.NoError(t, db.Create(&models.Payment{
		UserID:            learner.ID,
		CourseID:          1,
		RazorpayPaymentID: "pay_1",
		RazorpayOrderID:   "order_1",
		RazorpaySignature: "sig",
		Amount:            49900,
	}).Error)

	resp, _ := testutil.Do(t, app, http.MethodGet, "/api/v1/payments/", nil, testutil.Token(t, learner))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, env := testutil.Do(t, app, http.MethodGet, "/api/v1/payments/", nil, testutil.Token(t, admin))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var summary struct {
		AllPayments        []models.Payment `json:"allPayments"`
		Count              int              `json:"count"`
		TotalRevenue       float64          `json:"totalRevenue"`
		MonthlySalesRecord []int64          `json:"monthlySalesRecord"`
	}
	testutil.DecodeData(t, env, &summary)
	assert.Equal(t, 1, summary.Count)
	assert.InDelta(t, 499.0, summary.TotalRevenue, 0.001)
	assert.Len(t, summary.MonthlySalesRecord, 12)
}
