package authRoutes

import (
	"crypto/sha256"
	"encoding/hex"
	"lms/models"
	"lms/testutil"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*fiber.App, *gorm.DB) {
	db := testutil.NewDB(t)
	testutil.UseGlobals(t, db)

	app := fiber.New()
	SetupAuthRoutes(app)
	return app, db
}

type session struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

func TestRegisterLoginAndHistory(t *testing.T) {
	app, _ := setup(t)

	resp, env := testutil.Do(t, app, http.MethodPost, "/api/v1/user/register", fiber.Map{
		"fullName": "Jane Learner",
		"email":    "Jane@Example.com",
		"password": "correct-horse",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	var registered session
	testutil.DecodeData(t, env, &registered)
	assert.Equal(t, "jane@example.com", registered.User.Email)
	assert.NotEmpty(t, registered.Token)

	resp, _ = testutil.Do(t, app, http.MethodPost, "/api/v1/user/register", fiber.Map{
		"fullName": "Jane Again",
		"email":    "jane@example.com",
		"password": "correct-horse",
	}, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = testutil.Do(t, app, http.MethodPost, "/api/v1/user/login", fiber.Map{
		"email":    "jane@example.com",
		"password": "wrong-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, env = testutil.Do(t, app, http.MethodPost, "/api/v1/user/login", fiber.Map{
		"email":    "jane@example.com",
		"password": "correct-horse",
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)
	var loggedIn session
	testutil.DecodeData(t, env, &loggedIn)
	assert.NotNil(t, loggedIn.User.LastLogin)

	resp, env = testutil.Do(t, app, http.MethodGet, "/api/v1/user/me", nil, loggedIn.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me models.User
	testutil.DecodeData(t, env, &me)
	assert.Equal(t, "Jane Learner", me.FullName)

	resp, env = testutil.Do(t, app, http.MethodGet, "/api/v1/user/login/history", nil, loggedIn.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var history struct {
		LoginHistory []models.LoginTracking `json:"loginHistory"`
		Pagination   struct {
			Total int64 `json:"total"`
			Page  int   `json:"page"`
			Limit int   `json:"limit"`
		} `json:"pagination"`
	}
	testutil.DecodeData(t, env, &history)
	require.Len(t, history.LoginHistory, 1)
	assert.EqualValues(t, 1, history.Pagination.Total)
	assert.Equal(t, 1, history.Pagination.Page)
	assert.Equal(t, 10, history.Pagination.Limit)
	assert.Equal(t, me.ID, history.LoginHistory[0].UserID)

	resp, _ = testutil.Do(t, app, http.MethodGet, "/api/v1/user/login/history?limit=500", nil, loggedIn.Token)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestRegisterValidation(t *testing.T) {
	app, _ := setup(t)

	resp, env := testutil.Do(t, app, http.MethodPost, "/api/v1/user/register", fiber.Map{
		"fullName": "Jo",
		"email":    "not-an-email",
		"password": "short",
	}, "")
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var fields map[string]string
	testutil.DecodeData(t, env, &fields)
	assert.Equal(t, "fullName must be at least 5 characters long!", fields["fullName"])
	assert.Equal(t, "Invalid email!", fields["email"])
	assert.Contains(t, fields, "password")
}

func TestChangePassword(t *testing.T) {
	app, db := setup(t)
	user := testutil.CreateUser(t, db, "learner@example.com")
	token := testutil.Token(t, user)

	resp, _ := testutil.Do(t, app, http.MethodPost, "/api/v1/user/change-password", fiber.Map{
		"oldPassword": "not-my-password",
		"newPassword": "brand-new-secret",
	}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, env := testutil.Do(t, app, http.MethodPost, "/api/v1/user/change-password", fiber.Map{
		"oldPassword": testutil.Password,
		"newPassword": "brand-new-secret",
	}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)

	resp, _ = testutil.Do(t, app, http.MethodPost, "/api/v1/user/login", fiber.Map{
		"email":    user.Email,
		"password": "brand-new-secret",
	}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPasswordReset(t *testing.T) {
	app, db := setup(t)
	user := testutil.CreateUser(t, db, "learner@example.com")

	resp, _ := testutil.Do(t, app, http.MethodPost, "/api/v1/user/reset", fiber.Map{"email": "nobody@example.com"}, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = testutil.Do(t, app, http.MethodPost, "/api/v1/user/reset", fiber.Map{"email": user.Email}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Len(t, stored.ForgotPasswordToken, 64)
	require.NotNil(t, stored.ForgotPasswordExpiry)

	// swap in a token whose raw value is known to the test
	sum := sha256.Sum256([]byte("known-reset-token"))
	require.NoError(t, db.Model(&stored).Updates(map[string]interface{}{
		"forgot_password_token":  hex.EncodeToString(sum[:]),
		"forgot_password_expiry": time.Now().Add(time.Minute),
	}).Error)

	resp, _ = testutil.Do(t, app, http.MethodPost, "/api/v1/user/reset/wrong-token", fiber.Map{"password": "reset-secret"}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, env := testutil.Do(t, app, http.MethodPost, "/api/v1/user/reset/known-reset-token", fiber.Map{"password": "reset-secret"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, env.Message)

	// tokens are single use
	resp, _ = testutil.Do(t, app, http.MethodPost, "/api/v1/user/reset/known-reset-token", fiber.Map{"password": "another-secret"}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = testutil.Do(t, app, http.MethodPost, "/api/v1/user/login", fiber.Map{
		"email":    user.Email,
		"password": "reset-secret",
	}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
