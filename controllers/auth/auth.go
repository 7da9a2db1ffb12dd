package authController

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	authValidator "lms/validators/auth"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const resetTokenTTL = 15 * time.Minute

func Register(c *fiber.Ctx) error {
	reqData := c.Locals("validatedUser").(*authValidator.RegisterRequest)
	db := database.Database.Db

	// Check if email already exists
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", reqData.Email).Count(&count).Error; err != nil {
		log.Printf("Error checking email: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}
	if count > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email already exists, please login!", nil)
	}

	// Hash Password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		FullName: reqData.FullName,
		Email:    reqData.Email,
		Password: string(hashedPassword),
		Role:     models.RoleUser,
	}

	// Optional avatar
	if file, err := c.FormFile("avatar"); err == nil {
		path, err := utils.SaveUploadedFile(file, utils.UploadPath("avatars"))
		if err != nil {
			log.Printf("Error saving avatar: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "File not uploaded, please try again!", nil)
		}
		newUser.AvatarURL = utils.GetFileURL(path)
	}

	if err := db.Create(&newUser).Error; err != nil {
		log.Printf("Error saving user to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "User registration failed, please try again!", nil)
	}

	token, err := middleware.GenerateJWT(newUser)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token!", nil)
	}
	setTokenCookie(c, token)

	utils.SendWelcomeEmail(newUser.Email, newUser.FullName)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", fiber.Map{
		"user":  newUser,
		"token": token,
	})
}

func Login(c *fiber.Ctx) error {
	reqData := c.Locals("validatedUser").(*authValidator.LoginRequest)
	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Email or password does not match!", nil)
		}
		log.Printf("Error fetching user: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	// Validate password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Email or password does not match!", nil)
	}

	token, err := middleware.GenerateJWT(user)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token!", nil)
	}

	now := time.Now()
	user.LastLogin = &now
	if err := db.Model(&user).Update("last_login", now).Error; err != nil {
		log.Printf("Error updating last login: %v", err)
	}

	loginTracking := models.LoginTracking{
		UserID:    user.ID,
		IPAddress: c.IP(),
		Device:    c.Get(fiber.HeaderUserAgent),
		Timestamp: now,
	}
	if err := db.Create(&loginTracking).Error; err != nil {
		log.Printf("Error saving login tracking: %v", err)
	}

	setTokenCookie(c, token)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User logged in successfully.", fiber.Map{
		"user":  user,
		"token": token,
	})
}

func Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   isProduction(),
	})
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User logged out successfully.", nil)
}

func Me(c *fiber.Ctx) error {
	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", middleware.CurrentUserID(c), false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User details.", user)
}

func LoginHistoryList(c *fiber.Ctx) error {
	reqData := c.Locals("validatedLoginHistory").(*authValidator.LoginHistoryRequest)
	userID := middleware.CurrentUserID(c)
	db := database.Database.Db

	var total int64
	if err := db.Model(&models.LoginTracking{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		log.Printf("Error counting login history: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch login history!", nil)
	}

	offset := (reqData.Page - 1) * reqData.Limit

	var history []models.LoginTracking
	if err := db.Where("user_id = ?", userID).
		Order("timestamp desc").
		Offset(offset).
		Limit(reqData.Limit).
		Find(&history).Error; err != nil {
		log.Printf("Error fetching login history: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch login history!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login History List.", fiber.Map{
		"loginHistory": history,
		"pagination": fiber.Map{
			"total": total,
			"page":  reqData.Page,
			"limit": reqData.Limit,
		},
	})
}

// ForgotPassword stores a hashed reset token and emails the raw token as a
// link. The token is cleared again if the email cannot be sent.
func ForgotPassword(c *fiber.Ctx) error {
	reqData := c.Locals("validatedEmail").(*authValidator.ForgotPasswordRequest)
	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Email not registered!", nil)
	}

	rawToken, hashed, err := newResetToken()
	if err != nil {
		log.Printf("Error generating reset token: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}
	expiry := time.Now().Add(resetTokenTTL)

	if err := db.Model(&user).Updates(map[string]interface{}{
		"forgot_password_token":  hashed,
		"forgot_password_expiry": expiry,
	}).Error; err != nil {
		log.Printf("Error saving reset token: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	resetURL := config.AppConfig.ClientURL + "/user/profile/reset-password/" + rawToken
	if err := utils.SendPasswordResetEmail(user.Email, resetURL); err != nil {
		db.Model(&user).Updates(map[string]interface{}{
			"forgot_password_token":  "",
			"forgot_password_expiry": nil,
		})
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to send reset email, please try again!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reset password token has been sent to "+user.Email, nil)
}

func ResetPassword(c *fiber.Ctx) error {
	reqData := c.Locals("validatedReset").(*authValidator.ResetPasswordRequest)
	db := database.Database.Db

	var user models.User
	err := db.Where("forgot_password_token = ? AND forgot_password_expiry > ? AND is_deleted = ?",
		hashResetToken(reqData.ResetToken), time.Now(), false).First(&user).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Token is invalid or expired, please try again!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	if err := db.Model(&user).Updates(map[string]interface{}{
		"password":               string(hashedPassword),
		"forgot_password_token":  "",
		"forgot_password_expiry": nil,
	}).Error; err != nil {
		log.Printf("Error resetting password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reset password!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password changed successfully.", nil)
}

func ChangePassword(c *fiber.Ctx) error {
	reqData := c.Locals("validatedPassword").(*authValidator.ChangePasswordRequest)
	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", middleware.CurrentUserID(c), false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User does not exist!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.OldPassword)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid old password!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.NewPassword), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	if err := db.Model(&user).Update("password", string(hashedPassword)).Error; err != nil {
		log.Printf("Error changing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to change password!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password changed successfully.", nil)
}

func setTokenCookie(c *fiber.Ctx, token string) {
	sameSite := fiber.CookieSameSiteLaxMode
	if isProduction() {
		sameSite = fiber.CookieSameSiteNoneMode
	}
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		MaxAge:   config.AppConfig.JWTTTLHours * 3600,
		HTTPOnly: true,
		Secure:   isProduction(),
		SameSite: sameSite,
	})
}

func isProduction() bool {
	return config.AppConfig.Environment == "production"
}

// newResetToken returns the raw token for the email link and its sha256 hex
// digest for storage.
func newResetToken() (string, string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	raw := hex.EncodeToString(buf)
	return raw, hashResetToken(raw), nil
}

func hashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
