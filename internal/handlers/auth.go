package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/ronin-tn/blassa-sub000/internal/models"
	"github.com/ronin-tn/blassa-sub000/internal/observability"
	"github.com/ronin-tn/blassa-sub000/internal/services"
	"github.com/ronin-tn/blassa-sub000/pkg/utils"
	"github.com/ronin-tn/blassa-sub000/pkg/validation"
)

// Auth flow statuses returned to the mobile clients.
const (
	StatusRegistrationSuccess = "REGISTRATION_SUCCESS"
	StatusSuccess             = "SUCCESS"
	StatusEmailNotVerified    = "EMAIL_NOT_VERIFIED"
)

// Register creates an unverified account and mails the verification code.
func Register(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form validation.RegisterForm
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(400, gin.H{"error": "Invalid request body"})
			return
		}

		if errs := form.Validate(); !errs.Valid() {
			c.JSON(400, gin.H{"errors": errs})
			return
		}

		var existing models.User
		if err := db.Where("email = ?", form.Email).First(&existing).Error; err == nil {
			c.JSON(409, gin.H{"error": "EMAIL_ALREADY_REGISTERED"})
			return
		}

		user := models.User{
			Email:       form.Email,
			FirstName:   form.FirstName,
			LastName:    form.LastName,
			PhoneNumber: form.PhoneNumber,
			Gender:      models.Gender(form.Gender),
			BirthDate:   form.BirthDate,
		}
		if err := user.SetPassword(form.Password); err != nil {
			c.JSON(500, gin.H{"error": "Failed to create account"})
			return
		}

		if err := db.Create(&user).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create account"})
			return
		}

		if err := issueOTP(db, &user, models.OTPTypeEmailVerification); err != nil {
			c.JSON(500, gin.H{"error": "Failed to send verification code"})
			return
		}

		c.JSON(201, gin.H{"status": StatusRegistrationSuccess, "email": user.Email})
	}
}

// Login authenticates and returns a token, or routes unverified accounts to
// the verification screen.
func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "Invalid request body"})
			return
		}

		var user models.User
		if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
			c.JSON(401, gin.H{"error": "INVALID_CREDENTIALS"})
			return
		}
		if err := user.CheckPassword(req.Password); err != nil {
			c.JSON(401, gin.H{"error": "INVALID_CREDENTIALS"})
			return
		}

		if !user.IsVerified {
			c.JSON(403, gin.H{"status": StatusEmailNotVerified, "email": user.Email})
			return
		}

		token, err := utils.GenerateToken(&user)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to generate token"})
			return
		}

		c.JSON(200, gin.H{"status": StatusSuccess, "token": token, "user": user})
	}
}

// RefreshToken exchanges a still-valid token for a fresh one, so mobile
// clients can extend a session without a password round trip.
func RefreshToken(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Token string `json:"token" validate:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "Invalid request body"})
			return
		}
		if errs := validation.ValidateStruct(req); !errs.Valid() {
			c.JSON(400, gin.H{"errors": errs})
			return
		}

		token, err := utils.ValidateToken(req.Token)
		if err != nil || !token.Valid {
			c.JSON(401, gin.H{"error": "INVALID_TOKEN"})
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(401, gin.H{"error": "INVALID_TOKEN"})
			return
		}
		id, ok := claims["id"].(float64)
		if !ok {
			c.JSON(401, gin.H{"error": "INVALID_TOKEN"})
			return
		}

		// Reload so the fresh token reflects the current account state, not
		// the state at the time of the old token.
		var user models.User
		if err := db.First(&user, uint(id)).Error; err != nil {
			c.JSON(401, gin.H{"error": "INVALID_TOKEN"})
			return
		}

		fresh, err := utils.GenerateToken(&user)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to generate token"})
			return
		}

		c.JSON(200, gin.H{"status": StatusSuccess, "token": fresh, "user": user})
	}
}

// VerifyEmail consumes the emailed code, flags the account verified and logs
// the user straight in.
func VerifyEmail(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email string `json:"email"`
			Code  string `json:"code"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "Invalid request body"})
			return
		}

		var user models.User
		if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
			c.JSON(404, gin.H{"error": "USER_NOT_FOUND"})
			return
		}

		otp, ok := findOTP(db, user.ID, req.Code, models.OTPTypeEmailVerification)
		if !ok {
			c.JSON(400, gin.H{"error": "INVALID_OR_EXPIRED_CODE"})
			return
		}

		if err := otp.MarkAsUsed(db); err != nil {
			c.JSON(500, gin.H{"error": "Failed to verify email"})
			return
		}
		user.IsVerified = true
		if err := db.Save(&user).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to verify email"})
			return
		}

		token, err := utils.GenerateToken(&user)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to generate token"})
			return
		}

		c.JSON(200, gin.H{"status": StatusSuccess, "token": token, "user": user})
	}
}

// ResendVerification re-sends the verification code, throttled to one send
// per minute per address. A throttled call returns the seconds remaining so
// the client can seed its countdown; a granted one also streams per-second
// ticks over any WebSocket connection the user holds.
func ResendVerification(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email string `json:"email"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "Invalid request body"})
			return
		}

		allowed, remaining, err := services.AllowResend(c.Request.Context(), req.Email)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to check resend throttle"})
			return
		}
		if !allowed {
			observability.ResendThrottled.Inc()
			c.JSON(429, gin.H{"error": "RESEND_THROTTLED", "retryAfter": remaining})
			return
		}

		var user models.User
		if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
			// Do not reveal whether the address exists.
			c.JSON(200, gin.H{"status": StatusSuccess, "retryAfter": int(services.ResendDelay.Seconds())})
			return
		}
		if user.IsVerified {
			c.JSON(400, gin.H{"error": "ALREADY_VERIFIED"})
			return
		}

		if err := issueOTP(db, &user, models.OTPTypeEmailVerification); err != nil {
			c.JSON(500, gin.H{"error": "Failed to send verification code"})
			return
		}

		hub.PushResendCountdown(c.Request.Context(), user.ID, user.Email)

		c.JSON(200, gin.H{"status": StatusSuccess, "retryAfter": int(services.ResendDelay.Seconds())})
	}
}

// ForgotPassword mails a reset code. The response is identical whether or
// not the address exists.
func ForgotPassword(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email string `json:"email"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "Invalid request body"})
			return
		}

		allowed, remaining, err := services.AllowResend(c.Request.Context(), req.Email)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to check resend throttle"})
			return
		}
		if !allowed {
			observability.ResendThrottled.Inc()
			c.JSON(429, gin.H{"error": "RESEND_THROTTLED", "retryAfter": remaining})
			return
		}

		var user models.User
		if err := db.Where("email = ?", req.Email).First(&user).Error; err == nil {
			if err := issueOTP(db, &user, models.OTPTypePasswordReset); err != nil {
				c.JSON(500, gin.H{"error": "Failed to send reset code"})
				return
			}
			hub.PushResendCountdown(c.Request.Context(), user.ID, user.Email)
		}

		c.JSON(200, gin.H{"status": StatusSuccess, "retryAfter": int(services.ResendDelay.Seconds())})
	}
}

// VerifyResetCode checks a reset code without consuming it, so the client
// can move to the new-password screen.
func VerifyResetCode(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email string `json:"email"`
			Code  string `json:"code"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "Invalid request body"})
			return
		}

		var user models.User
		if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
			c.JSON(400, gin.H{"error": "INVALID_OR_EXPIRED_CODE"})
			return
		}

		if _, ok := findOTP(db, user.ID, req.Code, models.OTPTypePasswordReset); !ok {
			c.JSON(400, gin.H{"error": "INVALID_OR_EXPIRED_CODE"})
			return
		}

		c.JSON(200, gin.H{"status": StatusSuccess})
	}
}

// ResetPassword consumes the reset code and replaces the password. The new
// password follows the same rules as registration.
func ResetPassword(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email           string `json:"email"`
			Code            string `json:"code"`
			Password        string `json:"password"`
			ConfirmPassword string `json:"confirmPassword"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "Invalid request body"})
			return
		}

		errs := validation.Errors{}
		if msg := validation.ValidatePassword(req.Password); msg != "" {
			errs["password"] = msg
		}
		if msg := validation.ValidateConfirmPassword(req.Password, req.ConfirmPassword); msg != "" {
			errs["confirmPassword"] = msg
		}
		if !errs.Valid() {
			c.JSON(400, gin.H{"errors": errs})
			return
		}

		var user models.User
		if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
			c.JSON(400, gin.H{"error": "INVALID_OR_EXPIRED_CODE"})
			return
		}

		otp, ok := findOTP(db, user.ID, req.Code, models.OTPTypePasswordReset)
		if !ok {
			c.JSON(400, gin.H{"error": "INVALID_OR_EXPIRED_CODE"})
			return
		}

		if err := user.SetPassword(req.Password); err != nil {
			c.JSON(500, gin.H{"error": "Failed to reset password"})
			return
		}
		if err := db.Save(&user).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to reset password"})
			return
		}
		if err := otp.MarkAsUsed(db); err != nil {
			c.JSON(500, gin.H{"error": "Failed to reset password"})
			return
		}

		c.JSON(200, gin.H{"status": StatusSuccess})
	}
}

// issueOTP invalidates previous codes of the same type, stores a fresh one
// and mails it.
func issueOTP(db *gorm.DB, user *models.User, otpType models.OTPType) error {
	db.Model(&models.OTP{}).
		Where("user_id = ? AND type = ? AND used = false", user.ID, otpType).
		Update("used", true)

	code := utils.GenerateOTP(fmt.Sprintf("%s:%d", user.Email, time.Now().UnixNano()))
	otp := models.OTP{
		UserID:    user.ID,
		Code:      code,
		Type:      otpType,
		ExpiresAt: time.Now().Add(utils.OTPExpiration),
	}
	if err := db.Create(&otp).Error; err != nil {
		return err
	}

	if otpType == models.OTPTypePasswordReset {
		return utils.SendPasswordResetOTP(user.Email, code)
	}
	return utils.SendEmailVerificationOTP(user.Email, code)
}

func findOTP(db *gorm.DB, userID uint, code string, otpType models.OTPType) (*models.OTP, bool) {
	var otp models.OTP
	err := db.Where("user_id = ? AND code = ? AND type = ? AND used = false", userID, code, otpType).
		Order("created_at DESC").
		First(&otp).Error
	if err != nil || !otp.IsValid() {
		return nil, false
	}
	return &otp, true
}
