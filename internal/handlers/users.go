package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ronin-tn/blassa-sub000/internal/models"
	"github.com/ronin-tn/blassa-sub000/internal/services"
	"github.com/ronin-tn/blassa-sub000/pkg/utils"
	"github.com/ronin-tn/blassa-sub000/pkg/validation"
)

// GetProfile returns the authenticated user's own profile.
func GetProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(404, gin.H{"error": "USER_NOT_FOUND"})
			return
		}

		user.ProfilePictureURL = services.PhotoURL(user.ProfilePictureURL)
		c.JSON(200, gin.H{"user": user})
	}
}

// GetPublicProfile returns the subset of a user's profile shown on ride
// details, with their average rating.
func GetPublicProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := db.First(&user, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "USER_NOT_FOUND"})
			return
		}

		rating, count := userRating(db, c, user.ID)

		c.JSON(200, gin.H{
			"id":                user.ID,
			"firstName":         user.FirstName,
			"lastName":          user.LastName,
			"gender":            user.Gender,
			"profilePictureUrl": services.PhotoURL(user.ProfilePictureURL),
			"facebookUrl":       user.FacebookURL,
			"instagramUrl":      user.InstagramURL,
			"rating":            rating,
			"reviewCount":       count,
		})
	}
}

// UpdateProfile edits the mutable profile fields.
func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var req struct {
			FirstName    string `json:"firstName"`
			LastName     string `json:"lastName"`
			PhoneNumber  string `json:"phoneNumber"`
			BirthDate    string `json:"birthDate"`
			FacebookURL  string `json:"facebookUrl"`
			InstagramURL string `json:"instagramUrl"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "Invalid request body"})
			return
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(404, gin.H{"error": "USER_NOT_FOUND"})
			return
		}

		errs := validation.Errors{}
		if req.FirstName != "" {
			user.FirstName = req.FirstName
		}
		if req.LastName != "" {
			user.LastName = req.LastName
		}
		if req.PhoneNumber != "" {
			if msg := validation.ValidateLocalPhone(req.PhoneNumber); msg != "" {
				errs["phoneNumber"] = msg
			} else {
				user.PhoneNumber = req.PhoneNumber
			}
		}
		if req.BirthDate != "" {
			user.BirthDate = req.BirthDate
		}
		user.FacebookURL = req.FacebookURL
		user.InstagramURL = req.InstagramURL

		if !errs.Valid() {
			c.JSON(400, gin.H{"errors": errs})
			return
		}

		if err := db.Save(&user).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update profile"})
			return
		}

		user.ProfilePictureURL = services.PhotoURL(user.ProfilePictureURL)
		c.JSON(200, gin.H{"user": user})
	}
}

// CompleteProfile fills in the fields registration via social login skips.
// A fresh token is issued because profileComplete lives in the JWT claims.
func CompleteProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var form validation.CompleteProfileForm
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(400, gin.H{"error": "Invalid request body"})
			return
		}

		if errs := form.Validate(); !errs.Valid() {
			c.JSON(400, gin.H{"errors": errs})
			return
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(404, gin.H{"error": "USER_NOT_FOUND"})
			return
		}

		user.PhoneNumber = form.PhoneNumber
		user.Gender = models.Gender(form.Gender)
		user.BirthDate = form.BirthDate
		user.ProfileComplete = true

		if err := db.Save(&user).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to complete profile"})
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

// UploadProfilePicture stores a new avatar and drops the previous one.
func UploadProfilePicture(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		file, err := c.FormFile("picture")
		if err != nil {
			c.JSON(400, gin.H{"error": "Picture file required"})
			return
		}
		if file.Size > 5*1024*1024 {
			c.JSON(400, gin.H{"error": "Picture must be under 5MB"})
			return
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(404, gin.H{"error": "USER_NOT_FOUND"})
			return
		}

		path, err := services.UploadPhoto(file, services.FolderAvatars)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to upload picture"})
			return
		}

		previous := user.ProfilePictureURL
		user.ProfilePictureURL = path
		if err := db.Save(&user).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to save picture"})
			return
		}
		if previous != "" {
			services.DeletePhoto(previous)
		}

		c.JSON(200, gin.H{"profilePictureUrl": services.PhotoURL(path)})
	}
}

// userRating averages the reviews a user received, cached in Redis for the
// listings.
func userRating(db *gorm.DB, c *gin.Context, userID uint) (float64, int64) {
	var count int64
	db.Model(&models.Review{}).Where("reviewee_id = ?", userID).Count(&count)
	if count == 0 {
		return 0, 0
	}

	if cached, ok, err := services.GetUserRating(c.Request.Context(), userID); err == nil && ok {
		return cached, count
	}

	var avg float64
	db.Model(&models.Review{}).
		Where("reviewee_id = ?", userID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg)
	services.SetUserRating(c.Request.Context(), userID, avg)
	return avg, count
}
