package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ronin-tn/blassa-sub000/internal/models"
	"github.com/ronin-tn/blassa-sub000/internal/observability"
	"github.com/ronin-tn/blassa-sub000/internal/services"
	"github.com/ronin-tn/blassa-sub000/pkg/validation"
)

// CreateReview records a rating for the other party of a completed booking.
// One review per (booking, reviewer); submitting twice is rejected, so the
// action is safe to retry.
func CreateReview(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var req struct {
			BookingID uint   `json:"bookingId" validate:"required"`
			Rating    int    `json:"rating" validate:"required,min=1,max=5"`
			Comment   string `json:"comment" validate:"max=500"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "Invalid request body"})
			return
		}
		if errs := validation.ValidateStruct(req); !errs.Valid() {
			c.JSON(400, gin.H{"errors": errs})
			return
		}

		var booking models.Booking
		if err := db.Preload("Ride").First(&booking, req.BookingID).Error; err != nil {
			c.JSON(404, gin.H{"error": "BOOKING_NOT_FOUND"})
			return
		}

		var revieweeID uint
		switch userID {
		case booking.PassengerID:
			revieweeID = booking.Ride.DriverID
		case booking.Ride.DriverID:
			revieweeID = booking.PassengerID
		default:
			c.JSON(403, gin.H{"error": "NOT_PART_OF_BOOKING"})
			return
		}

		if booking.Status != models.BookingStatusConfirmed {
			c.JSON(409, gin.H{"error": "BOOKING_NOT_CONFIRMED"})
			return
		}
		if booking.Ride.Status != models.RideStatusCompleted {
			c.JSON(409, gin.H{"error": "RIDE_NOT_COMPLETED"})
			return
		}

		var count int64
		db.Model(&models.Review{}).
			Where("booking_id = ? AND reviewer_id = ?", booking.ID, userID).
			Count(&count)
		if count > 0 {
			c.JSON(409, gin.H{"error": "ALREADY_REVIEWED"})
			return
		}

		review := models.Review{
			BookingID:  booking.ID,
			ReviewerID: userID,
			RevieweeID: revieweeID,
			Rating:     req.Rating,
			Comment:    req.Comment,
		}
		if err := db.Create(&review).Error; err != nil {
			// The unique index catches a concurrent duplicate.
			c.JSON(409, gin.H{"error": "ALREADY_REVIEWED"})
			return
		}

		observability.ReviewsSubmitted.Inc()
		services.InvalidateUserRating(c.Request.Context(), revieweeID)
		notifier.NewReview(review, booking.RideID)

		c.JSON(201, gin.H{"review": review})
	}
}

// GetReceivedReviews lists reviews about a user, with their average.
func GetReceivedReviews(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := db.First(&user, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "USER_NOT_FOUND"})
			return
		}

		var reviews []models.Review
		if err := db.Preload("Reviewer").
			Where("reviewee_id = ?", user.ID).
			Order("created_at DESC").
			Find(&reviews).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch reviews"})
			return
		}

		for i := range reviews {
			reviews[i].Reviewer.ProfilePictureURL = services.PhotoURL(reviews[i].Reviewer.ProfilePictureURL)
		}

		rating, count := userRating(db, c, user.ID)
		c.JSON(200, gin.H{"reviews": reviews, "rating": rating, "count": count})
	}
}

// GetMyReceivedReviews lists reviews about the viewer.
func GetMyReceivedReviews(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var reviews []models.Review
		if err := db.Preload("Reviewer").
			Where("reviewee_id = ?", userID).
			Order("created_at DESC").
			Find(&reviews).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch reviews"})
			return
		}

		for i := range reviews {
			reviews[i].Reviewer.ProfilePictureURL = services.PhotoURL(reviews[i].Reviewer.ProfilePictureURL)
		}

		rating, count := userRating(db, c, userID)
		c.JSON(200, gin.H{"reviews": reviews, "rating": rating, "count": count})
	}
}

// GetUserRating returns just the average and count, for list rows that do
// not need the review bodies.
func GetUserRating(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := db.First(&user, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "USER_NOT_FOUND"})
			return
		}

		rating, count := userRating(db, c, user.ID)
		c.JSON(200, gin.H{"rating": rating, "count": count})
	}
}

// GetSentReviews lists the reviews the viewer wrote.
func GetSentReviews(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var reviews []models.Review
		if err := db.Preload("Reviewee").
			Where("reviewer_id = ?", userID).
			Order("created_at DESC").
			Find(&reviews).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch reviews"})
			return
		}

		c.JSON(200, gin.H{"reviews": reviews})
	}
}
