package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ronin-tn/blassa-sub000/internal/models"
	"github.com/ronin-tn/blassa-sub000/pkg/validation"
)

// CreateReport files a complaint against a user, a ride, or both. Reports
// land in PENDING state; moderation handles them outside the API.
func CreateReport(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var req struct {
			ReportedUserID *uint  `json:"reportedUserId"`
			RideID         *uint  `json:"rideId"`
			Reason         string `json:"reason" validate:"required"`
			Description    string `json:"description" validate:"required,max=2000"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "Invalid request body"})
			return
		}
		if errs := validation.ValidateStruct(req); !errs.Valid() {
			c.JSON(400, gin.H{"errors": errs})
			return
		}

		if req.ReportedUserID == nil && req.RideID == nil {
			c.JSON(400, gin.H{"error": "REPORT_TARGET_REQUIRED"})
			return
		}
		if req.ReportedUserID != nil && *req.ReportedUserID == userID {
			c.JSON(400, gin.H{"error": "CANNOT_REPORT_SELF"})
			return
		}

		if req.ReportedUserID != nil {
			var reported models.User
			if err := db.First(&reported, *req.ReportedUserID).Error; err != nil {
				c.JSON(404, gin.H{"error": "USER_NOT_FOUND"})
				return
			}
		}
		if req.RideID != nil {
			var ride models.Ride
			if err := db.First(&ride, *req.RideID).Error; err != nil {
				c.JSON(404, gin.H{"error": "RIDE_NOT_FOUND"})
				return
			}
		}

		report := models.UserReport{
			ReporterID:     userID,
			ReportedUserID: req.ReportedUserID,
			RideID:         req.RideID,
			Reason:         req.Reason,
			Description:    req.Description,
			Status:         models.ReportStatusPending,
		}
		if err := db.Create(&report).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create report"})
			return
		}

		c.JSON(201, gin.H{"report": report})
	}
}

// GetMyReports lists the reports the viewer filed, newest first.
func GetMyReports(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var reports []models.UserReport
		if err := db.Where("reporter_id = ?", userID).
			Order("created_at DESC").
			Find(&reports).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch reports"})
			return
		}

		c.JSON(200, gin.H{"reports": reports})
	}
}
