package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ronin-tn/blassa-sub000/internal/models"
	"github.com/ronin-tn/blassa-sub000/pkg/validation"
)

// CreateVehicle registers a car for the authenticated user. Plates are
// stored uppercase so masking and comparison stay consistent.
func CreateVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var form validation.VehicleForm
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(400, gin.H{"error": "Invalid request body"})
			return
		}

		if errs := form.Validate(); !errs.Valid() {
			c.JSON(400, gin.H{"errors": errs})
			return
		}

		vehicle := models.Vehicle{
			OwnerID:      userID,
			Make:         form.Make,
			ModelName:    form.Model,
			Color:        form.Color,
			LicensePlate: strings.ToUpper(strings.TrimSpace(form.LicensePlate)),
		}
		if year := strings.TrimSpace(form.ProductionYear); year != "" {
			parsed, _ := strconv.Atoi(year)
			vehicle.ProductionYear = &parsed
		}

		if err := db.Create(&vehicle).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create vehicle"})
			return
		}

		c.JSON(201, gin.H{"vehicle": vehicle})
	}
}

// GetMyVehicles lists the viewer's registered cars.
func GetMyVehicles(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var vehicles []models.Vehicle
		if err := db.Where("owner_id = ?", userID).
			Order("created_at DESC").
			Find(&vehicles).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch vehicles"})
			return
		}

		c.JSON(200, gin.H{"vehicles": vehicles})
	}
}

// DeleteVehicle removes a car the viewer owns, unless a ride still
// references it.
func DeleteVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var vehicle models.Vehicle
		if err := db.First(&vehicle, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "VEHICLE_NOT_FOUND"})
			return
		}
		if vehicle.OwnerID != userID {
			c.JSON(403, gin.H{"error": "NOT_AUTHORIZED"})
			return
		}

		var rideCount int64
		db.Model(&models.Ride{}).
			Where("vehicle_id = ? AND status IN ?", vehicle.ID,
				[]models.RideStatus{models.RideStatusScheduled, models.RideStatusFull, models.RideStatusInProgress}).
			Count(&rideCount)
		if rideCount > 0 {
			c.JSON(409, gin.H{"error": "VEHICLE_IN_USE"})
			return
		}

		if err := db.Delete(&vehicle).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete vehicle"})
			return
		}

		c.JSON(200, gin.H{"status": StatusSuccess})
	}
}
