package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ronin-tn/blassa-sub000/internal/models"
	"github.com/ronin-tn/blassa-sub000/internal/observability"
	"github.com/ronin-tn/blassa-sub000/internal/services"
	"github.com/ronin-tn/blassa-sub000/pkg/utils"
)

// SearchRadiusKm bounds how far from the requested origin/destination a
// ride may depart or arrive to match a search.
const SearchRadiusKm = 15.0

type createRideRequest struct {
	OriginName       string  `json:"originName" binding:"required"`
	OriginLat        float64 `json:"originLat" binding:"required"`
	OriginLng        float64 `json:"originLng" binding:"required"`
	DestinationName  string  `json:"destinationName" binding:"required"`
	DestinationLat   float64 `json:"destinationLat" binding:"required"`
	DestinationLng   float64 `json:"destinationLng" binding:"required"`
	DepartureTime    string  `json:"departureTime" binding:"required"`
	TotalSeats       int     `json:"totalSeats" binding:"required"`
	PricePerSeat     float64 `json:"pricePerSeat" binding:"required"`
	VehicleID        *uint   `json:"vehicleId"`
	GenderPreference string  `json:"genderPreference"`
	AllowsSmoking    bool    `json:"allowsSmoking"`
	AllowsMusic      bool    `json:"allowsMusic"`
	AllowsPets       bool    `json:"allowsPets"`
	LuggageSize      string  `json:"luggageSize"`
}

// CreateRide publishes a new ride for the authenticated driver.
func CreateRide(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var req createRideRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "Invalid request body"})
			return
		}

		departure, err := time.Parse(time.RFC3339, req.DepartureTime)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid departure time"})
			return
		}
		if !departure.After(time.Now()) {
			c.JSON(400, gin.H{"error": "DEPARTURE_IN_PAST"})
			return
		}

		if req.TotalSeats < 1 || req.TotalSeats > 4 {
			c.JSON(400, gin.H{"error": "Seats must be between 1 and 4"})
			return
		}
		if req.PricePerSeat < 0 {
			c.JSON(400, gin.H{"error": "Price cannot be negative"})
			return
		}

		var driver models.User
		if err := db.First(&driver, userID).Error; err != nil {
			c.JSON(404, gin.H{"error": "USER_NOT_FOUND"})
			return
		}

		pref := models.GenderPreference(req.GenderPreference)
		if pref == "" {
			pref = models.GenderPreferenceAny
		}
		switch pref {
		case models.GenderPreferenceAny:
		case models.GenderPreferenceMaleOnly:
			if driver.Gender != models.GenderMale {
				c.JSON(400, gin.H{"error": "GENDER_PREFERENCE_MISMATCH"})
				return
			}
		case models.GenderPreferenceFemaleOnly:
			if driver.Gender != models.GenderFemale {
				c.JSON(400, gin.H{"error": "GENDER_PREFERENCE_MISMATCH"})
				return
			}
		default:
			c.JSON(400, gin.H{"error": "Invalid gender preference"})
			return
		}

		if req.VehicleID != nil {
			var vehicle models.Vehicle
			if err := db.First(&vehicle, *req.VehicleID).Error; err != nil || vehicle.OwnerID != userID {
				c.JSON(400, gin.H{"error": "VEHICLE_NOT_FOUND"})
				return
			}
		}

		ride := models.Ride{
			DriverID:         userID,
			VehicleID:        req.VehicleID,
			OriginName:       req.OriginName,
			OriginLat:        req.OriginLat,
			OriginLng:        req.OriginLng,
			DestinationName:  req.DestinationName,
			DestinationLat:   req.DestinationLat,
			DestinationLng:   req.DestinationLng,
			DepartureTime:    departure,
			TotalSeats:       req.TotalSeats,
			AvailableSeats:   req.TotalSeats,
			PricePerSeat:     req.PricePerSeat,
			Status:           models.RideStatusScheduled,
			GenderPreference: pref,
			AllowsSmoking:    req.AllowsSmoking,
			AllowsMusic:      req.AllowsMusic,
			AllowsPets:       req.AllowsPets,
			LuggageSize:      req.LuggageSize,
		}

		if err := db.Create(&ride).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create ride"})
			return
		}

		observability.RidesPublished.Inc()
		c.JSON(201, gin.H{"ride": ride})
	}
}

// SearchRides finds bookable rides near an origin/destination pair. A
// bounding box narrows the SQL scan, then haversine confirms the radius.
func SearchRides(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		originLat, err1 := strconv.ParseFloat(c.Query("originLat"), 64)
		originLng, err2 := strconv.ParseFloat(c.Query("originLng"), 64)
		destLat, err3 := strconv.ParseFloat(c.Query("destinationLat"), 64)
		destLng, err4 := strconv.ParseFloat(c.Query("destinationLng"), 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			c.JSON(400, gin.H{"error": "Origin and destination coordinates required"})
			return
		}

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if page < 1 {
			page = 1
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if limit < 1 || limit > 50 {
			limit = 20
		}

		var viewer models.User
		if err := db.First(&viewer, userID).Error; err != nil {
			c.JSON(404, gin.H{"error": "USER_NOT_FOUND"})
			return
		}

		originBox := utils.GetBoundingBox(originLat, originLng, SearchRadiusKm)
		destBox := utils.GetBoundingBox(destLat, destLng, SearchRadiusKm)

		query := db.Preload("Driver").Preload("Vehicle").
			Where("status = ?", models.RideStatusScheduled).
			Where("available_seats > 0").
			Where("departure_time > ?", time.Now()).
			Where("driver_id <> ?", userID).
			Where("origin_lat BETWEEN ? AND ?", originBox.SouthWest.Lat, originBox.NorthEast.Lat).
			Where("origin_lng BETWEEN ? AND ?", originBox.SouthWest.Lng, originBox.NorthEast.Lng).
			Where("destination_lat BETWEEN ? AND ?", destBox.SouthWest.Lat, destBox.NorthEast.Lat).
			Where("destination_lng BETWEEN ? AND ?", destBox.SouthWest.Lng, destBox.NorthEast.Lng)

		// Gender-restricted rides are invisible to searchers they exclude.
		switch viewer.Gender {
		case models.GenderMale:
			query = query.Where("gender_preference <> ?", models.GenderPreferenceFemaleOnly)
		case models.GenderFemale:
			query = query.Where("gender_preference <> ?", models.GenderPreferenceMaleOnly)
		}

		if date := c.Query("date"); date != "" {
			day, err := time.Parse("2006-01-02", date)
			if err != nil {
				c.JSON(400, gin.H{"error": "Invalid date"})
				return
			}
			query = query.Where("departure_time >= ? AND departure_time < ?", day, day.Add(24*time.Hour))
		}

		var candidates []models.Ride
		if err := query.Order("departure_time ASC").Find(&candidates).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to search rides"})
			return
		}

		matches := make([]models.Ride, 0, len(candidates))
		for _, ride := range candidates {
			if utils.IsWithinRadius(originLat, originLng, ride.OriginLat, ride.OriginLng, SearchRadiusKm) &&
				utils.IsWithinRadius(destLat, destLng, ride.DestinationLat, ride.DestinationLng, SearchRadiusKm) {
				matches = append(matches, ride)
			}
		}

		total := len(matches)
		start := (page - 1) * limit
		if start > total {
			start = total
		}
		end := start + limit
		if end > total {
			end = total
		}
		pageItems := matches[start:end]

		for i := range pageItems {
			// Plates are never exposed in search results.
			if pageItems[i].Vehicle != nil {
				pageItems[i].Vehicle.LicensePlate = ""
			}
			pageItems[i].Driver.ProfilePictureURL = services.PhotoURL(pageItems[i].Driver.ProfilePictureURL)
		}

		c.JSON(200, gin.H{
			"rides": pageItems,
			"page":  page,
			"limit": limit,
			"total": total,
		})
	}
}

// GetMyRides lists the rides the user published, newest departure first.
func GetMyRides(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var rides []models.Ride
		if err := db.Preload("Vehicle").Preload("Bookings").
			Where("driver_id = ?", userID).
			Order("departure_time DESC").
			Find(&rides).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch rides"})
			return
		}

		c.JSON(200, gin.H{"rides": rides})
	}
}

// GetRide returns ride details for any authenticated viewer, with the
// license plate filtered by their relationship to the ride.
func GetRide(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var ride models.Ride
		if err := db.Preload("Driver").Preload("Vehicle").First(&ride, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "RIDE_NOT_FOUND"})
			return
		}

		var booking *models.Booking
		if ride.DriverID != userID {
			var b models.Booking
			err := db.Where("ride_id = ? AND passenger_id = ?", ride.ID, userID).
				Order("created_at DESC").First(&b).Error
			if err == nil {
				booking = &b
			}
		}

		if ride.Vehicle != nil {
			ride.Vehicle.LicensePlate = visiblePlate(&ride, userID, booking, time.Now())
		}
		ride.Driver.ProfilePictureURL = services.PhotoURL(ride.Driver.ProfilePictureURL)

		rating, reviewCount := userRating(db, c, ride.DriverID)

		resp := gin.H{
			"ride":              ride,
			"driverRating":      rating,
			"driverReviewCount": reviewCount,
		}
		if booking != nil {
			resp["booking"] = booking
		}
		c.JSON(200, resp)
	}
}

// visiblePlate decides how much of the vehicle plate a viewer sees. The
// driver always sees it in full. A confirmed passenger sees the full plate
// once the ride is under way, finished, or within an hour of departure,
// and a masked form before that. Everyone else sees nothing.
func visiblePlate(ride *models.Ride, viewerID uint, booking *models.Booking, now time.Time) string {
	if ride.Vehicle == nil {
		return ""
	}
	plate := ride.Vehicle.LicensePlate

	if ride.DriverID == viewerID {
		return plate
	}
	if booking == nil || booking.Status != models.BookingStatusConfirmed {
		return ""
	}
	if ride.Status == models.RideStatusInProgress || ride.Status == models.RideStatusCompleted {
		return plate
	}
	if ride.DepartureTime.Sub(now) <= time.Hour {
		return plate
	}
	return utils.MaskPlate(plate)
}
