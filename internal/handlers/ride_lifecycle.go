package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ronin-tn/blassa-sub000/internal/lifecycle"
	"github.com/ronin-tn/blassa-sub000/internal/models"
	"github.com/ronin-tn/blassa-sub000/internal/services"
)

// validTransitions is the ride status machine. Terminal states have no
// outgoing edges.
var validTransitions = map[models.RideStatus][]models.RideStatus{
	models.RideStatusScheduled:  {models.RideStatusFull, models.RideStatusInProgress, models.RideStatusCancelled},
	models.RideStatusFull:       {models.RideStatusScheduled, models.RideStatusInProgress, models.RideStatusCancelled},
	models.RideStatusInProgress: {models.RideStatusCompleted},
}

func transitionAllowed(from, to models.RideStatus) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// StartRide moves a ride to IN_PROGRESS. Pending booking requests are
// rejected at departure since their seats can no longer be taken.
func StartRide(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var ride models.Ride
		if err := db.First(&ride, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "RIDE_NOT_FOUND"})
			return
		}
		if ride.DriverID != userID {
			c.JSON(403, gin.H{"error": "NOT_AUTHORIZED"})
			return
		}
		if !transitionAllowed(ride.Status, models.RideStatusInProgress) {
			c.JSON(409, gin.H{"error": "INVALID_TRANSITION"})
			return
		}

		tx := db.Begin()
		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
			}
		}()

		var pending []models.Booking
		tx.Where("ride_id = ? AND status = ?", ride.ID, models.BookingStatusPending).Find(&pending)
		if len(pending) > 0 {
			if err := tx.Model(&models.Booking{}).
				Where("ride_id = ? AND status = ?", ride.ID, models.BookingStatusPending).
				Update("status", models.BookingStatusRejected).Error; err != nil {
				tx.Rollback()
				c.JSON(500, gin.H{"error": "Failed to start ride"})
				return
			}
		}

		ride.Status = models.RideStatusInProgress
		if err := tx.Save(&ride).Error; err != nil {
			tx.Rollback()
			c.JSON(500, gin.H{"error": "Failed to start ride"})
			return
		}

		var confirmed []models.Booking
		tx.Where("ride_id = ? AND status = ?", ride.ID, models.BookingStatusConfirmed).Find(&confirmed)

		if err := tx.Commit().Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to start ride"})
			return
		}

		for _, b := range confirmed {
			notifier.RideStarted(b.PassengerID, ride)
		}

		c.JSON(200, gin.H{"ride": ride})
	}
}

// CompleteRide moves an in-progress ride to COMPLETED and invites the
// confirmed passengers to review.
func CompleteRide(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var ride models.Ride
		if err := db.First(&ride, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "RIDE_NOT_FOUND"})
			return
		}
		if ride.DriverID != userID {
			c.JSON(403, gin.H{"error": "NOT_AUTHORIZED"})
			return
		}
		if !transitionAllowed(ride.Status, models.RideStatusCompleted) {
			c.JSON(409, gin.H{"error": "INVALID_TRANSITION"})
			return
		}

		ride.Status = models.RideStatusCompleted
		if err := db.Save(&ride).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to complete ride"})
			return
		}

		var confirmed []models.Booking
		db.Where("ride_id = ? AND status = ?", ride.ID, models.BookingStatusConfirmed).Find(&confirmed)
		for _, b := range confirmed {
			notifier.RideCompleted(b.PassengerID, ride)
		}

		c.JSON(200, gin.H{"ride": ride})
	}
}

// CancelRide cancels a ride that has not departed and releases every active
// booking on it.
func CancelRide(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var ride models.Ride
		if err := db.First(&ride, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "RIDE_NOT_FOUND"})
			return
		}
		if ride.DriverID != userID {
			c.JSON(403, gin.H{"error": "NOT_AUTHORIZED"})
			return
		}
		if ride.Status == models.RideStatusCancelled {
			c.JSON(409, gin.H{"error": "ALREADY_CANCELLED"})
			return
		}
		if !transitionAllowed(ride.Status, models.RideStatusCancelled) {
			c.JSON(409, gin.H{"error": "CANNOT_CANCEL_ACTIVE_RIDE"})
			return
		}

		tx := db.Begin()
		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
			}
		}()

		var active []models.Booking
		tx.Where("ride_id = ? AND status IN ?", ride.ID,
			[]models.BookingStatus{models.BookingStatusPending, models.BookingStatusConfirmed}).
			Find(&active)

		if len(active) > 0 {
			if err := tx.Model(&models.Booking{}).
				Where("ride_id = ? AND status IN ?", ride.ID,
					[]models.BookingStatus{models.BookingStatusPending, models.BookingStatusConfirmed}).
				Update("status", models.BookingStatusCancelled).Error; err != nil {
				tx.Rollback()
				c.JSON(500, gin.H{"error": "Failed to cancel ride"})
				return
			}
		}

		ride.Status = models.RideStatusCancelled
		if err := tx.Save(&ride).Error; err != nil {
			tx.Rollback()
			c.JSON(500, gin.H{"error": "Failed to cancel ride"})
			return
		}

		if err := tx.Commit().Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to cancel ride"})
			return
		}

		for _, b := range active {
			notifier.RideCancelled(b.PassengerID, ride)
		}

		c.JSON(200, gin.H{"ride": ride})
	}
}

// UpdateRideStatus applies an explicit status change, running the same
// cascades the dedicated endpoints do. Terminal states are frozen and a
// scheduled ride can never jump straight to COMPLETED.
func UpdateRideStatus(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var req struct {
			Status models.RideStatus `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "Invalid request body"})
			return
		}

		var ride models.Ride
		if err := db.First(&ride, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "RIDE_NOT_FOUND"})
			return
		}
		if ride.DriverID != userID {
			c.JSON(403, gin.H{"error": "NOT_AUTHORIZED"})
			return
		}
		if !transitionAllowed(ride.Status, req.Status) {
			c.JSON(409, gin.H{"error": "INVALID_TRANSITION"})
			return
		}

		tx := db.Begin()
		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
			}
		}()

		var affected []models.Booking
		switch req.Status {
		case models.RideStatusInProgress:
			// Pending requests cannot survive departure.
			tx.Where("ride_id = ? AND status = ?", ride.ID, models.BookingStatusPending).Find(&affected)
			if err := tx.Model(&models.Booking{}).
				Where("ride_id = ? AND status = ?", ride.ID, models.BookingStatusPending).
				Update("status", models.BookingStatusRejected).Error; err != nil {
				tx.Rollback()
				c.JSON(500, gin.H{"error": "Failed to update ride"})
				return
			}
			tx.Where("ride_id = ? AND status = ?", ride.ID, models.BookingStatusConfirmed).Find(&affected)
		case models.RideStatusCancelled:
			tx.Where("ride_id = ? AND status IN ?", ride.ID,
				[]models.BookingStatus{models.BookingStatusPending, models.BookingStatusConfirmed}).
				Find(&affected)
			if err := tx.Model(&models.Booking{}).
				Where("ride_id = ? AND status IN ?", ride.ID,
					[]models.BookingStatus{models.BookingStatusPending, models.BookingStatusConfirmed}).
				Update("status", models.BookingStatusCancelled).Error; err != nil {
				tx.Rollback()
				c.JSON(500, gin.H{"error": "Failed to update ride"})
				return
			}
		case models.RideStatusCompleted:
			tx.Where("ride_id = ? AND status = ?", ride.ID, models.BookingStatusConfirmed).Find(&affected)
		}

		ride.Status = req.Status
		if err := tx.Save(&ride).Error; err != nil {
			tx.Rollback()
			c.JSON(500, gin.H{"error": "Failed to update ride"})
			return
		}
		if err := tx.Commit().Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update ride"})
			return
		}

		for _, b := range affected {
			switch req.Status {
			case models.RideStatusInProgress:
				notifier.RideStarted(b.PassengerID, ride)
			case models.RideStatusCompleted:
				notifier.RideCompleted(b.PassengerID, ride)
			case models.RideStatusCancelled:
				notifier.RideCancelled(b.PassengerID, ride)
			}
		}

		c.JSON(200, gin.H{"ride": ride})
	}
}

// GetRideView runs the view classifier for the authenticated viewer. The
// response carries everything a client needs to render the detail screen
// without deciding anything locally.
func GetRideView(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")
		now := time.Now()

		var ride models.Ride
		if err := db.Preload("Driver").Preload("Vehicle").First(&ride, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "RIDE_NOT_FOUND"})
			return
		}

		in := lifecycle.Input{
			RideStatus:     ride.Status,
			AvailableSeats: ride.AvailableSeats,
			PricePerSeat:   ride.PricePerSeat,
			DepartureTime:  ride.DepartureTime.Format(lifecycle.DepartureTimeLayout),
			Now:            now,
		}

		var booking *models.Booking
		if ride.DriverID == userID {
			in.Role = lifecycle.RoleDriver

			var all []models.Booking
			db.Where("ride_id = ?", ride.ID).Find(&all)
			for _, b := range all {
				in.Bookings = append(in.Bookings, lifecycle.BookingSummary{
					Status:      b.Status,
					SeatsBooked: b.SeatsBooked,
				})
			}
		} else {
			in.Role = lifecycle.RolePassenger

			var b models.Booking
			err := db.Where("ride_id = ? AND passenger_id = ?", ride.ID, userID).
				Order("created_at DESC").First(&b).Error
			if err == nil {
				booking = &b
				in.Booking = &lifecycle.BookingSummary{
					Status:      b.Status,
					SeatsBooked: b.SeatsBooked,
				}

				var reviewCount int64
				db.Model(&models.Review{}).
					Where("booking_id = ? AND reviewer_id = ?", b.ID, userID).
					Count(&reviewCount)
				in.Reviewed = reviewCount > 0
			}
		}

		view := lifecycle.Classify(in)

		if ride.Vehicle != nil {
			ride.Vehicle.LicensePlate = visiblePlate(&ride, userID, booking, now)
		}
		ride.Driver.ProfilePictureURL = services.PhotoURL(ride.Driver.ProfilePictureURL)

		resp := gin.H{"view": view, "ride": ride}
		if booking != nil {
			resp["booking"] = booking
		}
		c.JSON(200, resp)
	}
}
