package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ronin-tn/blassa-sub000/internal/lifecycle"
	"github.com/ronin-tn/blassa-sub000/internal/models"
	"github.com/ronin-tn/blassa-sub000/internal/observability"
	"github.com/ronin-tn/blassa-sub000/internal/services"
	"github.com/ronin-tn/blassa-sub000/pkg/utils"
)

// CreateBooking requests seats on a ride. Seats are held from the moment of
// the request, not at confirmation, so two passengers cannot race past the
// last seat.
func CreateBooking(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var req struct {
			RideID uint `json:"rideId" binding:"required"`
			Seats  int  `json:"seats" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(400, gin.H{"error": "Invalid request body"})
			return
		}

		var passenger models.User
		if err := db.First(&passenger, userID).Error; err != nil {
			c.JSON(404, gin.H{"error": "USER_NOT_FOUND"})
			return
		}

		tx := db.Begin()
		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
			}
		}()

		var ride models.Ride
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Driver").First(&ride, req.RideID).Error; err != nil {
			tx.Rollback()
			c.JSON(404, gin.H{"error": "RIDE_NOT_FOUND"})
			return
		}

		if ride.DriverID == userID {
			tx.Rollback()
			c.JSON(400, gin.H{"error": "DRIVER_CANNOT_BOOK"})
			return
		}
		if !ride.DepartureTime.After(time.Now()) {
			tx.Rollback()
			c.JSON(409, gin.H{"error": "RIDE_ALREADY_DEPARTED"})
			return
		}
		if !ride.Bookable() {
			tx.Rollback()
			c.JSON(409, gin.H{"error": "RIDE_NOT_BOOKABLE"})
			return
		}

		switch ride.GenderPreference {
		case models.GenderPreferenceMaleOnly:
			if passenger.Gender != models.GenderMale {
				tx.Rollback()
				c.JSON(403, gin.H{"error": "GENDER_NOT_ALLOWED"})
				return
			}
		case models.GenderPreferenceFemaleOnly:
			if passenger.Gender != models.GenderFemale {
				tx.Rollback()
				c.JSON(403, gin.H{"error": "GENDER_NOT_ALLOWED"})
				return
			}
		}

		if req.Seats < 1 || req.Seats > lifecycle.EffectiveMax(ride.AvailableSeats) {
			tx.Rollback()
			c.JSON(409, gin.H{"error": "NOT_ENOUGH_SEATS"})
			return
		}

		// A cancelled booking on the same ride is revived instead of
		// inserting a second row.
		var booking models.Booking
		existing := tx.Where("ride_id = ? AND passenger_id = ?", ride.ID, userID).
			Order("created_at DESC").First(&booking).Error
		if existing == nil {
			if booking.Active() {
				tx.Rollback()
				c.JSON(409, gin.H{"error": "PASSENGER_ALREADY_BOOKED"})
				return
			}
			if booking.Status == models.BookingStatusCancelled {
				booking.Status = models.BookingStatusPending
				booking.SeatsBooked = req.Seats
				booking.PriceTotal = lifecycle.TotalPrice(req.Seats, ride.PricePerSeat)
				if err := tx.Save(&booking).Error; err != nil {
					tx.Rollback()
					c.JSON(500, gin.H{"error": "Failed to create booking"})
					return
				}
			} else {
				// REJECTED stays on record; a new request is a new row.
				existing = gorm.ErrRecordNotFound
			}
		}
		if existing != nil {
			booking = models.Booking{
				RideID:      ride.ID,
				PassengerID: userID,
				SeatsBooked: req.Seats,
				PriceTotal:  lifecycle.TotalPrice(req.Seats, ride.PricePerSeat),
				Status:      models.BookingStatusPending,
			}
			if err := tx.Create(&booking).Error; err != nil {
				tx.Rollback()
				c.JSON(500, gin.H{"error": "Failed to create booking"})
				return
			}
		}

		ride.AvailableSeats -= req.Seats
		if ride.AvailableSeats == 0 {
			ride.Status = models.RideStatusFull
		}
		if err := tx.Save(&ride).Error; err != nil {
			tx.Rollback()
			c.JSON(500, gin.H{"error": "Failed to create booking"})
			return
		}

		if err := tx.Commit().Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create booking"})
			return
		}

		observability.BookingsCreated.Inc()
		notifier.NewBookingRequest(ride.DriverID, passenger.FullName(), req.Seats, booking)
		go utils.SendNewPassengerEmail(ride.Driver.Email, passenger.FullName(), rideLabel(&ride))

		c.JSON(201, gin.H{"booking": booking})
	}
}

// AcceptBooking confirms a pending request. Seats were already held at
// request time, so this only flips the status.
func AcceptBooking(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		// A second tap while the first request is in flight is rejected, the
		// server-side twin of the client disabling the button.
		scope := "accept:booking:" + c.Param("id")
		if ok, err := services.BeginAction(c.Request.Context(), scope); err != nil || !ok {
			c.JSON(409, gin.H{"error": "ACTION_IN_FLIGHT"})
			return
		}
		defer services.EndAction(c.Request.Context(), scope)

		var booking models.Booking
		if err := db.Preload("Ride").Preload("Passenger").First(&booking, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "BOOKING_NOT_FOUND"})
			return
		}
		if booking.Ride.DriverID != userID {
			c.JSON(403, gin.H{"error": "NOT_AUTHORIZED"})
			return
		}
		if booking.Status != models.BookingStatusPending {
			c.JSON(409, gin.H{"error": "BOOKING_NOT_PENDING"})
			return
		}

		booking.Status = models.BookingStatusConfirmed
		if err := db.Save(&booking).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to accept booking"})
			return
		}

		var driver models.User
		db.First(&driver, userID)
		notifier.BookingAccepted(booking, driver.FullName())
		go utils.SendBookingAcceptedEmail(booking.Passenger.Email, driver.FullName(), rideLabel(&booking.Ride))

		c.JSON(200, gin.H{"booking": booking})
	}
}

// RejectBooking declines a pending request and returns its seats to the
// ride. A full ride reopens.
func RejectBooking(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		scope := "reject:booking:" + c.Param("id")
		if ok, err := services.BeginAction(c.Request.Context(), scope); err != nil || !ok {
			c.JSON(409, gin.H{"error": "ACTION_IN_FLIGHT"})
			return
		}
		defer services.EndAction(c.Request.Context(), scope)

		tx := db.Begin()
		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
			}
		}()

		var booking models.Booking
		if err := tx.Preload("Ride").Preload("Passenger").First(&booking, c.Param("id")).Error; err != nil {
			tx.Rollback()
			c.JSON(404, gin.H{"error": "BOOKING_NOT_FOUND"})
			return
		}
		if booking.Ride.DriverID != userID {
			tx.Rollback()
			c.JSON(403, gin.H{"error": "NOT_AUTHORIZED"})
			return
		}
		if booking.Status != models.BookingStatusPending {
			tx.Rollback()
			c.JSON(409, gin.H{"error": "BOOKING_NOT_PENDING"})
			return
		}

		booking.Status = models.BookingStatusRejected
		if err := tx.Save(&booking).Error; err != nil {
			tx.Rollback()
			c.JSON(500, gin.H{"error": "Failed to reject booking"})
			return
		}

		if err := restoreSeats(tx, booking.RideID, booking.SeatsBooked); err != nil {
			tx.Rollback()
			c.JSON(500, gin.H{"error": "Failed to reject booking"})
			return
		}

		if err := tx.Commit().Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to reject booking"})
			return
		}

		var driver models.User
		db.First(&driver, userID)
		notifier.BookingRejected(booking, driver.FullName())
		go utils.SendBookingRejectedEmail(booking.Passenger.Email, rideLabel(&booking.Ride))

		c.JSON(200, gin.H{"booking": booking})
	}
}

// CancelBooking lets the passenger withdraw. Seats return to the ride
// unless the request was already rejected.
func CancelBooking(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		scope := "cancel:booking:" + c.Param("id")
		if ok, err := services.BeginAction(c.Request.Context(), scope); err != nil || !ok {
			c.JSON(409, gin.H{"error": "ACTION_IN_FLIGHT"})
			return
		}
		defer services.EndAction(c.Request.Context(), scope)

		tx := db.Begin()
		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
			}
		}()

		var booking models.Booking
		if err := tx.Preload("Ride").Preload("Passenger").First(&booking, c.Param("id")).Error; err != nil {
			tx.Rollback()
			c.JSON(404, gin.H{"error": "BOOKING_NOT_FOUND"})
			return
		}
		if booking.PassengerID != userID {
			tx.Rollback()
			c.JSON(403, gin.H{"error": "NOT_AUTHORIZED"})
			return
		}
		if booking.Status == models.BookingStatusCancelled {
			tx.Rollback()
			c.JSON(409, gin.H{"error": "ALREADY_CANCELLED"})
			return
		}
		if booking.Ride.Status == models.RideStatusInProgress || booking.Ride.Status == models.RideStatusCompleted {
			tx.Rollback()
			c.JSON(409, gin.H{"error": "CANNOT_CANCEL_ACTIVE_RIDE"})
			return
		}

		heldSeats := booking.Active()
		booking.Status = models.BookingStatusCancelled
		if err := tx.Save(&booking).Error; err != nil {
			tx.Rollback()
			c.JSON(500, gin.H{"error": "Failed to cancel booking"})
			return
		}

		if heldSeats {
			if err := restoreSeats(tx, booking.RideID, booking.SeatsBooked); err != nil {
				tx.Rollback()
				c.JSON(500, gin.H{"error": "Failed to cancel booking"})
				return
			}
		}

		if err := tx.Commit().Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to cancel booking"})
			return
		}

		if heldSeats {
			notifier.PassengerCancelled(booking.Ride.DriverID, booking.Passenger.FullName(), booking)
		}

		c.JSON(200, gin.H{"booking": booking})
	}
}

// CancelBookingByRide withdraws the viewer's active booking on a ride,
// for clients that navigate from the ride rather than the booking list.
func CancelBookingByRide(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		tx := db.Begin()
		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
			}
		}()

		var booking models.Booking
		err := tx.Preload("Ride").Preload("Passenger").
			Where("ride_id = ? AND passenger_id = ? AND status IN ?", c.Param("id"), userID,
				[]models.BookingStatus{models.BookingStatusPending, models.BookingStatusConfirmed}).
			First(&booking).Error
		if err != nil {
			tx.Rollback()
			c.JSON(404, gin.H{"error": "BOOKING_NOT_FOUND"})
			return
		}
		if booking.Ride.Status == models.RideStatusInProgress || booking.Ride.Status == models.RideStatusCompleted {
			tx.Rollback()
			c.JSON(409, gin.H{"error": "CANNOT_CANCEL_ACTIVE_RIDE"})
			return
		}

		booking.Status = models.BookingStatusCancelled
		if err := tx.Save(&booking).Error; err != nil {
			tx.Rollback()
			c.JSON(500, gin.H{"error": "Failed to cancel booking"})
			return
		}
		if err := restoreSeats(tx, booking.RideID, booking.SeatsBooked); err != nil {
			tx.Rollback()
			c.JSON(500, gin.H{"error": "Failed to cancel booking"})
			return
		}
		if err := tx.Commit().Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to cancel booking"})
			return
		}

		notifier.PassengerCancelled(booking.Ride.DriverID, booking.Passenger.FullName(), booking)

		c.JSON(200, gin.H{"booking": booking})
	}
}

// GetMyBookings lists the viewer's bookings as a passenger.
func GetMyBookings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var bookings []models.Booking
		if err := db.Preload("Ride").Preload("Ride.Driver").
			Where("passenger_id = ?", userID).
			Order("created_at DESC").
			Find(&bookings).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		c.JSON(200, gin.H{"bookings": bookings})
	}
}

// GetBookedRideIDs returns the ride ids the viewer holds an active booking
// on, so listings can badge them.
func GetBookedRideIDs(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")

		var rideIDs []uint
		if err := db.Model(&models.Booking{}).
			Where("passenger_id = ? AND status IN ?", userID,
				[]models.BookingStatus{models.BookingStatusPending, models.BookingStatusConfirmed}).
			Pluck("ride_id", &rideIDs).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		c.JSON(200, gin.H{"rideIds": rideIDs})
	}
}

// GetRideBookings lists the requests on a ride for its driver.
func GetRideBookings(db *gorm.DB) gin.HandlerFunc {
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

		var bookings []models.Booking
		if err := db.Preload("Passenger").
			Where("ride_id = ?", ride.ID).
			Order("created_at ASC").
			Find(&bookings).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		for i := range bookings {
			bookings[i].Passenger.ProfilePictureURL = services.PhotoURL(bookings[i].Passenger.ProfilePictureURL)
		}

		c.JSON(200, gin.H{"bookings": bookings})
	}
}

// restoreSeats gives freed seats back to the ride and reopens it if it was
// full.
func restoreSeats(tx *gorm.DB, rideID uint, seats int) error {
	var ride models.Ride
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&ride, rideID).Error; err != nil {
		return err
	}

	ride.AvailableSeats += seats
	if ride.AvailableSeats > ride.TotalSeats {
		ride.AvailableSeats = ride.TotalSeats
	}
	if ride.Status == models.RideStatusFull && ride.AvailableSeats > 0 {
		ride.Status = models.RideStatusScheduled
	}
	return tx.Save(&ride).Error
}

func rideLabel(ride *models.Ride) string {
	return ride.OriginName + " → " + ride.DestinationName
}
