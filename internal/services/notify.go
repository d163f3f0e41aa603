package services

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/ronin-tn/blassa-sub000/internal/models"
)

// Notifier persists notifications and pushes them over the hub. Persistence
// comes first so a user who is offline still sees the entry later.
type Notifier struct {
	db  *gorm.DB
	hub *Hub
}

func NewNotifier(db *gorm.DB, hub *Hub) *Notifier {
	return &Notifier{db: db, hub: hub}
}

func (n *Notifier) notify(userID uint, notifType models.NotificationType, title, body, link string) {
	notification := models.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
		Link:   link,
	}
	if err := n.db.Create(&notification).Error; err != nil {
		log.Printf("Error saving notification for user %d: %v", userID, err)
		return
	}

	n.hub.push(userID, "notification", notification)
}

// NewBookingRequest tells the driver a passenger asked to join.
func (n *Notifier) NewBookingRequest(driverID uint, passengerName string, seats int, booking models.Booking) {
	title := "Nouvelle demande de réservation"
	body := fmt.Sprintf("%s souhaite réserver %d place(s) sur votre trajet.", passengerName, seats)
	n.notify(driverID, models.NotificationNewBooking, title, body, fmt.Sprintf("/rides/%d", booking.RideID))
	n.hub.PushBookingEvent(driverID, "new_booking", BookingEvent{
		BookingID:   booking.ID,
		RideID:      booking.RideID,
		PassengerID: booking.PassengerID,
		Seats:       booking.SeatsBooked,
		Status:      string(booking.Status),
	})
}

// BookingAccepted tells the passenger the driver confirmed their seats.
func (n *Notifier) BookingAccepted(booking models.Booking, driverName string) {
	title := "Réservation confirmée"
	body := fmt.Sprintf("%s a accepté votre réservation. Bon voyage !", driverName)
	n.notify(booking.PassengerID, models.NotificationBookingAccepted, title, body, fmt.Sprintf("/rides/%d", booking.RideID))
	n.hub.PushBookingEvent(booking.PassengerID, "booking_accepted", BookingEvent{
		BookingID:   booking.ID,
		RideID:      booking.RideID,
		PassengerID: booking.PassengerID,
		Seats:       booking.SeatsBooked,
		Status:      string(booking.Status),
	})
}

// BookingRejected tells the passenger the driver declined.
func (n *Notifier) BookingRejected(booking models.Booking, driverName string) {
	title := "Réservation refusée"
	body := fmt.Sprintf("%s a refusé votre demande de réservation.", driverName)
	n.notify(booking.PassengerID, models.NotificationBookingRejected, title, body, "/search")
	n.hub.PushBookingEvent(booking.PassengerID, "booking_rejected", BookingEvent{
		BookingID:   booking.ID,
		RideID:      booking.RideID,
		PassengerID: booking.PassengerID,
		Seats:       booking.SeatsBooked,
		Status:      string(booking.Status),
	})
}

// PassengerCancelled tells the driver a passenger freed their seats.
func (n *Notifier) PassengerCancelled(driverID uint, passengerName string, booking models.Booking) {
	title := "Réservation annulée"
	body := fmt.Sprintf("%s a annulé sa réservation de %d place(s).", passengerName, booking.SeatsBooked)
	n.notify(driverID, models.NotificationPassengerCancelled, title, body, fmt.Sprintf("/rides/%d", booking.RideID))
}

// RideStarted tells a confirmed passenger the trip is under way.
func (n *Notifier) RideStarted(passengerID uint, ride models.Ride) {
	title := "Trajet démarré"
	body := fmt.Sprintf("Votre trajet %s → %s vient de démarrer.", ride.OriginName, ride.DestinationName)
	n.notify(passengerID, models.NotificationRideStarted, title, body, fmt.Sprintf("/rides/%d", ride.ID))
	n.hub.PushRideEvent(passengerID, "ride_started", RideEvent{RideID: ride.ID, Status: string(ride.Status)})
}

// RideCompleted tells a confirmed passenger the trip is done and invites a review.
func (n *Notifier) RideCompleted(passengerID uint, ride models.Ride) {
	title := "Trajet terminé"
	body := fmt.Sprintf("Votre trajet %s → %s est terminé. Laissez un avis au conducteur !", ride.OriginName, ride.DestinationName)
	n.notify(passengerID, models.NotificationRideCompleted, title, body, fmt.Sprintf("/rides/%d", ride.ID))
	n.hub.PushRideEvent(passengerID, "ride_completed", RideEvent{RideID: ride.ID, Status: string(ride.Status)})
}

// RideCancelled tells a passenger with an active booking the ride is off.
func (n *Notifier) RideCancelled(passengerID uint, ride models.Ride) {
	title := "Trajet annulé"
	body := fmt.Sprintf("Le trajet %s → %s a été annulé par le conducteur.", ride.OriginName, ride.DestinationName)
	n.notify(passengerID, models.NotificationRideCancelled, title, body, "/search")
	n.hub.PushRideEvent(passengerID, "ride_cancelled", RideEvent{RideID: ride.ID, Status: string(ride.Status)})
}

// NewReview tells a user someone rated them.
func (n *Notifier) NewReview(review models.Review, rideID uint) {
	title := "Nouvel avis reçu"
	body := fmt.Sprintf("Vous avez reçu une note de %d/5.", review.Rating)
	n.notify(review.RevieweeID, models.NotificationNewReview, title, body, "/profile")
	n.hub.PushReviewEvent(review.RevieweeID, ReviewEvent{ReviewID: review.ID, RideID: rideID, Rating: review.Rating})
}
