package models

import (
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationNewBooking         NotificationType = "NEW_BOOKING"
	NotificationBookingAccepted    NotificationType = "BOOKING_ACCEPTED"
	NotificationBookingRejected    NotificationType = "BOOKING_REJECTED"
	NotificationRideStarted        NotificationType = "RIDE_STARTED"
	NotificationRideCompleted      NotificationType = "RIDE_COMPLETED"
	NotificationRideCancelled      NotificationType = "RIDE_CANCELLED"
	NotificationPassengerCancelled NotificationType = "PASSENGER_CANCELLED"
	NotificationNewReview          NotificationType = "NEW_REVIEW"
)

// Notification is the in-app feed entry persisted for each lifecycle event.
type Notification struct {
	gorm.Model
	UserID uint             `json:"userId" gorm:"not null;index"`
	Type   NotificationType `json:"type" gorm:"not null"`
	Title  string           `json:"title" gorm:"not null"`
	Body   string           `json:"body"`
	Link   string           `json:"link"`
	Read   bool             `json:"read" gorm:"default:false"`
}
