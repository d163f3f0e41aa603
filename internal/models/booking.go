package models

import (
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusRejected  BookingStatus = "REJECTED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

type Booking struct {
	gorm.Model
	RideID      uint          `json:"rideId" gorm:"not null;index"`
	Ride        Ride          `json:"ride"`
	PassengerID uint          `json:"passengerId" gorm:"not null;index"`
	Passenger   User          `json:"passenger"`
	SeatsBooked int           `json:"seatsBooked" gorm:"not null"`
	PriceTotal  float64       `json:"priceTotal" gorm:"not null"`
	Status      BookingStatus `json:"status" gorm:"not null;default:'PENDING'"`
}

// Active reports whether the booking still holds seats on the ride.
func (b *Booking) Active() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}
