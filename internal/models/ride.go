package models

import (
	"time"

	"gorm.io/gorm"
)

type RideStatus string

const (
	RideStatusScheduled  RideStatus = "SCHEDULED"
	RideStatusFull       RideStatus = "FULL"
	RideStatusInProgress RideStatus = "IN_PROGRESS"
	RideStatusCompleted  RideStatus = "COMPLETED"
	RideStatusCancelled  RideStatus = "CANCELLED"
)

type GenderPreference string

const (
	GenderPreferenceAny        GenderPreference = "ANY"
	GenderPreferenceMaleOnly   GenderPreference = "MALE_ONLY"
	GenderPreferenceFemaleOnly GenderPreference = "FEMALE_ONLY"
)

type Ride struct {
	gorm.Model
	DriverID         uint             `json:"driverId" gorm:"not null;index"`
	Driver           User             `json:"driver"`
	VehicleID        *uint            `json:"vehicleId" gorm:"index"`
	Vehicle          *Vehicle         `json:"vehicle,omitempty"`
	OriginName       string           `json:"originName" gorm:"not null"`
	OriginLat        float64          `json:"originLat"`
	OriginLng        float64          `json:"originLng"`
	DestinationName  string           `json:"destinationName" gorm:"not null"`
	DestinationLat   float64          `json:"destinationLat"`
	DestinationLng   float64          `json:"destinationLng"`
	DepartureTime    time.Time        `json:"departureTime" gorm:"not null;index"`
	TotalSeats       int              `json:"totalSeats" gorm:"not null"`
	AvailableSeats   int              `json:"availableSeats" gorm:"not null"`
	PricePerSeat     float64          `json:"pricePerSeat" gorm:"not null"`
	Status           RideStatus       `json:"status" gorm:"not null;default:'SCHEDULED'"`
	GenderPreference GenderPreference `json:"genderPreference" gorm:"default:'ANY'"`
	AllowsSmoking    bool             `json:"allowsSmoking" gorm:"default:false"`
	AllowsMusic      bool             `json:"allowsMusic" gorm:"default:false"`
	AllowsPets       bool             `json:"allowsPets" gorm:"default:false"`
	LuggageSize      string           `json:"luggageSize"` // SMALL, MEDIUM, LARGE
	Bookings         []Booking        `json:"bookings,omitempty"`
}

// IsTerminal reports whether the ride can no longer change status.
func (r *Ride) IsTerminal() bool {
	return r.Status == RideStatusCompleted || r.Status == RideStatusCancelled
}

// Bookable reports whether new bookings are accepted for the ride.
func (r *Ride) Bookable() bool {
	return r.Status == RideStatusScheduled && r.AvailableSeats > 0
}
