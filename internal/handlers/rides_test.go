package handlers

import (
	"testing"
	"time"

	"github.com/ronin-tn/blassa-sub000/internal/models"
)

func rideWithPlate(status models.RideStatus, departure time.Time) *models.Ride {
	ride := &models.Ride{
		DriverID:      1,
		DepartureTime: departure,
		Status:        status,
		Vehicle:       &models.Vehicle{LicensePlate: "123 TU 4567"},
	}
	return ride
}

func TestVisiblePlate(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	confirmed := &models.Booking{Status: models.BookingStatusConfirmed}
	pending := &models.Booking{Status: models.BookingStatusPending}

	tests := []struct {
		name      string
		ride      *models.Ride
		viewerID  uint
		booking   *models.Booking
		want      string
	}{
		{
			name:     "driver always sees full plate",
			ride:     rideWithPlate(models.RideStatusScheduled, now.Add(48*time.Hour)),
			viewerID: 1,
			want:     "123 TU 4567",
		},
		{
			name:     "stranger sees nothing",
			ride:     rideWithPlate(models.RideStatusScheduled, now.Add(time.Hour)),
			viewerID: 2,
			want:     "",
		},
		{
			name:     "pending passenger sees nothing",
			ride:     rideWithPlate(models.RideStatusScheduled, now.Add(time.Hour)),
			viewerID: 2,
			booking:  pending,
			want:     "",
		},
		{
			name:     "confirmed far from departure sees masked plate",
			ride:     rideWithPlate(models.RideStatusScheduled, now.Add(5*time.Hour)),
			viewerID: 2,
			booking:  confirmed,
			want:     "*** 567",
		},
		{
			name:     "confirmed within an hour sees full plate",
			ride:     rideWithPlate(models.RideStatusScheduled, now.Add(45*time.Minute)),
			viewerID: 2,
			booking:  confirmed,
			want:     "123 TU 4567",
		},
		{
			name:     "confirmed during the ride sees full plate",
			ride:     rideWithPlate(models.RideStatusInProgress, now.Add(-time.Hour)),
			viewerID: 2,
			booking:  confirmed,
			want:     "123 TU 4567",
		},
		{
			name:     "confirmed after completion sees full plate",
			ride:     rideWithPlate(models.RideStatusCompleted, now.Add(-5*time.Hour)),
			viewerID: 2,
			booking:  confirmed,
			want:     "123 TU 4567",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := visiblePlate(tt.ride, tt.viewerID, tt.booking, now); got != tt.want {
				t.Errorf("visiblePlate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTransitionAllowed(t *testing.T) {
	tests := []struct {
		from models.RideStatus
		to   models.RideStatus
		want bool
	}{
		{models.RideStatusScheduled, models.RideStatusInProgress, true},
		{models.RideStatusScheduled, models.RideStatusCancelled, true},
		{models.RideStatusScheduled, models.RideStatusFull, true},
		{models.RideStatusScheduled, models.RideStatusCompleted, false},
		{models.RideStatusFull, models.RideStatusInProgress, true},
		{models.RideStatusFull, models.RideStatusScheduled, true},
		{models.RideStatusInProgress, models.RideStatusCompleted, true},
		{models.RideStatusInProgress, models.RideStatusCancelled, false},
		{models.RideStatusCompleted, models.RideStatusInProgress, false},
		{models.RideStatusCancelled, models.RideStatusScheduled, false},
	}

	for _, tt := range tests {
		if got := transitionAllowed(tt.from, tt.to); got != tt.want {
			t.Errorf("transitionAllowed(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
