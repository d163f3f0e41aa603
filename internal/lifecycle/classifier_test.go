package lifecycle

import (
	"testing"
	"time"

	"github.com/ronin-tn/blassa-sub000/internal/models"
)

var testNow = time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

func departureIn(d time.Duration) string {
	return testNow.Add(d).Format(DepartureTimeLayout)
}

func hasAction(actions []Action, want Action) bool {
	for _, a := range actions {
		if a == want {
			return true
		}
	}
	return false
}

func TestClassifyDriver(t *testing.T) {
	tests := []struct {
		name        string
		in          Input
		wantVariant Variant
		wantActions []Action
		wantStart   bool
	}{
		{
			name: "scheduled with confirmed booking can start",
			in: Input{
				Role:          RoleDriver,
				RideStatus:    models.RideStatusScheduled,
				DepartureTime: departureIn(3 * time.Hour),
				Bookings: []BookingSummary{
					{Status: models.BookingStatusConfirmed, SeatsBooked: 2},
					{Status: models.BookingStatusPending, SeatsBooked: 1},
				},
				Now: testNow,
			},
			wantVariant: VariantDriverOwnRideManagement,
			wantActions: []Action{ActionAcceptBooking, ActionRejectBooking, ActionCancelRide, ActionStartRide},
			wantStart:   true,
		},
		{
			name: "scheduled without confirmed and far departure cannot start",
			in: Input{
				Role:          RoleDriver,
				RideStatus:    models.RideStatusScheduled,
				DepartureTime: departureIn(45 * time.Minute),
				Now:           testNow,
			},
			wantVariant: VariantDriverOwnRideManagement,
			wantActions: []Action{ActionAcceptBooking, ActionRejectBooking, ActionCancelRide},
			wantStart:   false,
		},
		{
			name: "scheduled without confirmed but close departure can start",
			in: Input{
				Role:          RoleDriver,
				RideStatus:    models.RideStatusScheduled,
				DepartureTime: departureIn(20 * time.Minute),
				Now:           testNow,
			},
			wantVariant: VariantDriverOwnRideManagement,
			wantActions: []Action{ActionAcceptBooking, ActionRejectBooking, ActionCancelRide, ActionStartRide},
			wantStart:   true,
		},
		{
			name: "full ride is managed like scheduled",
			in: Input{
				Role:          RoleDriver,
				RideStatus:    models.RideStatusFull,
				DepartureTime: departureIn(2 * time.Hour),
				Bookings:      []BookingSummary{{Status: models.BookingStatusConfirmed, SeatsBooked: 4}},
				Now:           testNow,
			},
			wantVariant: VariantDriverOwnRideManagement,
			wantActions: []Action{ActionAcceptBooking, ActionRejectBooking, ActionCancelRide, ActionStartRide},
			wantStart:   true,
		},
		{
			name: "in progress only offers complete",
			in: Input{
				Role:       RoleDriver,
				RideStatus: models.RideStatusInProgress,
				Now:        testNow,
			},
			wantVariant: VariantActiveDriver,
			wantActions: []Action{ActionCompleteRide},
		},
		{
			name: "completed offers nothing",
			in: Input{
				Role:       RoleDriver,
				RideStatus: models.RideStatusCompleted,
				Now:        testNow,
			},
			wantVariant: VariantCompletedDriver,
			wantActions: []Action{},
		},
		{
			name: "cancelled ride is frozen",
			in: Input{
				Role:       RoleDriver,
				RideStatus: models.RideStatusCancelled,
				Now:        testNow,
			},
			wantVariant: VariantRideCancelled,
			wantActions: []Action{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.in)
			if got.Variant != tt.wantVariant {
				t.Errorf("Variant = %s, want %s", got.Variant, tt.wantVariant)
			}
			if got.StartEnabled != tt.wantStart {
				t.Errorf("StartEnabled = %v, want %v", got.StartEnabled, tt.wantStart)
			}
			if len(got.Actions) != len(tt.wantActions) {
				t.Fatalf("Actions = %v, want %v", got.Actions, tt.wantActions)
			}
			for _, a := range tt.wantActions {
				if !hasAction(got.Actions, a) {
					t.Errorf("Actions %v missing %s", got.Actions, a)
				}
			}
		})
	}
}

func TestClassifyDriverEarnings(t *testing.T) {
	got := Classify(Input{
		Role:         RoleDriver,
		RideStatus:   models.RideStatusCompleted,
		PricePerSeat: 15.0,
		Bookings: []BookingSummary{
			{Status: models.BookingStatusConfirmed, SeatsBooked: 2},
			{Status: models.BookingStatusConfirmed, SeatsBooked: 1},
			{Status: models.BookingStatusRejected, SeatsBooked: 3},
			{Status: models.BookingStatusCancelled, SeatsBooked: 2},
		},
		Now: testNow,
	})

	if got.ConfirmedCount != 2 {
		t.Errorf("ConfirmedCount = %d, want 2", got.ConfirmedCount)
	}
	if got.Earnings != 45.0 {
		t.Errorf("Earnings = %f, want 45.0", got.Earnings)
	}
}

func TestClassifyPassenger(t *testing.T) {
	tests := []struct {
		name        string
		in          Input
		wantVariant Variant
		wantBanner  models.BookingStatus
		wantActions []Action
	}{
		{
			name: "no booking on open ride offers book",
			in: Input{
				Role:           RolePassenger,
				RideStatus:     models.RideStatusScheduled,
				AvailableSeats: 3,
				PricePerSeat:   12.0,
				Now:            testNow,
			},
			wantVariant: VariantBookingActions,
			wantActions: []Action{ActionBookRide},
		},
		{
			name: "no booking on full ride is unavailable",
			in: Input{
				Role:       RolePassenger,
				RideStatus: models.RideStatusFull,
				Now:        testNow,
			},
			wantVariant: VariantRideUnavailable,
			wantActions: []Action{},
		},
		{
			name: "no booking on cancelled ride",
			in: Input{
				Role:       RolePassenger,
				RideStatus: models.RideStatusCancelled,
				Now:        testNow,
			},
			wantVariant: VariantRideCancelled,
			wantActions: []Action{},
		},
		{
			name: "pending banner keeps cancel",
			in: Input{
				Role:       RolePassenger,
				RideStatus: models.RideStatusScheduled,
				Booking:    &BookingSummary{Status: models.BookingStatusPending, SeatsBooked: 2},
				Now:        testNow,
			},
			wantVariant: VariantBookingStatusBanner,
			wantBanner:  models.BookingStatusPending,
			wantActions: []Action{ActionCancelBooking},
		},
		{
			name: "rejected banner offers nothing",
			in: Input{
				Role:       RolePassenger,
				RideStatus: models.RideStatusScheduled,
				Booking:    &BookingSummary{Status: models.BookingStatusRejected, SeatsBooked: 1},
				Now:        testNow,
			},
			wantVariant: VariantBookingStatusBanner,
			wantBanner:  models.BookingStatusRejected,
			wantActions: []Action{},
		},
		{
			name: "cancelled banner offers nothing",
			in: Input{
				Role:       RolePassenger,
				RideStatus: models.RideStatusScheduled,
				Booking:    &BookingSummary{Status: models.BookingStatusCancelled, SeatsBooked: 1},
				Now:        testNow,
			},
			wantVariant: VariantBookingStatusBanner,
			wantBanner:  models.BookingStatusCancelled,
			wantActions: []Action{},
		},
		{
			name: "confirmed before departure keeps cancel",
			in: Input{
				Role:       RolePassenger,
				RideStatus: models.RideStatusScheduled,
				Booking:    &BookingSummary{Status: models.BookingStatusConfirmed, SeatsBooked: 2},
				Now:        testNow,
			},
			wantVariant: VariantBookingStatusBanner,
			wantBanner:  models.BookingStatusConfirmed,
			wantActions: []Action{ActionCancelBooking},
		},
		{
			name: "confirmed while in progress",
			in: Input{
				Role:       RolePassenger,
				RideStatus: models.RideStatusInProgress,
				Booking:    &BookingSummary{Status: models.BookingStatusConfirmed, SeatsBooked: 2},
				Now:        testNow,
			},
			wantVariant: VariantActivePassenger,
			wantActions: []Action{},
		},
		{
			name: "confirmed after completion offers review",
			in: Input{
				Role:       RolePassenger,
				RideStatus: models.RideStatusCompleted,
				Booking:    &BookingSummary{Status: models.BookingStatusConfirmed, SeatsBooked: 2},
				Now:        testNow,
			},
			wantVariant: VariantCompletedPassenger,
			wantActions: []Action{ActionSubmitReview},
		},
		{
			name: "already reviewed hides review action",
			in: Input{
				Role:       RolePassenger,
				RideStatus: models.RideStatusCompleted,
				Booking:    &BookingSummary{Status: models.BookingStatusConfirmed, SeatsBooked: 2},
				Reviewed:   true,
				Now:        testNow,
			},
			wantVariant: VariantCompletedPassenger,
			wantActions: []Action{},
		},
		{
			name: "confirmed on cancelled ride",
			in: Input{
				Role:       RolePassenger,
				RideStatus: models.RideStatusCancelled,
				Booking:    &BookingSummary{Status: models.BookingStatusConfirmed, SeatsBooked: 2},
				Now:        testNow,
			},
			wantVariant: VariantRideCancelled,
			wantActions: []Action{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.in)
			if got.Variant != tt.wantVariant {
				t.Errorf("Variant = %s, want %s", got.Variant, tt.wantVariant)
			}
			if got.BannerStatus != tt.wantBanner {
				t.Errorf("BannerStatus = %s, want %s", got.BannerStatus, tt.wantBanner)
			}
			if len(got.Actions) != len(tt.wantActions) {
				t.Fatalf("Actions = %v, want %v", got.Actions, tt.wantActions)
			}
			for _, a := range tt.wantActions {
				if !hasAction(got.Actions, a) {
					t.Errorf("Actions %v missing %s", got.Actions, a)
				}
			}
		})
	}
}

func TestClassifyPassengerSeatSelector(t *testing.T) {
	got := Classify(Input{
		Role:           RolePassenger,
		RideStatus:     models.RideStatusScheduled,
		AvailableSeats: 2,
		PricePerSeat:   7.5,
		Now:            testNow,
	})

	if !got.Seats.Enabled {
		t.Fatal("seat selector should be enabled")
	}
	if got.Seats.Seats != 1 || got.Seats.Max != 2 {
		t.Errorf("selector = %+v, want seats 1 max 2", got.Seats)
	}
	if got.Seats.Total != 7.5 {
		t.Errorf("Total = %f, want 7.5", got.Seats.Total)
	}
}

func TestStartAllowed(t *testing.T) {
	tests := []struct {
		name      string
		confirmed int
		departure string
		want      bool
	}{
		{"confirmed booking always allows", 1, departureIn(5 * time.Hour), true},
		{"no confirmed and departure far", 0, departureIn(45 * time.Minute), false},
		{"no confirmed inside window", 0, departureIn(29 * time.Minute), true},
		{"no confirmed exactly at window", 0, departureIn(30 * time.Minute), true},
		{"departure already passed", 0, departureIn(-10 * time.Minute), true},
		{"unparseable departure fails closed", 0, "not-a-time", false},
		{"empty departure fails closed", 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StartAllowed(tt.confirmed, tt.departure, testNow); got != tt.want {
				t.Errorf("StartAllowed(%d, %q) = %v, want %v", tt.confirmed, tt.departure, got, tt.want)
			}
		})
	}
}

func TestNeedsConfirmation(t *testing.T) {
	confirm := []Action{ActionCancelRide, ActionCancelBooking}
	direct := []Action{ActionStartRide, ActionCompleteRide, ActionAcceptBooking, ActionRejectBooking, ActionBookRide, ActionSubmitReview}

	for _, a := range confirm {
		if !NeedsConfirmation(a) {
			t.Errorf("NeedsConfirmation(%s) = false, want true", a)
		}
	}
	for _, a := range direct {
		if NeedsConfirmation(a) {
			t.Errorf("NeedsConfirmation(%s) = true, want false", a)
		}
	}
}
