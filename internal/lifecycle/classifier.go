// Package lifecycle decides which ride-detail view a client renders and
// which actions it may offer, from the viewer's role and the ride/booking
// state reported by the backend. Everything here is pure so the decision
// table can be tested without a database.
package lifecycle

import (
	"time"

	"github.com/ronin-tn/blassa-sub000/internal/models"
)

// DepartureTimeLayout is the wire format for ride departure times.
const DepartureTimeLayout = "2006-01-02T15:04"

// StartWindow is how close to departure a driver may start a ride that has
// no confirmed passengers yet.
const StartWindow = 30 * time.Minute

type Role string

const (
	RoleDriver    Role = "DRIVER"
	RolePassenger Role = "PASSENGER"
)

type Variant string

const (
	VariantDriverOwnRideManagement Variant = "DRIVER_OWN_RIDE_MANAGEMENT"
	VariantActiveDriver            Variant = "ACTIVE_DRIVER"
	VariantCompletedDriver         Variant = "COMPLETED_DRIVER"
	VariantActivePassenger         Variant = "ACTIVE_PASSENGER"
	VariantCompletedPassenger      Variant = "COMPLETED_PASSENGER"
	VariantBookingStatusBanner     Variant = "BOOKING_STATUS_BANNER"
	VariantBookingActions          Variant = "BOOKING_ACTIONS"
	VariantRideCancelled           Variant = "RIDE_CANCELLED"
	VariantRideUnavailable         Variant = "RIDE_UNAVAILABLE"
)

type Action string

const (
	ActionStartRide     Action = "START_RIDE"
	ActionCompleteRide  Action = "COMPLETE_RIDE"
	ActionCancelRide    Action = "CANCEL_RIDE"
	ActionAcceptBooking Action = "ACCEPT_BOOKING"
	ActionRejectBooking Action = "REJECT_BOOKING"
	ActionBookRide      Action = "BOOK_RIDE"
	ActionCancelBooking Action = "CANCEL_BOOKING"
	ActionSubmitReview  Action = "SUBMIT_REVIEW"
)

// NeedsConfirmation reports whether an action is destructive and must go
// through an explicit confirmation step before dispatch.
func NeedsConfirmation(a Action) bool {
	return a == ActionCancelRide || a == ActionCancelBooking
}

// BookingSummary is the slice of a booking the classifier needs.
type BookingSummary struct {
	Status      models.BookingStatus
	SeatsBooked int
}

// Input gathers everything the decision depends on. DepartureTime is the
// wire-format string; a value that fails to parse disables time-based
// start gating rather than enabling it.
type Input struct {
	Role           Role
	RideStatus     models.RideStatus
	AvailableSeats int
	PricePerSeat   float64
	DepartureTime  string
	Booking        *BookingSummary  // viewer's own booking, passengers only
	Bookings       []BookingSummary // all bookings, drivers only
	Reviewed       bool             // viewer already reviewed their booking
	Now            time.Time
}

// View is the classifier verdict consumed by the thin renderers.
type View struct {
	Variant          Variant               `json:"variant"`
	BannerStatus     models.BookingStatus  `json:"bannerStatus,omitempty"`
	Actions          []Action              `json:"actions"`
	StartEnabled     bool                  `json:"startEnabled"`
	ConfirmedCount   int                   `json:"confirmedCount"`
	Earnings         float64               `json:"earnings"`
	Seats            SeatSelector          `json:"seats"`
}

// Classify maps (role, ride state, booking state, time) to the one view
// variant the client renders. It holds no state of its own; the backend
// copies it consumes are the single source of truth.
func Classify(in Input) View {
	if in.Role == RoleDriver {
		return classifyDriver(in)
	}
	return classifyPassenger(in)
}

func classifyDriver(in Input) View {
	confirmed, earnings := confirmedStats(in.Bookings, in.PricePerSeat)

	switch in.RideStatus {
	case models.RideStatusScheduled, models.RideStatusFull:
		// FULL is scheduled-with-no-seats from the driver's side.
		v := View{
			Variant:        VariantDriverOwnRideManagement,
			Actions:        []Action{ActionAcceptBooking, ActionRejectBooking, ActionCancelRide},
			ConfirmedCount: confirmed,
		}
		if StartAllowed(confirmed, in.DepartureTime, in.Now) {
			v.StartEnabled = true
			v.Actions = append(v.Actions, ActionStartRide)
		}
		return v
	case models.RideStatusInProgress:
		return View{
			Variant:        VariantActiveDriver,
			Actions:        []Action{ActionCompleteRide},
			ConfirmedCount: confirmed,
		}
	case models.RideStatusCompleted:
		return View{
			Variant:        VariantCompletedDriver,
			Actions:        []Action{},
			ConfirmedCount: confirmed,
			Earnings:       earnings,
		}
	default: // CANCELLED
		return View{Variant: VariantRideCancelled, Actions: []Action{}}
	}
}

func classifyPassenger(in Input) View {
	if in.Booking == nil {
		if in.RideStatus == models.RideStatusScheduled && in.AvailableSeats > 0 {
			return View{
				Variant: VariantBookingActions,
				Actions: []Action{ActionBookRide},
				Seats:   NewSeatSelector(in.AvailableSeats, in.PricePerSeat),
			}
		}
		if in.RideStatus == models.RideStatusCancelled {
			return View{Variant: VariantRideCancelled, Actions: []Action{}}
		}
		return View{Variant: VariantRideUnavailable, Actions: []Action{}}
	}

	switch in.Booking.Status {
	case models.BookingStatusPending:
		return View{
			Variant:      VariantBookingStatusBanner,
			BannerStatus: models.BookingStatusPending,
			Actions:      []Action{ActionCancelBooking},
		}
	case models.BookingStatusRejected:
		return View{
			Variant:      VariantBookingStatusBanner,
			BannerStatus: models.BookingStatusRejected,
			Actions:      []Action{},
		}
	case models.BookingStatusCancelled:
		return View{
			Variant:      VariantBookingStatusBanner,
			BannerStatus: models.BookingStatusCancelled,
			Actions:      []Action{},
		}
	}

	// CONFIRMED: variant tracks the ride itself.
	switch in.RideStatus {
	case models.RideStatusInProgress:
		return View{Variant: VariantActivePassenger, Actions: []Action{}}
	case models.RideStatusCompleted:
		v := View{Variant: VariantCompletedPassenger, Actions: []Action{}}
		if !in.Reviewed {
			v.Actions = append(v.Actions, ActionSubmitReview)
		}
		return v
	case models.RideStatusCancelled:
		return View{Variant: VariantRideCancelled, Actions: []Action{}}
	default: // SCHEDULED or FULL, seats held
		return View{
			Variant:      VariantBookingStatusBanner,
			BannerStatus: models.BookingStatusConfirmed,
			Actions:      []Action{ActionCancelBooking},
		}
	}
}

// StartAllowed gates the driver's start action: at least one confirmed
// booking, or departure within StartWindow. An unparseable departure time
// fails closed.
func StartAllowed(confirmedCount int, departureTime string, now time.Time) bool {
	if confirmedCount > 0 {
		return true
	}
	dep, err := time.ParseInLocation(DepartureTimeLayout, departureTime, now.Location())
	if err != nil {
		return false
	}
	return dep.Sub(now) <= StartWindow
}

func confirmedStats(bookings []BookingSummary, pricePerSeat float64) (int, float64) {
	count := 0
	earnings := 0.0
	for _, b := range bookings {
		if b.Status == models.BookingStatusConfirmed {
			count++
			earnings += float64(b.SeatsBooked) * pricePerSeat
		}
	}
	return count, earnings
}
