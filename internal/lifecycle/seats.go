package lifecycle

import "fmt"

// MaxSeatsPerBooking caps how many seats a single booking may hold,
// regardless of what the ride still has free.
const MaxSeatsPerBooking = 4

// SeatSelector is the bounded seat stepper state for the booking form.
// Enabled is false when the ride has no free seats, in which case the
// stepper is hidden and submission disabled.
type SeatSelector struct {
	Seats        int     `json:"seats"`
	Max          int     `json:"max"`
	PricePerSeat float64 `json:"pricePerSeat"`
	Total        float64 `json:"total"`
	Enabled      bool    `json:"enabled"`
}

// EffectiveMax bounds a booking by both the per-booking cap and the seats
// the ride still has free.
func EffectiveMax(availableSeats int) int {
	if availableSeats < MaxSeatsPerBooking {
		if availableSeats < 0 {
			return 0
		}
		return availableSeats
	}
	return MaxSeatsPerBooking
}

// NewSeatSelector starts at one seat, clamped into [1, EffectiveMax].
func NewSeatSelector(availableSeats int, pricePerSeat float64) SeatSelector {
	max := EffectiveMax(availableSeats)
	s := SeatSelector{Max: max, PricePerSeat: pricePerSeat, Enabled: max > 0}
	if max > 0 {
		s.Seats = 1
		s.Total = pricePerSeat
	}
	return s
}

// Increment adds a seat; a no-op at the upper bound.
func (s SeatSelector) Increment() SeatSelector {
	if s.Seats < s.Max {
		s.Seats++
		s.Total = TotalPrice(s.Seats, s.PricePerSeat)
	}
	return s
}

// Decrement removes a seat; a no-op at the lower bound.
func (s SeatSelector) Decrement() SeatSelector {
	if s.Seats > 1 {
		s.Seats--
		s.Total = TotalPrice(s.Seats, s.PricePerSeat)
	}
	return s
}

// ClampSeats forces a requested seat count into the valid range for the
// ride. Returns 0 when the ride has no free seats.
func ClampSeats(requested, availableSeats int) int {
	max := EffectiveMax(availableSeats)
	if max == 0 {
		return 0
	}
	if requested < 1 {
		return 1
	}
	if requested > max {
		return max
	}
	return requested
}

// TotalPrice is seats × pricePerSeat.
func TotalPrice(seats int, pricePerSeat float64) float64 {
	return float64(seats) * pricePerSeat
}

// FormatPrice renders a price with two decimals in the ride's currency.
func FormatPrice(amount float64) string {
	return fmt.Sprintf("%.2f TND", amount)
}
