package lifecycle

import "testing"

func TestEffectiveMax(t *testing.T) {
	tests := []struct {
		available int
		want      int
	}{
		{-1, 0},
		{0, 0},
		{1, 1},
		{2, 2},
		{4, 4},
		{5, 4},
		{10, 4},
	}

	for _, tt := range tests {
		if got := EffectiveMax(tt.available); got != tt.want {
			t.Errorf("EffectiveMax(%d) = %d, want %d", tt.available, got, tt.want)
		}
	}
}

func TestNewSeatSelector(t *testing.T) {
	s := NewSeatSelector(3, 10.0)
	if !s.Enabled {
		t.Fatal("selector should be enabled with seats available")
	}
	if s.Seats != 1 || s.Max != 3 || s.Total != 10.0 {
		t.Errorf("selector = %+v, want 1 seat, max 3, total 10.0", s)
	}

	empty := NewSeatSelector(0, 10.0)
	if empty.Enabled {
		t.Error("selector should be disabled with no seats")
	}
	if empty.Seats != 0 {
		t.Errorf("Seats = %d, want 0", empty.Seats)
	}
}

func TestSeatSelectorStepBounds(t *testing.T) {
	s := NewSeatSelector(2, 7.5)

	s = s.Increment()
	if s.Seats != 2 || s.Total != 15.0 {
		t.Errorf("after increment: %+v, want 2 seats total 15.0", s)
	}

	// Upper bound: incrementing at max is a no-op.
	s = s.Increment()
	if s.Seats != 2 {
		t.Errorf("Seats = %d, want 2 after increment at max", s.Seats)
	}

	s = s.Decrement()
	if s.Seats != 1 || s.Total != 7.5 {
		t.Errorf("after decrement: %+v, want 1 seat total 7.5", s)
	}

	// Lower bound: decrementing at one is a no-op.
	s = s.Decrement()
	if s.Seats != 1 {
		t.Errorf("Seats = %d, want 1 after decrement at min", s.Seats)
	}
}

func TestClampSeats(t *testing.T) {
	tests := []struct {
		requested int
		available int
		want      int
	}{
		{0, 3, 1},
		{-2, 3, 1},
		{1, 3, 1},
		{3, 3, 3},
		{5, 3, 3},
		{5, 10, 4},
		{2, 0, 0},
		{1, 2, 1},
		{4, 2, 2},
	}

	for _, tt := range tests {
		if got := ClampSeats(tt.requested, tt.available); got != tt.want {
			t.Errorf("ClampSeats(%d, %d) = %d, want %d", tt.requested, tt.available, got, tt.want)
		}
	}
}

func TestTotalPrice(t *testing.T) {
	if got := TotalPrice(2, 7.5); got != 15.0 {
		t.Errorf("TotalPrice(2, 7.5) = %f, want 15.0", got)
	}
	if got := TotalPrice(3, 0); got != 0 {
		t.Errorf("TotalPrice(3, 0) = %f, want 0", got)
	}
}

func TestFormatPrice(t *testing.T) {
	if got := FormatPrice(15.0); got != "15.00 TND" {
		t.Errorf("FormatPrice(15.0) = %q, want %q", got, "15.00 TND")
	}
	if got := FormatPrice(7.5); got != "7.50 TND" {
		t.Errorf("FormatPrice(7.5) = %q, want %q", got, "7.50 TND")
	}
}
