package countdown

import (
	"context"
	"testing"
)

func TestTickCountsDownToZero(t *testing.T) {
	c := New(ResendDelay)

	if c.Ready() {
		t.Fatal("fresh countdown should not be ready")
	}

	for i := 0; i < ResendDelay; i++ {
		c.Tick()
	}

	if got := c.Remaining(); got != 0 {
		t.Errorf("Remaining = %d, want 0", got)
	}
	if !c.Ready() {
		t.Error("countdown at zero should be ready")
	}
}

func TestTickFloorsAtZero(t *testing.T) {
	c := New(2)
	for i := 0; i < 5; i++ {
		c.Tick()
	}
	if got := c.Remaining(); got != 0 {
		t.Errorf("Remaining = %d, want 0 after over-ticking", got)
	}
}

func TestResetRestoresInitial(t *testing.T) {
	c := New(ResendDelay)
	for i := 0; i < 10; i++ {
		c.Tick()
	}

	c.Reset()
	if got := c.Remaining(); got != ResendDelay {
		t.Errorf("Remaining = %d, want %d after reset", got, ResendDelay)
	}
	if c.Ready() {
		t.Error("countdown should not be ready after reset")
	}
}

func TestOnTickObservesEveryChange(t *testing.T) {
	c := New(3)
	var seen []int
	c.OnTick = func(remaining int) {
		seen = append(seen, remaining)
	}

	c.Tick()
	c.Tick()
	c.Reset()

	want := []int{2, 1, 3}
	if len(seen) != len(want) {
		t.Fatalf("seen = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("seen[%d] = %d, want %d", i, seen[i], want[i])
		}
	}
}

func TestStartStopNoLeak(t *testing.T) {
	c := New(ResendDelay)
	c.Start(context.Background())

	// Double start is a no-op, double stop must not block or panic.
	c.Start(context.Background())
	c.Stop()
	c.Stop()

	if got := c.Remaining(); got > ResendDelay {
		t.Errorf("Remaining = %d, exceeds initial %d", got, ResendDelay)
	}

	// The countdown is restartable after a stop.
	c.Start(context.Background())
	c.Stop()
}

func TestNegativeInitialClampsToZero(t *testing.T) {
	c := New(-5)
	if got := c.Remaining(); got != 0 {
		t.Errorf("Remaining = %d, want 0", got)
	}
	if !c.Ready() {
		t.Error("zero countdown should be ready immediately")
	}
}
