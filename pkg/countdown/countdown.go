// Package countdown provides the cancellable one-second tick used to gate
// resend actions. The counter starts at a fixed value, decrements once per
// second while running, never goes below zero, and resets to the initial
// value on demand. Stopping it tears down the goroutine so nothing keeps
// ticking after the owning connection or view is gone.
package countdown

import (
	"context"
	"sync"
	"time"
)

// ResendDelay is the fixed wait between resend attempts.
const ResendDelay = 60

// Countdown is safe for concurrent use. OnTick, when set, is invoked with
// the remaining seconds after every decrement and after every reset.
type Countdown struct {
	mu        sync.Mutex
	remaining int
	initial   int
	cancel    context.CancelFunc
	done      chan struct{}

	OnTick func(remaining int)
}

// New creates a stopped countdown holding initial seconds.
func New(initial int) *Countdown {
	if initial < 0 {
		initial = 0
	}
	return &Countdown{remaining: initial, initial: initial}
}

// Start begins ticking. Starting an already running countdown is a no-op.
func (c *Countdown) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		return
	}
	ctx, c.cancel = context.WithCancel(ctx)
	c.done = make(chan struct{})
	go c.run(ctx, c.done)
}

func (c *Countdown) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Tick()
		}
	}
}

// Tick decrements by one second, stopping at zero.
func (c *Countdown) Tick() {
	c.mu.Lock()
	if c.remaining > 0 {
		c.remaining--
	}
	remaining := c.remaining
	onTick := c.OnTick
	c.mu.Unlock()
	if onTick != nil {
		onTick(remaining)
	}
}

// Remaining returns the seconds left before a resend is allowed.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Ready reports whether the gated action may fire.
func (c *Countdown) Ready() bool {
	return c.Remaining() == 0
}

// Reset restores the initial value, as after a successful resend.
func (c *Countdown) Reset() {
	c.mu.Lock()
	c.remaining = c.initial
	remaining := c.remaining
	onTick := c.OnTick
	c.mu.Unlock()
	if onTick != nil {
		onTick(remaining)
	}
}

// Stop cancels the ticking goroutine and waits for it to exit. The counter
// value is preserved; Start may be called again afterwards.
func (c *Countdown) Stop() {
	c.mu.Lock()
	cancel := c.cancel
	done := c.done
	c.cancel = nil
	c.done = nil
	c.mu.Unlock()
	if cancel != nil {
		cancel()
		<-done
	}
}
