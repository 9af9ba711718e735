// Package countdown drives the OTP resend timer: a pure remaining-time
// computation plus a ticker-based controller that survives client restarts
// by recomputing from the persisted expiry instant.
package countdown

import (
	"context"
	"time"
)

// Remaining returns the whole seconds left until expiry, never negative.
// Derived from the expiry instant, not from counting ticks, so a stalled or
// restarted timer cannot drift.
func Remaining(now, expiry time.Time) int {
	d := expiry.Sub(now)
	if d <= 0 {
		return 0
	}
	// Round up so the display reaches 0 exactly at the expiry instant.
	return int((d + time.Second - 1) / time.Second)
}

// Controller invokes a callback every second with the remaining seconds,
// finishing with a 0 tick at or after the expiry instant.
type Controller struct {
	expiry time.Time
	now    func() time.Time
	tick   time.Duration
}

// New constructs a Controller for the given expiry.
func New(expiry time.Time) *Controller {
	return &Controller{expiry: expiry, now: time.Now, tick: time.Second}
}

// Run calls fn with the remaining seconds once immediately and then on
// every tick, returning when the countdown hits 0 or ctx is cancelled.
// Component teardown is ctx cancellation.
func (c *Controller) Run(ctx context.Context, fn func(secondsLeft int)) {
	left := Remaining(c.now(), c.expiry)
	fn(left)
	if left == 0 {
		return
	}

	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			left = Remaining(c.now(), c.expiry)
			fn(left)
			if left == 0 {
				return
			}
		}
	}
}
