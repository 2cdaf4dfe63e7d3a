package session

import "time"

// TimerState enumerates the countdown's lifecycle.
type TimerState string

const (
	// TimerArmed means the countdown is set but has not ticked yet.
	TimerArmed TimerState = "ARMED"
	// TimerRunning means at least one tick has fired.
	TimerRunning TimerState = "RUNNING"
	// TimerExpired means the countdown reached zero.
	TimerExpired TimerState = "EXPIRED"
	// TimerCancelled means the countdown was stopped before expiry.
	TimerCancelled TimerState = "CANCELLED"
)

// Countdown ticks down once per second from a fixed duration. It is not
// safe for concurrent use on its own; the owning Session serializes access.
type Countdown struct {
	remaining int
	state     TimerState
}

// NewCountdown arms a countdown for the given duration, rounded down to
// whole seconds.
func NewCountdown(d time.Duration) *Countdown {
	return &Countdown{
		remaining: int(d / time.Second),
		state:     TimerArmed,
	}
}

// Tick advances the countdown by one second. It reports true exactly once,
// on the transition to TimerExpired; ticks against an expired or cancelled
// countdown do nothing.
func (c *Countdown) Tick() bool {
	switch c.state {
	case TimerArmed:
		c.state = TimerRunning
	case TimerRunning:
	default:
		return false
	}

	if c.remaining > 0 {
		c.remaining--
	}
	if c.remaining == 0 {
		c.state = TimerExpired
		return true
	}
	return false
}

// Cancel stops a countdown that has not expired. Cancelling an expired
// countdown is a no-op.
func (c *Countdown) Cancel() {
	if c.state == TimerArmed || c.state == TimerRunning {
		c.state = TimerCancelled
	}
}

// Remaining returns the seconds left.
func (c *Countdown) Remaining() int {
	return c.remaining
}

// State returns the current timer state.
func (c *Countdown) State() TimerState {
	return c.state
}
