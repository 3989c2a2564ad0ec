package combat

import (
	"sync"
	"time"
)

// DelayTimer fires a callback after a configurable duration unless stopped.
// The gameserver uses it for the enemy's think delay. It is safe for
// concurrent use.
type DelayTimer struct {
	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
	gen     int
}

// NewDelayTimer creates and starts a timer that calls onFire after d.
// onFire is called in a separate goroutine.
//
// Precondition: d >= 0; onFire must not be nil.
// Postcondition: onFire will be called unless Stop is called first.
func NewDelayTimer(d time.Duration, onFire func()) *DelayTimer {
	dt := &DelayTimer{}
	dt.timer = time.AfterFunc(d, dt.guard(onFire))
	return dt
}

// guard wraps onFire so it runs only if the timer was neither stopped nor
// reset since it was scheduled. Callers must hold dt.mu or own dt exclusively.
func (dt *DelayTimer) guard(onFire func()) func() {
	gen := dt.gen
	return func() {
		dt.mu.Lock()
		live := !dt.stopped && dt.gen == gen
		dt.mu.Unlock()
		if live {
			onFire()
		}
	}
}

// Reset cancels the pending callback and schedules onFire after d instead.
//
// Postcondition: onFire will be called after d from now unless Stop is called first.
func (dt *DelayTimer) Reset(d time.Duration, onFire func()) {
	dt.mu.Lock()
	defer dt.mu.Unlock()
	dt.timer.Stop()
	dt.stopped = false
	dt.gen++
	dt.timer = time.AfterFunc(d, dt.guard(onFire))
}

// Stop prevents the callback from firing. Safe to call multiple times.
//
// Postcondition: onFire will not be called after Stop returns, unless it had already started.
func (dt *DelayTimer) Stop() {
	dt.mu.Lock()
	defer dt.mu.Unlock()
	dt.stopped = true
	dt.timer.Stop()
}
