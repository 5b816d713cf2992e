package app

import (
	"sync"
	"time"
)

// DelayedAction is a one-shot scheduled callback with a handle that can
// be voided. It backs the cosmetic pauses between quiz questions and
// before the results view closes; cancelling never affects scored state.
type DelayedAction struct {
	mu    sync.Mutex
	timer *time.Timer
	done  bool
}

// Schedule runs fn after d unless the returned handle is cancelled
// first. A zero or negative delay runs fn immediately on the timer
// goroutine.
func Schedule(d time.Duration, fn func()) *DelayedAction {
	a := &DelayedAction{}
	a.timer = time.AfterFunc(d, func() {
		a.mu.Lock()
		fired := !a.done
		a.done = true
		a.mu.Unlock()
		if fired {
			fn()
		}
	})
	return a
}

// Cancel voids the action. It reports whether the callback was
// prevented from running; cancelling a nil or fired handle is a no-op.
func (a *DelayedAction) Cancel() bool {
	if a == nil {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.done {
		return false
	}
	a.done = true
	return a.timer.Stop()
}
